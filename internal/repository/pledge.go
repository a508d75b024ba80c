package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/carepledge/internal/model"
)

var (
	ErrPledgeNotFound = errors.New("pledge not found")
)

type PledgeRepository interface {
	Create(ctx context.Context, pledge *model.Pledge) error
	ByID(ctx context.Context, id string) (*model.Pledge, error)
	Pledges(ctx context.Context) ([]*model.Pledge, error)
	Update(ctx context.Context, pledge *model.Pledge) error
}

type pledgeRepository struct {
	db *sqlx.DB
}

func NewPledgeRepository(db *sqlx.DB) PledgeRepository {
	return &pledgeRepository{db: db}
}

func (r *pledgeRepository) Create(ctx context.Context, p *model.Pledge) error {
	query := `INSERT INTO pledges (id, patient_id, patient_name, patient_email, goal, amount, message, metric_type,
	              target, duration, status, accepted, accepted_at, start_date, end_date, replaced_at, completed_at,
	              progress, total_days, provider_id, provider_name, provider_email, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.PatientID,
		p.PatientName,
		p.PatientEmail,
		p.Goal,
		p.Amount,
		p.Message,
		p.MetricType,
		p.Target,
		p.Duration,
		p.Status,
		p.Accepted,
		p.AcceptedAt,
		p.StartDate,
		p.EndDate,
		p.ReplacedAt,
		p.CompletedAt,
		p.Progress,
		p.TotalDays,
		p.ProviderID,
		p.ProviderName,
		p.ProviderEmail,
		p.Timestamp,
	)

	return err
}

func (r *pledgeRepository) ByID(ctx context.Context, id string) (*model.Pledge, error) {
	pledge := &model.Pledge{}
	query := `SELECT * FROM pledges WHERE id = $1`

	err := r.db.GetContext(ctx, pledge, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrPledgeNotFound
	}
	if err != nil {
		return nil, err
	}

	return pledge, nil
}

func (r *pledgeRepository) Pledges(ctx context.Context) ([]*model.Pledge, error) {
	var pledges []*model.Pledge
	query := `SELECT * FROM pledges ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &pledges, query)
	if err != nil {
		return nil, err
	}

	return pledges, nil
}

// Update writes the mutable lifecycle columns; identity and terms are fixed
// at creation.
func (r *pledgeRepository) Update(ctx context.Context, p *model.Pledge) error {
	query := `UPDATE pledges
	          SET status = $1, accepted = $2, accepted_at = $3, start_date = $4, end_date = $5,
	              replaced_at = $6, completed_at = $7, progress = $8, total_days = $9
	          WHERE id = $10`

	result, err := r.db.ExecContext(ctx, query,
		p.Status,
		p.Accepted,
		p.AcceptedAt,
		p.StartDate,
		p.EndDate,
		p.ReplacedAt,
		p.CompletedAt,
		p.Progress,
		p.TotalDays,
		p.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPledgeNotFound
	}

	return nil
}
