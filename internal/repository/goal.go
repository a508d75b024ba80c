package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/carepledge/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalRepository stores goals. Goals returns every goal in insertion order;
// ordering for display is the service's job.
type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, id string) (*model.Goal, error)
	Goals(ctx context.Context) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, patient_id, title, description, category, target, current_value, reward, status,
	              assigned_by_role, assigned_by, progress, start_date, end_date, completed_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.PatientID,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.Target,
		goal.Current,
		goal.Reward,
		goal.Status,
		goal.AssignedByRole,
		goal.AssignedBy,
		goal.Progress,
		goal.StartDate,
		goal.EndDate,
		goal.CompletedDate,
		goal.CreatedAt,
	)

	return err
}

func (r *goalRepository) ByID(ctx context.Context, id string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.GetContext(ctx, goal, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &goals, query)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, description = $2, category = $3, target = $4, current_value = $5, reward = $6,
	              status = $7, assigned_by_role = $8, progress = $9, start_date = $10, end_date = $11,
	              completed_date = $12
	          WHERE id = $13`

	result, err := r.db.ExecContext(ctx, query,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.Target,
		goal.Current,
		goal.Reward,
		goal.Status,
		goal.AssignedByRole,
		goal.Progress,
		goal.StartDate,
		goal.EndDate,
		goal.CompletedDate,
		goal.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
