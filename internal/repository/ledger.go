package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/carepledge/internal/model"
)

// LedgerRepository is append-only.
type LedgerRepository interface {
	Record(ctx context.Context, entry *model.LedgerEntry) error
	Entries(ctx context.Context) ([]model.LedgerEntry, error)
}

type ledgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func prepareEntry(entry *model.LedgerEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
}

func (r *ledgerRepository) Record(ctx context.Context, entry *model.LedgerEntry) error {
	prepareEntry(entry)

	query := `INSERT INTO ledger_entries (id, kind, amount, staff_id, patient_id, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Kind,
		entry.Amount,
		entry.StaffID,
		entry.PatientID,
		entry.Reason,
		entry.CreatedAt,
	)
	return err
}

func (r *ledgerRepository) Entries(ctx context.Context) ([]model.LedgerEntry, error) {
	return selectAll[model.LedgerEntry](ctx, r.db, `SELECT * FROM ledger_entries ORDER BY created_at ASC, id ASC`)
}
