package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/templui/carepledge/internal/model"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrDuplicatePatient = errors.New("patient already exists")
)

// PatientRepository has no ByID: callers hold references in any of several
// textual forms and resolve them with package patientid over Patients.
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Patients(ctx context.Context) ([]model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
}

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, p *model.Patient) error {
	query := `INSERT INTO patients (id, patient_id, name, email, phone, status, condition, provider_id, adherence, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.PatientID, p.Name, p.Email, p.Phone, p.Status, p.Condition, p.ProviderID, p.Adherence, p.CreatedAt)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicatePatient
		}
		return err
	}

	return nil
}

func (r *patientRepository) Patients(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	query := `SELECT * FROM patients ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &patients, query)
	if err != nil {
		return nil, err
	}

	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, p *model.Patient) error {
	query := `UPDATE patients
	          SET patient_id = $1, name = $2, email = $3, phone = $4, status = $5, condition = $6,
	              provider_id = $7, adherence = $8
	          WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		p.PatientID, p.Name, p.Email, p.Phone, p.Status, p.Condition, p.ProviderID, p.Adherence, p.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPatientNotFound
	}

	return nil
}
