package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/templui/carepledge/internal/model"
)

// The care collections (staff, alerts, tips, appointments, ratings) are
// owned by other parts of the platform. This service only appends to them
// when seeding and reads them to compute dashboards.

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	Staff(ctx context.Context) ([]model.Staff, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *model.Alert) error
	Alerts(ctx context.Context) ([]model.Alert, error)
}

type TipRepository interface {
	Create(ctx context.Context, tip *model.Tip) error
	Tips(ctx context.Context) ([]model.Tip, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Appointments(ctx context.Context) ([]model.Appointment, error)
}

type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	Ratings(ctx context.Context) ([]model.Rating, error)
}

func selectAll[T any](ctx context.Context, db *sqlx.DB, query string) ([]T, error) {
	var rows []T
	err := db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type staffRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sqlx.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, s *model.Staff) error {
	query := `INSERT INTO staff (id, name, email, role, admin_id) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Email, s.Role, s.AdminID)
	return err
}

func (r *staffRepository) Staff(ctx context.Context) ([]model.Staff, error) {
	return selectAll[model.Staff](ctx, r.db, `SELECT * FROM staff ORDER BY id ASC`)
}

type alertRepository struct {
	db *sqlx.DB
}

func NewAlertRepository(db *sqlx.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, a *model.Alert) error {
	query := `INSERT INTO alerts (id, patient_id, provider_id, severity, message, resolved, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.PatientID, a.ProviderID, a.Severity, a.Message, a.Resolved, a.CreatedAt)
	return err
}

func (r *alertRepository) Alerts(ctx context.Context) ([]model.Alert, error) {
	return selectAll[model.Alert](ctx, r.db, `SELECT * FROM alerts ORDER BY created_at ASC, id ASC`)
}

type tipRepository struct {
	db *sqlx.DB
}

func NewTipRepository(db *sqlx.DB) TipRepository {
	return &tipRepository{db: db}
}

func (r *tipRepository) Create(ctx context.Context, t *model.Tip) error {
	query := `INSERT INTO tips (id, provider_id, patient_id, title, body, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.ProviderID, t.PatientID, t.Title, t.Body, t.CreatedAt)
	return err
}

func (r *tipRepository) Tips(ctx context.Context) ([]model.Tip, error) {
	return selectAll[model.Tip](ctx, r.db, `SELECT * FROM tips ORDER BY created_at ASC, id ASC`)
}

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `INSERT INTO appointments (id, provider_id, patient_id, patient_name, type, scheduled_at, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.ProviderID, a.PatientID, a.PatientName, a.Type, a.ScheduledAt, a.Status)
	return err
}

func (r *appointmentRepository) Appointments(ctx context.Context) ([]model.Appointment, error) {
	return selectAll[model.Appointment](ctx, r.db, `SELECT * FROM appointments ORDER BY scheduled_at ASC, id ASC`)
}

type ratingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rt *model.Rating) error {
	query := `INSERT INTO ratings (id, staff_id, patient_id, score, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, rt.ID, rt.StaffID, rt.PatientID, rt.Score, rt.CreatedAt)
	return err
}

func (r *ratingRepository) Ratings(ctx context.Context) ([]model.Rating, error) {
	return selectAll[model.Rating](ctx, r.db, `SELECT * FROM ratings ORDER BY created_at ASC, id ASC`)
}
