package model

import "time"

// Patient carries two identifiers: ID is canonical, PatientID is the
// display form ("#83921") that callers often send back instead.
type Patient struct {
	ID         string    `db:"id" json:"id"`
	PatientID  string    `db:"patient_id" json:"patientId"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone"`
	Status     string    `db:"status" json:"status"`
	Condition  string    `db:"condition" json:"condition"`
	ProviderID string    `db:"provider_id" json:"providerId"`
	Adherence  float64   `db:"adherence" json:"adherence"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

const (
	StaffRoleDoctor = "doctor"
	StaffRoleNurse  = "nurse"
	StaffRoleAdmin  = "admin"
)

type Staff struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	Role    string `db:"role" json:"role"`
	AdminID string `db:"admin_id" json:"adminId"`
}

func (s *Staff) IsAdmin() bool {
	return s.Role == StaffRoleAdmin
}
