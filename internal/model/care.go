package model

import "time"

const (
	AlertSeverityCritical = "critical"
	AlertSeverityWarning  = "warning"
	AlertSeverityInfo     = "info"
)

type Alert struct {
	ID         string    `db:"id" json:"id"`
	PatientID  string    `db:"patient_id" json:"patientId"`
	ProviderID string    `db:"provider_id" json:"providerId"`
	Severity   string    `db:"severity" json:"severity"`
	Message    string    `db:"message" json:"message"`
	Resolved   bool      `db:"resolved" json:"resolved"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

func (a *Alert) IsOpenCritical() bool {
	return a.Severity == AlertSeverityCritical && !a.Resolved
}

// Tip is a provider note to a patient; Body is markdown.
type Tip struct {
	ID         string    `db:"id" json:"id"`
	ProviderID string    `db:"provider_id" json:"providerId"`
	PatientID  string    `db:"patient_id" json:"patientId"`
	Title      string    `db:"title" json:"title"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentLate      = "late"
	AppointmentMissed    = "missed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID          string    `db:"id" json:"id"`
	ProviderID  string    `db:"provider_id" json:"providerId"`
	PatientID   string    `db:"patient_id" json:"patientId"`
	PatientName string    `db:"patient_name" json:"patientName"`
	Type        string    `db:"type" json:"type"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduledAt"`
	Status      string    `db:"status" json:"status"`
}

// Rating is a 1..5 patient satisfaction score for a staff member.
type Rating struct {
	ID        string    `db:"id" json:"id"`
	StaffID   string    `db:"staff_id" json:"staffId"`
	PatientID string    `db:"patient_id" json:"patientId"`
	Score     float64   `db:"score" json:"score"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
