package model

import (
	"errors"
	"fmt"
	"time"
)

const (
	PledgeStatusPending   = "pending"
	PledgeStatusActive    = "active"
	PledgeStatusReplaced  = "replaced"
	PledgeStatusCompleted = "completed"
	PledgeStatusAtRisk    = "at-risk"
)

const DefaultPledgeDays = 7

var ErrInvalidPledgeTransition = errors.New("invalid pledge status transition")

// Pledge is a provider-issued conditional token reward for one patient.
// PatientID holds the canonical patient id for rows written by this
// service; older rows may carry "#id" or the patient's display id.
type Pledge struct {
	ID            string     `db:"id" json:"id"`
	PatientID     string     `db:"patient_id" json:"patientId"`
	PatientName   string     `db:"patient_name" json:"patientName"`
	PatientEmail  string     `db:"patient_email" json:"patientEmail"`
	Goal          string     `db:"goal" json:"goal"`
	Amount        int        `db:"amount" json:"amount"`
	Message       string     `db:"message" json:"message"`
	MetricType    string     `db:"metric_type" json:"metricType"`
	Target        string     `db:"target" json:"target"`
	Duration      string     `db:"duration" json:"duration"`
	Status        string     `db:"status" json:"status"`
	Accepted      bool       `db:"accepted" json:"accepted"`
	AcceptedAt    *time.Time `db:"accepted_at" json:"acceptedAt,omitempty"`
	StartDate     *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate       *time.Time `db:"end_date" json:"endDate,omitempty"`
	ReplacedAt    *time.Time `db:"replaced_at" json:"replacedAt,omitempty"`
	CompletedAt   *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	Progress      int        `db:"progress" json:"progress"`
	TotalDays     int        `db:"total_days" json:"totalDays"`
	ProviderID    string     `db:"provider_id" json:"providerId"`
	ProviderName  string     `db:"provider_name" json:"providerName"`
	ProviderEmail string     `db:"provider_email" json:"providerEmail"`
	Timestamp     time.Time  `db:"created_at" json:"timestamp"`
}

func (p *Pledge) transitionError(to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidPledgeTransition, p.Status, to)
}

// IsLive reports an accepted pledge the patient is currently working on.
func (p *Pledge) IsLive() bool {
	return p.Accepted && (p.Status == PledgeStatusActive || p.Status == PledgeStatusAtRisk)
}

// IsActiveAccepted is the state limited to one pledge per patient.
func (p *Pledge) IsActiveAccepted() bool {
	return p.Status == PledgeStatusActive && p.Accepted
}

// IsUnacceptedActive matches legacy rows that went active without an accept.
func (p *Pledge) IsUnacceptedActive() bool {
	return p.Status == PledgeStatusActive && !p.Accepted
}

// IsVisibleToPatient is what a patient can see and act on.
func (p *Pledge) IsVisibleToPatient() bool {
	return p.Status == PledgeStatusPending || p.IsActiveAccepted()
}

func (p *Pledge) IsTerminal() bool {
	return p.Status == PledgeStatusReplaced || p.Status == PledgeStatusCompleted
}

// Accept starts the pledge window. It returns false when the pledge was
// already accepted, leaving every field untouched.
func (p *Pledge) Accept(now time.Time) (bool, error) {
	if p.Accepted {
		return false, nil
	}
	if p.Status != PledgeStatusPending && p.Status != PledgeStatusActive {
		return false, p.transitionError(PledgeStatusActive)
	}
	days := p.TotalDays
	if days <= 0 {
		days = DefaultPledgeDays
		p.TotalDays = days
	}
	end := now.AddDate(0, 0, days)
	p.Accepted = true
	p.AcceptedAt = &now
	p.Status = PledgeStatusActive
	p.StartDate = &now
	p.EndDate = &end
	return true, nil
}

func (p *Pledge) Replace(now time.Time) error {
	if p.IsTerminal() {
		return p.transitionError(PledgeStatusReplaced)
	}
	p.Status = PledgeStatusReplaced
	p.ReplacedAt = &now
	return nil
}

// RecordProgress stores progress clamped to 0..100 and completes the pledge
// at 100. It returns true when this call completed it.
func (p *Pledge) RecordProgress(progress int, now time.Time) (bool, error) {
	if !p.IsLive() {
		return false, p.transitionError("progress")
	}
	p.Progress = min(max(progress, 0), 100)
	if p.Progress < 100 {
		return false, nil
	}
	p.Status = PledgeStatusCompleted
	p.CompletedAt = &now
	return true, nil
}

func (p *Pledge) MarkAtRisk() error {
	if !p.IsActiveAccepted() {
		return p.transitionError(PledgeStatusAtRisk)
	}
	p.Status = PledgeStatusAtRisk
	return nil
}

// IsOverdue reports a live pledge whose window closed short of the target.
func (p *Pledge) IsOverdue(now time.Time) bool {
	return p.IsActiveAccepted() && p.EndDate != nil && now.After(*p.EndDate) && p.Progress < 100
}
