// Package seed loads the bundled demo dataset into a set of repositories.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/templui/carepledge/internal/model"
	"github.com/templui/carepledge/internal/repository"
)

//go:embed demo.yaml
var demoYAML []byte

var ErrAlreadySeeded = errors.New("store already has patients")

// offsets place a row relative to load time.
type offsets struct {
	Ago time.Duration `yaml:"ago"`
	In  time.Duration `yaml:"in"`
}

func (o offsets) at(now time.Time) time.Time {
	return now.Add(o.In - o.Ago)
}

type staffRow struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Role    string `yaml:"role"`
	AdminID string `yaml:"admin_id"`
}

type patientRow struct {
	ID         string  `yaml:"id"`
	PatientID  string  `yaml:"patient_id"`
	Name       string  `yaml:"name"`
	Email      string  `yaml:"email"`
	Phone      string  `yaml:"phone"`
	Status     string  `yaml:"status"`
	Condition  string  `yaml:"condition"`
	ProviderID string  `yaml:"provider_id"`
	Adherence  float64 `yaml:"adherence"`
}

type alertRow struct {
	offsets    `yaml:",inline"`
	ID         string `yaml:"id"`
	PatientID  string `yaml:"patient_id"`
	ProviderID string `yaml:"provider_id"`
	Severity   string `yaml:"severity"`
	Message    string `yaml:"message"`
	Resolved   bool   `yaml:"resolved"`
}

type tipRow struct {
	offsets    `yaml:",inline"`
	ID         string `yaml:"id"`
	ProviderID string `yaml:"provider_id"`
	PatientID  string `yaml:"patient_id"`
	Title      string `yaml:"title"`
	Body       string `yaml:"body"`
}

type appointmentRow struct {
	offsets     `yaml:",inline"`
	ID          string `yaml:"id"`
	ProviderID  string `yaml:"provider_id"`
	PatientID   string `yaml:"patient_id"`
	PatientName string `yaml:"patient_name"`
	Type        string `yaml:"type"`
	Status      string `yaml:"status"`
}

type ratingRow struct {
	offsets   `yaml:",inline"`
	ID        string  `yaml:"id"`
	StaffID   string  `yaml:"staff_id"`
	PatientID string  `yaml:"patient_id"`
	Score     float64 `yaml:"score"`
}

type ledgerRow struct {
	offsets   `yaml:",inline"`
	Kind      string `yaml:"kind"`
	Amount    int    `yaml:"amount"`
	StaffID   string `yaml:"staff_id"`
	PatientID string `yaml:"patient_id"`
	Reason    string `yaml:"reason"`
}

type goalRow struct {
	offsets        `yaml:",inline"`
	ID             string        `yaml:"id"`
	PatientID      string        `yaml:"patient_id"`
	Title          string        `yaml:"title"`
	Description    string        `yaml:"description"`
	Category       string        `yaml:"category"`
	Target         string        `yaml:"target"`
	Current        string        `yaml:"current"`
	Reward         int           `yaml:"reward"`
	Status         string        `yaml:"status"`
	AssignedByRole string        `yaml:"assigned_by_role"`
	AssignedBy     string        `yaml:"assigned_by"`
	Progress       float64       `yaml:"progress"`
	EndsIn         time.Duration `yaml:"ends_in"`
}

// Dataset is the decoded fixture.
type Dataset struct {
	Staff        []staffRow       `yaml:"staff"`
	Patients     []patientRow     `yaml:"patients"`
	Alerts       []alertRow       `yaml:"alerts"`
	Tips         []tipRow         `yaml:"tips"`
	Appointments []appointmentRow `yaml:"appointments"`
	Ratings      []ratingRow      `yaml:"ratings"`
	Ledger       []ledgerRow      `yaml:"ledger"`
	Goals        []goalRow        `yaml:"goals"`
}

// Demo decodes the embedded demo dataset.
func Demo() (*Dataset, error) {
	return Parse(demoYAML)
}

func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &ds, nil
}

// Load writes ds into repos with timestamps relative to now. A store that
// already holds patients is left alone and ErrAlreadySeeded is returned.
func Load(ctx context.Context, repos *repository.Repositories, ds *Dataset, now time.Time) error {
	existing, err := repos.Patients.Patients(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing patients: %w", err)
	}
	if len(existing) > 0 {
		return ErrAlreadySeeded
	}

	for _, row := range ds.Staff {
		staff := &model.Staff{ID: row.ID, Name: row.Name, Email: row.Email, Role: row.Role, AdminID: row.AdminID}
		if err := repos.Staff.Create(ctx, staff); err != nil {
			return fmt.Errorf("failed to seed staff %s: %w", row.ID, err)
		}
	}

	for _, row := range ds.Patients {
		patient := &model.Patient{
			ID:         row.ID,
			PatientID:  row.PatientID,
			Name:       row.Name,
			Email:      row.Email,
			Phone:      row.Phone,
			Status:     row.Status,
			Condition:  row.Condition,
			ProviderID: row.ProviderID,
			Adherence:  row.Adherence,
			CreatedAt:  now,
		}
		if err := repos.Patients.Create(ctx, patient); err != nil {
			return fmt.Errorf("failed to seed patient %s: %w", row.ID, err)
		}
	}

	for _, row := range ds.Alerts {
		alert := &model.Alert{
			ID:         row.ID,
			PatientID:  row.PatientID,
			ProviderID: row.ProviderID,
			Severity:   row.Severity,
			Message:    row.Message,
			Resolved:   row.Resolved,
			CreatedAt:  row.at(now),
		}
		if err := repos.Alerts.Create(ctx, alert); err != nil {
			return fmt.Errorf("failed to seed alert %s: %w", row.ID, err)
		}
	}

	for _, row := range ds.Tips {
		tip := &model.Tip{
			ID:         row.ID,
			ProviderID: row.ProviderID,
			PatientID:  row.PatientID,
			Title:      row.Title,
			Body:       row.Body,
			CreatedAt:  row.at(now),
		}
		if err := repos.Tips.Create(ctx, tip); err != nil {
			return fmt.Errorf("failed to seed tip %s: %w", row.ID, err)
		}
	}

	for _, row := range ds.Appointments {
		appointment := &model.Appointment{
			ID:          row.ID,
			ProviderID:  row.ProviderID,
			PatientID:   row.PatientID,
			PatientName: row.PatientName,
			Type:        row.Type,
			ScheduledAt: row.at(now),
			Status:      row.Status,
		}
		if err := repos.Appointments.Create(ctx, appointment); err != nil {
			return fmt.Errorf("failed to seed appointment %s: %w", row.ID, err)
		}
	}

	for _, row := range ds.Ratings {
		rating := &model.Rating{
			ID:        row.ID,
			StaffID:   row.StaffID,
			PatientID: row.PatientID,
			Score:     row.Score,
			CreatedAt: row.at(now),
		}
		if err := repos.Ratings.Create(ctx, rating); err != nil {
			return fmt.Errorf("failed to seed rating %s: %w", row.ID, err)
		}
	}

	for _, row := range ds.Ledger {
		entry := &model.LedgerEntry{
			Kind:      row.Kind,
			Amount:    row.Amount,
			StaffID:   row.StaffID,
			PatientID: row.PatientID,
			Reason:    row.Reason,
			CreatedAt: row.at(now),
		}
		if err := repos.Ledger.Record(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed ledger entry: %w", err)
		}
	}

	for _, row := range ds.Goals {
		start := row.at(now)
		goal := &model.Goal{
			ID:             row.ID,
			PatientID:      row.PatientID,
			Title:          row.Title,
			Description:    row.Description,
			Category:       row.Category,
			Target:         row.Target,
			Current:        row.Current,
			Reward:         row.Reward,
			Status:         row.Status,
			AssignedByRole: row.AssignedByRole,
			AssignedBy:     row.AssignedBy,
			Progress:       row.Progress,
			StartDate:      &start,
			CreatedAt:      start,
		}
		if row.EndsIn > 0 {
			end := now.Add(row.EndsIn)
			goal.EndDate = &end
		}
		if err := repos.Goals.Create(ctx, goal); err != nil {
			return fmt.Errorf("failed to seed goal %s: %w", row.ID, err)
		}
	}

	slog.Info("demo data seeded",
		"patients", len(ds.Patients),
		"staff", len(ds.Staff),
		"goals", len(ds.Goals),
		"ledger_entries", len(ds.Ledger),
	)

	return nil
}
