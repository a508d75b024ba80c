package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/templui/carepledge/internal/model"
	"github.com/templui/carepledge/internal/patientid"
	"github.com/templui/carepledge/internal/repository"
)

var (
	ErrInvalidDuration = errors.New("duration must be a whole number of days of at least 1")
)

const notificationTimeout = 10 * time.Second

type PledgeInput struct {
	PatientID     string `json:"patientId"`
	Amount        int    `json:"amount"`
	Goal          string `json:"goal"`
	Message       string `json:"message"`
	MetricType    string `json:"metricType"`
	Target        string `json:"target"`
	Duration      string `json:"duration"`
	ProviderID    string `json:"providerId"`
	ProviderName  string `json:"providerName"`
	ProviderEmail string `json:"providerEmail"`
}

// ParseDuration reads a pledge duration in days. Empty means
// model.DefaultPledgeDays.
func ParseDuration(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.DefaultPledgeDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}
	return days, nil
}

type PledgeService struct {
	pledges  repository.PledgeRepository
	patients repository.PatientRepository
	ledger   repository.LedgerRepository
	notifier NotificationSender
	locks    *keyedLocks
	appURL   string
	appName  string
	now      func() time.Time

	// notifications tracks in-flight sends so shutdown can drain them.
	notifications sync.WaitGroup
}

func NewPledgeService(
	pledges repository.PledgeRepository,
	patients repository.PatientRepository,
	ledger repository.LedgerRepository,
	notifier NotificationSender,
	appURL, appName string,
) *PledgeService {
	return &PledgeService{
		pledges:  pledges,
		patients: patients,
		ledger:   ledger,
		notifier: notifier,
		locks:    newKeyedLocks(),
		appURL:   appURL,
		appName:  appName,
		now:      time.Now,
	}
}

func (s *PledgeService) resolvePatient(ctx context.Context, raw string) (model.Patient, error) {
	patients, err := s.patients.Patients(ctx)
	if err != nil {
		return model.Patient{}, err
	}

	patient, ok := patientid.Find(patients, raw)
	if !ok {
		return model.Patient{}, fmt.Errorf("%w: %s", repository.ErrPatientNotFound, raw)
	}

	return patient, nil
}

// pledgeOwner resolves the patient a stored pledge belongs to. Pledges whose
// patient record is gone still get a stable owner keyed by their own
// normalized reference.
func (s *PledgeService) pledgeOwner(ctx context.Context, pledge *model.Pledge) (model.Patient, error) {
	patient, err := s.resolvePatient(ctx, pledge.PatientID)
	if errors.Is(err, repository.ErrPatientNotFound) {
		return model.Patient{ID: patientid.Normalize(pledge.PatientID)}, nil
	}
	return patient, err
}

func (s *PledgeService) ownedPledges(ctx context.Context, patient model.Patient) ([]*model.Pledge, error) {
	pledges, err := s.pledges.Pledges(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]*model.Pledge, 0)
	for _, p := range pledges {
		if patientid.Owns(p.PatientID, patient) {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

// CreatePledge issues a pending pledge. Unaccepted active pledges of the
// same patient are replaced first.
func (s *PledgeService) CreatePledge(ctx context.Context, in PledgeInput) (*model.Pledge, error) {
	days, err := ParseDuration(in.Duration)
	if err != nil {
		return nil, err
	}

	patient, err := s.resolvePatient(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(patient.ID)
	defer unlock()

	now := s.now()

	existing, err := s.ownedPledges(ctx, patient)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if !p.IsUnacceptedActive() {
			continue
		}
		if err := p.Replace(now); err != nil {
			return nil, err
		}
		if err := s.pledges.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to replace pledge %s: %w", p.ID, err)
		}
		slog.Info("replaced unaccepted pledge", "pledge_id", p.ID, "patient_id", patient.ID)
	}

	pledge := &model.Pledge{
		ID:            newID("pledge", now),
		PatientID:     patient.ID,
		PatientName:   patient.Name,
		PatientEmail:  patient.Email,
		Goal:          in.Goal,
		Amount:        in.Amount,
		Message:       in.Message,
		MetricType:    in.MetricType,
		Target:        in.Target,
		Duration:      strconv.Itoa(days),
		Status:        model.PledgeStatusPending,
		TotalDays:     days,
		ProviderID:    in.ProviderID,
		ProviderName:  in.ProviderName,
		ProviderEmail: in.ProviderEmail,
		Timestamp:     now,
	}

	if err := s.pledges.Create(ctx, pledge); err != nil {
		return nil, fmt.Errorf("failed to create pledge: %w", err)
	}

	slog.Info("pledge created", "pledge_id", pledge.ID, "patient_id", patient.ID, "amount", pledge.Amount)

	s.notifyPledgeCreated(ctx, pledge)

	return pledge, nil
}

// notifyPledgeCreated sends both emails in the background. Failures are
// logged and never reach the caller.
func (s *PledgeService) notifyPledgeCreated(ctx context.Context, pledge *model.Pledge) {
	if s.notifier == nil {
		return
	}

	p := *pledge
	ctx = context.WithoutCancel(ctx)

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
		defer cancel()

		if p.PatientEmail != "" {
			subject, body := pledgeReceivedTemplate(p.PatientName, providerLabel(p), p.Goal, p.Amount, p.TotalDays, s.appURL, s.appName)
			if err := s.notifier.Send(ctx, p.PatientEmail, subject, body); err != nil {
				slog.Warn("failed to notify patient of pledge", "error", err, "pledge_id", p.ID)
			}
		}

		if p.ProviderEmail != "" {
			subject, body := pledgeIssuedTemplate(providerLabel(p), p.PatientName, p.Goal, p.Amount, s.appName)
			if err := s.notifier.Send(ctx, p.ProviderEmail, subject, body); err != nil {
				slog.Warn("failed to notify provider of pledge", "error", err, "pledge_id", p.ID)
			}
		}
	}()
}

func providerLabel(p model.Pledge) string {
	if p.ProviderName != "" {
		return p.ProviderName
	}
	return "Your care team"
}

// WaitNotifications blocks until background notifications have finished.
func (s *PledgeService) WaitNotifications() {
	s.notifications.Wait()
}

// AcceptPledge starts the pledge window. Accepting an accepted pledge
// returns it unchanged. Any other active accepted pledge of the patient is
// replaced so that at most one is live.
func (s *PledgeService) AcceptPledge(ctx context.Context, pledgeID string) (*model.Pledge, error) {
	pledge, err := s.pledges.ByID(ctx, pledgeID)
	if err != nil {
		return nil, err
	}
	if pledge.Accepted {
		return pledge, nil
	}

	owner, err := s.pledgeOwner(ctx, pledge)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(owner.ID)
	defer unlock()

	// Re-read under the lock; a concurrent accept may have won.
	pledge, err = s.pledges.ByID(ctx, pledgeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	changed, err := pledge.Accept(now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return pledge, nil
	}

	others, err := s.ownedPledges(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, p := range others {
		if p.ID == pledge.ID || !p.IsActiveAccepted() {
			continue
		}
		if err := p.Replace(now); err != nil {
			return nil, err
		}
		if err := s.pledges.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to replace pledge %s: %w", p.ID, err)
		}
		slog.Info("replaced active pledge", "pledge_id", p.ID, "by", pledge.ID, "patient_id", owner.ID)
	}

	if err := s.pledges.Update(ctx, pledge); err != nil {
		return nil, fmt.Errorf("failed to accept pledge: %w", err)
	}

	slog.Info("pledge accepted", "pledge_id", pledge.ID, "patient_id", owner.ID, "end_date", pledge.EndDate)

	return pledge, nil
}

// PatientPledges returns every pledge of the patient, newest first.
func (s *PledgeService) PatientPledges(ctx context.Context, patientID string) ([]*model.Pledge, error) {
	patient, err := s.resolvePatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	pledges, err := s.ownedPledges(ctx, patient)
	if err != nil {
		return nil, err
	}

	sortNewestFirst(pledges)
	return pledges, nil
}

// MyPledges returns what the patient can act on: pending offers and the
// accepted active pledge.
func (s *PledgeService) MyPledges(ctx context.Context, patientID string) ([]*model.Pledge, error) {
	all, err := s.PatientPledges(ctx, patientID)
	if err != nil {
		return nil, err
	}

	visible := make([]*model.Pledge, 0, len(all))
	for _, p := range all {
		if p.IsVisibleToPatient() {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func sortNewestFirst(pledges []*model.Pledge) {
	sort.SliceStable(pledges, func(i, j int) bool {
		return pledges[i].Timestamp.After(pledges[j].Timestamp)
	})
}

func (s *PledgeService) UpdatePatientStatus(ctx context.Context, patientID, status string) (*model.Patient, error) {
	patient, err := s.resolvePatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	patient.Status = status
	if err := s.patients.Update(ctx, &patient); err != nil {
		return nil, err
	}

	slog.Info("patient status updated", "patient_id", patient.ID, "status", status)

	return &patient, nil
}

// UpdatePledgeProgress records progress on a live pledge. Reaching 100
// completes it and mints the pledged amount to the patient.
func (s *PledgeService) UpdatePledgeProgress(ctx context.Context, pledgeID string, progress int) (*model.Pledge, error) {
	pledge, err := s.pledges.ByID(ctx, pledgeID)
	if err != nil {
		return nil, err
	}

	owner, err := s.pledgeOwner(ctx, pledge)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(owner.ID)
	defer unlock()

	pledge, err = s.pledges.ByID(ctx, pledgeID)
	if err != nil {
		return nil, err
	}

	completed, err := pledge.RecordProgress(progress, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.pledges.Update(ctx, pledge); err != nil {
		return nil, err
	}

	if completed {
		entry := &model.LedgerEntry{
			Kind:      model.LedgerMint,
			Amount:    pledge.Amount,
			StaffID:   pledge.ProviderID,
			PatientID: owner.ID,
			Reason:    "pledge:" + pledge.ID,
		}
		if err := s.ledger.Record(ctx, entry); err != nil {
			slog.Error("failed to mint pledge reward", "error", err, "pledge_id", pledge.ID, "amount", pledge.Amount)
		}
		slog.Info("pledge completed", "pledge_id", pledge.ID, "patient_id", owner.ID)
	}

	return pledge, nil
}

// FlagOverdue marks accepted pledges whose window closed short of the
// target as at-risk.
func (s *PledgeService) FlagOverdue(ctx context.Context) (int, error) {
	pledges, err := s.pledges.Pledges(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	flagged := 0
	for _, p := range pledges {
		if !p.IsOverdue(now) {
			continue
		}

		ok, err := s.flagOverdue(ctx, p.ID, now)
		if err != nil {
			return flagged, err
		}
		if ok {
			flagged++
		}
	}

	if flagged > 0 {
		slog.Info("flagged overdue pledges", "count", flagged)
	}

	return flagged, nil
}

func (s *PledgeService) flagOverdue(ctx context.Context, pledgeID string, now time.Time) (bool, error) {
	pledge, err := s.pledges.ByID(ctx, pledgeID)
	if err != nil {
		return false, err
	}

	owner, err := s.pledgeOwner(ctx, pledge)
	if err != nil {
		return false, err
	}

	unlock := s.locks.Lock(owner.ID)
	defer unlock()

	pledge, err = s.pledges.ByID(ctx, pledgeID)
	if err != nil {
		return false, err
	}
	if !pledge.IsOverdue(now) {
		return false, nil
	}

	if err := pledge.MarkAtRisk(); err != nil {
		return false, err
	}
	if err := s.pledges.Update(ctx, pledge); err != nil {
		return false, fmt.Errorf("failed to flag pledge %s: %w", pledge.ID, err)
	}

	return true, nil
}
