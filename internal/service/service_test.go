package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/templui/carepledge/internal/markdown"
	"github.com/templui/carepledge/internal/model"
	"github.com/templui/carepledge/internal/repository"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type sentEmail struct {
	to, subject, body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentEmail{to, subject, body})
	return nil
}

func (n *fakeNotifier) Sent() []sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEmail(nil), n.sent...)
}

type testEnv struct {
	ctx      context.Context
	repos    *repository.Repositories
	clock    *fakeClock
	notifier *fakeNotifier
	goals    *GoalService
	pledges  *PledgeService
	insights *InsightsService
}

const sarahID = "pt-001"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	repos := repository.NewMemory()
	clock := newFakeClock()
	notifier := &fakeNotifier{}

	require.NoError(t, repos.Patients.Create(ctx, &model.Patient{
		ID: sarahID, PatientID: "#83921", Name: "Sarah Johnson", Email: "sarah@example.com",
		Status: "stable", ProviderID: "dr-chen", Adherence: 88,
	}))
	require.NoError(t, repos.Patients.Create(ctx, &model.Patient{
		ID: "pt-002", PatientID: "#55102", Name: "Mike Peters", ProviderID: "dr-chen", Adherence: 72,
	}))

	goals := NewGoalService(repos.Goals, repos.Ledger)
	goals.now = clock.Now

	pledges := NewPledgeService(repos.Pledges, repos.Patients, repos.Ledger, notifier, "http://localhost:8090", "CarePledge")
	pledges.now = clock.Now
	t.Cleanup(pledges.WaitNotifications)

	insights := NewInsightsService(repos, markdown.NewParser(), true)
	insights.now = clock.Now

	return &testEnv{
		ctx:      ctx,
		repos:    repos,
		clock:    clock,
		notifier: notifier,
		goals:    goals,
		pledges:  pledges,
		insights: insights,
	}
}

func (e *testEnv) createPledge(t *testing.T, patientID string) *model.Pledge {
	t.Helper()

	p, err := e.pledges.CreatePledge(e.ctx, PledgeInput{
		PatientID:     patientID,
		Amount:        500,
		Goal:          "BP Stabilization",
		Duration:      "7",
		ProviderID:    "dr-chen",
		ProviderName:  "Dr. Chen",
		ProviderEmail: "chen@example.com",
	})
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	return p
}

var errSMTP = errors.New("smtp down")
