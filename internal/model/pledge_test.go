package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPledgeAccept_SetsWindowOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := &Pledge{Status: PledgeStatusPending, TotalDays: 7}

	changed, err := p.Accept(now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, PledgeStatusActive, p.Status)
	assert.True(t, p.Accepted)
	require.NotNil(t, p.EndDate)
	assert.Equal(t, now.AddDate(0, 0, 7), *p.EndDate)

	changed, err = p.Accept(now.Add(48 * time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, now.AddDate(0, 0, 7), *p.EndDate)
}

func TestPledgeAccept_RejectsTerminalStates(t *testing.T) {
	for _, status := range []string{PledgeStatusReplaced, PledgeStatusCompleted} {
		p := &Pledge{Status: status}
		_, err := p.Accept(time.Now())
		assert.ErrorIs(t, err, ErrInvalidPledgeTransition, status)
	}
}

func TestPledgeAccept_DefaultsMissingDuration(t *testing.T) {
	now := time.Now()
	p := &Pledge{Status: PledgeStatusPending}

	_, err := p.Accept(now)
	require.NoError(t, err)
	assert.Equal(t, DefaultPledgeDays, p.TotalDays)
	assert.Equal(t, now.AddDate(0, 0, DefaultPledgeDays), *p.EndDate)
}

func TestPledgeRecordProgress(t *testing.T) {
	now := time.Now()
	p := &Pledge{Status: PledgeStatusPending, TotalDays: 5}

	_, err := p.RecordProgress(50, now)
	assert.ErrorIs(t, err, ErrInvalidPledgeTransition)

	_, err = p.Accept(now)
	require.NoError(t, err)

	done, err := p.RecordProgress(-10, now)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 0, p.Progress)

	done, err = p.RecordProgress(140, now)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 100, p.Progress)
	assert.Equal(t, PledgeStatusCompleted, p.Status)
	assert.NotNil(t, p.CompletedAt)

	assert.ErrorIs(t, p.Replace(now), ErrInvalidPledgeTransition)
}

func TestPledgeMarkAtRisk(t *testing.T) {
	now := time.Now()
	p := &Pledge{Status: PledgeStatusPending, TotalDays: 1}
	assert.ErrorIs(t, p.MarkAtRisk(), ErrInvalidPledgeTransition)

	_, err := p.Accept(now)
	require.NoError(t, err)
	assert.True(t, p.IsOverdue(now.Add(49*time.Hour)))
	require.NoError(t, p.MarkAtRisk())
	assert.Equal(t, PledgeStatusAtRisk, p.Status)
	assert.True(t, p.IsLive())
	assert.False(t, p.IsVisibleToPatient())
}

func TestGoalComplete_IsTerminalRegardlessOfProgress(t *testing.T) {
	now := time.Now()
	g := &Goal{Status: GoalStatusActive, Progress: 12.5}
	g.Complete(now)
	assert.Equal(t, GoalStatusCompleted, g.Status)
	assert.Equal(t, float64(100), g.Progress)
	require.NotNil(t, g.CompletedDate)
	assert.True(t, g.IsFinished())
}

func TestGoalApply_IsShallow(t *testing.T) {
	current := "10000 steps"
	g := &Goal{Title: "Steps", Current: "5000 steps", Target: "10000 steps"}
	require.NoError(t, g.Apply(GoalPatch{Current: &current}))
	assert.Equal(t, "Steps", g.Title)
	assert.Equal(t, "10000 steps", g.Current)
}

func TestGoalApply_CompletedIsTerminal(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	g := &Goal{Title: "Steps", Progress: 40}
	g.Complete(now)
	require.True(t, g.IsFullyCompleted())

	active := GoalStatusActive
	assert.ErrorIs(t, g.Apply(GoalPatch{Status: &active}), ErrInvalidGoalTransition)

	half := 50.0
	assert.ErrorIs(t, g.Apply(GoalPatch{Progress: &half}), ErrInvalidGoalTransition)
	assert.Equal(t, GoalStatusCompleted, g.Status)
	assert.Equal(t, float64(100), g.Progress)

	title := "Daily Steps"
	completed := GoalStatusCompleted
	require.NoError(t, g.Apply(GoalPatch{Title: &title, Status: &completed}))
	assert.Equal(t, "Daily Steps", g.Title)
	require.NotNil(t, g.CompletedDate)
	assert.True(t, now.Equal(*g.CompletedDate))
}

func TestGoal_IsFullyCompleted(t *testing.T) {
	g := &Goal{Status: GoalStatusCompleted, Progress: 40}
	assert.False(t, g.IsFullyCompleted(), "status alone is not a completion")
}
