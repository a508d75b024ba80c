package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/carepledge/internal/model"
	"github.com/templui/carepledge/internal/repository"
)

func stepsInput() GoalInput {
	return GoalInput{
		Title:          "Steps",
		Category:       model.GoalCategoryActivity,
		Target:         "10000 steps",
		Current:        "5000 steps",
		Reward:         200,
		Status:         model.GoalStatusActive,
		AssignedByRole: model.AssignedBySelf,
	}
}

func TestGoal_StepsScenario(t *testing.T) {
	e := newTestEnv(t)

	goal, err := e.goals.Create(e.ctx, stepsInput())
	require.NoError(t, err)
	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, e.clock.Now(), goal.CreatedAt)
	require.NotNil(t, goal.StartDate)

	current := "10000 steps"
	updated, err := e.goals.Update(e.ctx, goal.ID, model.GoalPatch{Current: &current})
	require.NoError(t, err)
	assert.Equal(t, "10000 steps", updated.Current)
	assert.Equal(t, "10000 steps", updated.Target)
	assert.Equal(t, 200, updated.Reward)
	assert.Equal(t, model.GoalStatusActive, updated.Status)

	e.clock.Advance(time.Hour)
	require.NoError(t, e.goals.Complete(e.ctx, goal.ID))

	done, err := e.repos.Goals.ByID(e.ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusCompleted, done.Status)
	assert.Equal(t, float64(100), done.Progress)
	require.NotNil(t, done.CompletedDate)
	assert.Equal(t, e.clock.Now(), *done.CompletedDate)
	assert.Equal(t, "10000 steps", done.Current)
}

func TestGoal_CompleteFromAnyStatus(t *testing.T) {
	e := newTestEnv(t)

	for _, status := range []string{model.GoalStatusActive, model.GoalStatusPending, model.GoalStatusExpired} {
		in := stepsInput()
		in.Status = status
		goal, err := e.goals.Create(e.ctx, in)
		require.NoError(t, err)

		require.NoError(t, e.goals.Complete(e.ctx, goal.ID))

		done, err := e.repos.Goals.ByID(e.ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, model.GoalStatusCompleted, done.Status, status)
		assert.Equal(t, float64(100), done.Progress)
		assert.NotNil(t, done.CompletedDate)
	}
}

func TestGoal_CompleteMintsOwnedReward(t *testing.T) {
	e := newTestEnv(t)

	in := stepsInput()
	in.PatientID = sarahID
	in.AssignedBy = "dr-chen"
	owned, err := e.goals.Create(e.ctx, in)
	require.NoError(t, err)
	unowned, err := e.goals.Create(e.ctx, stepsInput())
	require.NoError(t, err)

	require.NoError(t, e.goals.Complete(e.ctx, owned.ID))
	require.NoError(t, e.goals.Complete(e.ctx, owned.ID))
	require.NoError(t, e.goals.Complete(e.ctx, unowned.ID))

	entries, err := e.repos.Ledger.Entries(e.ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only owned goals mint, and only once")
	assert.Equal(t, 200, entries[0].Amount)
	assert.Equal(t, "dr-chen", entries[0].StaffID)
}

func TestGoal_UnknownID(t *testing.T) {
	e := newTestEnv(t)

	title := "x"
	_, err := e.goals.Update(e.ctx, "goal-missing", model.GoalPatch{Title: &title})
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	assert.ErrorIs(t, e.goals.Complete(e.ctx, "goal-missing"), repository.ErrGoalNotFound)
}

func TestGoal_ListNewestFirst(t *testing.T) {
	e := newTestEnv(t)

	var ids []string
	for _, status := range []string{model.GoalStatusActive, model.GoalStatusPending, model.GoalStatusActive} {
		in := stepsInput()
		in.Status = status
		g, err := e.goals.Create(e.ctx, in)
		require.NoError(t, err)
		ids = append(ids, g.ID)
		e.clock.Advance(time.Minute)
	}

	all, err := e.goals.List(e.ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

	active, err := e.goals.List(e.ctx, model.GoalStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, ids[2], active[0].ID)

	none, err := e.goals.List(e.ctx, model.GoalStatusExpired)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGoal_HistoryPagination(t *testing.T) {
	e := newTestEnv(t)

	var ids []string
	for i := 0; i < 5; i++ {
		g, err := e.goals.Create(e.ctx, stepsInput())
		require.NoError(t, err)
		e.clock.Advance(time.Hour)
		require.NoError(t, e.goals.Complete(e.ctx, g.ID))
		ids = append(ids, g.ID)
	}
	_, err := e.goals.Create(e.ctx, stepsInput())
	require.NoError(t, err)

	page, err := e.goals.History(e.ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	all, err := e.goals.History(e.ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	past, err := e.goals.History(e.ctx, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestGoal_PendingRewards(t *testing.T) {
	e := newTestEnv(t)

	end := e.clock.Now().Add(5 * 24 * time.Hour)
	in := stepsInput()
	in.Title = "Hydration"
	in.Reward = 1000
	in.EndDate = &end
	g, err := e.goals.Create(e.ctx, in)
	require.NoError(t, err)

	done := stepsInput()
	done.Status = model.GoalStatusCompleted
	_, err = e.goals.Create(e.ctx, done)
	require.NoError(t, err)

	rewards, err := e.goals.PendingRewards(e.ctx)
	require.NoError(t, err)
	require.Len(t, rewards, 1)

	r := rewards[0]
	assert.Equal(t, g.ID, r.GoalID)
	assert.Equal(t, 1000, r.Reward)
	assert.Equal(t, 5, r.DaysRemaining)
	assert.Equal(t, model.RewardStatusLocked, r.Status)
	assert.Equal(t, "Complete Hydration to unlock 1000 RDM", r.UnlockCondition)
	require.NotNil(t, r.ExpiresAt)
	assert.True(t, end.Equal(*r.ExpiresAt))

	e.clock.Advance(36 * time.Hour)
	rewards, err = e.goals.PendingRewards(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, rewards[0].DaysRemaining, "partial days round up")
}

func TestGoal_ExpireOverdue(t *testing.T) {
	e := newTestEnv(t)

	end := e.clock.Now().Add(24 * time.Hour)
	in := stepsInput()
	in.EndDate = &end
	g, err := e.goals.Create(e.ctx, in)
	require.NoError(t, err)
	_, err = e.goals.Create(e.ctx, stepsInput())
	require.NoError(t, err)

	n, err := e.goals.ExpireOverdue(e.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	e.clock.Advance(25 * time.Hour)
	n, err = e.goals.ExpireOverdue(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := e.repos.Goals.ByID(e.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusExpired, got.Status)
}

func ownedSteps() GoalInput {
	in := stepsInput()
	in.PatientID = sarahID
	in.AssignedBy = "dr-chen"
	in.Progress = 40
	return in
}

func (e *testEnv) mints(t *testing.T) int {
	t.Helper()
	entries, err := e.repos.Ledger.Entries(e.ctx)
	require.NoError(t, err)
	return len(entries)
}

func TestGoal_CompleteAfterStatusPatch(t *testing.T) {
	e := newTestEnv(t)

	goal, err := e.goals.Create(e.ctx, ownedSteps())
	require.NoError(t, err)

	completed := model.GoalStatusCompleted
	patched, err := e.goals.Update(e.ctx, goal.ID, model.GoalPatch{Status: &completed})
	require.NoError(t, err)
	assert.True(t, patched.IsFullyCompleted())

	e.clock.Advance(time.Hour)
	require.NoError(t, e.goals.Complete(e.ctx, goal.ID))

	done, err := e.repos.Goals.ByID(e.ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusCompleted, done.Status)
	assert.Equal(t, float64(100), done.Progress)
	require.NotNil(t, done.CompletedDate)
	assert.Equal(t, 1, e.mints(t), "reward minted on the first transition only")
}

func TestGoal_CompleteFillsStatusOnlyRow(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.repos.Goals.Create(e.ctx, &model.Goal{
		ID: "goal-legacy", PatientID: sarahID, Title: "Water", Reward: 100,
		Status: model.GoalStatusCompleted, Progress: 40, CreatedAt: e.clock.Now(),
	}))

	require.NoError(t, e.goals.Complete(e.ctx, "goal-legacy"))

	done, err := e.repos.Goals.ByID(e.ctx, "goal-legacy")
	require.NoError(t, err)
	assert.Equal(t, float64(100), done.Progress)
	require.NotNil(t, done.CompletedDate)
	assert.Equal(t, e.clock.Now(), *done.CompletedDate)
	assert.Zero(t, e.mints(t), "already completed before, nothing to mint")
}

func TestGoal_CreateCompleted(t *testing.T) {
	e := newTestEnv(t)

	in := ownedSteps()
	in.Status = model.GoalStatusCompleted
	goal, err := e.goals.Create(e.ctx, in)
	require.NoError(t, err)
	assert.True(t, goal.IsFullyCompleted())

	require.NoError(t, e.goals.Complete(e.ctx, goal.ID))
	assert.Equal(t, 1, e.mints(t))
}

func TestGoal_UpdateCannotUncomplete(t *testing.T) {
	e := newTestEnv(t)

	goal, err := e.goals.Create(e.ctx, ownedSteps())
	require.NoError(t, err)
	require.NoError(t, e.goals.Complete(e.ctx, goal.ID))

	for _, status := range []string{model.GoalStatusActive, model.GoalStatusExpired, model.GoalStatusPending} {
		_, err := e.goals.Update(e.ctx, goal.ID, model.GoalPatch{Status: &status})
		assert.ErrorIs(t, err, model.ErrInvalidGoalTransition, status)
	}

	got, err := e.repos.Goals.ByID(e.ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFullyCompleted())
}

// listHookRepository runs afterList once, right after a listing is taken.
type listHookRepository struct {
	repository.GoalRepository
	mu        sync.Mutex
	afterList func()
}

func (r *listHookRepository) Goals(ctx context.Context) ([]*model.Goal, error) {
	goals, err := r.GoalRepository.Goals(ctx)

	r.mu.Lock()
	hook := r.afterList
	r.afterList = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}

	return goals, err
}

func TestGoal_SweepDoesNotOverwriteCompletion(t *testing.T) {
	e := newTestEnv(t)

	repo := &listHookRepository{GoalRepository: e.repos.Goals}
	goals := NewGoalService(repo, e.repos.Ledger)
	goals.now = e.clock.Now

	end := e.clock.Now().Add(time.Hour)
	in := ownedSteps()
	in.EndDate = &end
	goal, err := goals.Create(e.ctx, in)
	require.NoError(t, err)

	e.clock.Advance(2 * time.Hour)
	repo.afterList = func() {
		require.NoError(t, goals.Complete(e.ctx, goal.ID))
	}

	n, err := goals.ExpireOverdue(e.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := e.repos.Goals.ByID(e.ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedDate)
	assert.Equal(t, 1, e.mints(t))
}

func TestGoal_ConcurrentCompleteMintsOnce(t *testing.T) {
	e := newTestEnv(t)

	goal, err := e.goals.Create(e.ctx, ownedSteps())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, e.goals.Complete(e.ctx, goal.ID))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, e.mints(t))
}
