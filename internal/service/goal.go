package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/templui/carepledge/internal/model"
	"github.com/templui/carepledge/internal/repository"
)

const DefaultHistoryLimit = 50

type GoalInput struct {
	PatientID      string     `json:"patientId"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Target         string     `json:"target"`
	Current        string     `json:"current"`
	Reward         int        `json:"reward"`
	Status         string     `json:"status"`
	AssignedByRole string     `json:"assignedByRole"`
	AssignedBy     string     `json:"assignedBy"`
	Progress       float64    `json:"progress"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
}

// GoalService re-reads a goal under its lock before every write, so the
// sweeper and callers never overwrite each other's transitions.
type GoalService struct {
	repo   repository.GoalRepository
	ledger repository.LedgerRepository
	locks  *keyedLocks
	now    func() time.Time
}

func NewGoalService(repo repository.GoalRepository, ledger repository.LedgerRepository) *GoalService {
	return &GoalService{
		repo:   repo,
		ledger: ledger,
		locks:  newKeyedLocks(),
		now:    time.Now,
	}
}

func (s *GoalService) Create(ctx context.Context, in GoalInput) (*model.Goal, error) {
	now := s.now()

	goal := &model.Goal{
		ID:             newID("goal", now),
		PatientID:      in.PatientID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		Target:         in.Target,
		Current:        in.Current,
		Reward:         in.Reward,
		Status:         in.Status,
		AssignedByRole: in.AssignedByRole,
		AssignedBy:     in.AssignedBy,
		Progress:       in.Progress,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		CreatedAt:      now,
	}
	if goal.Status == "" {
		goal.Status = model.GoalStatusActive
	}
	if goal.AssignedByRole == "" {
		goal.AssignedByRole = model.AssignedBySelf
	}
	if goal.StartDate == nil {
		goal.StartDate = &now
	}
	if goal.Status == model.GoalStatusCompleted {
		goal.Complete(now)
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	if goal.Status == model.GoalStatusCompleted {
		s.mintReward(ctx, goal)
	}

	return goal, nil
}

// List returns goals newest first, optionally restricted to one status.
func (s *GoalService) List(ctx context.Context, status string) ([]*model.Goal, error) {
	goals, err := s.repo.Goals(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*model.Goal, 0, len(goals))
	for _, g := range goals {
		if status == "" || g.Status == status {
			filtered = append(filtered, g)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RecencyKey().After(filtered[j].RecencyKey())
	})

	return filtered, nil
}

// History pages through completed and expired goals, most recently
// finished first. A non-positive limit means DefaultHistoryLimit.
func (s *GoalService) History(ctx context.Context, limit, offset int) ([]*model.Goal, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	goals, err := s.repo.Goals(ctx)
	if err != nil {
		return nil, err
	}

	finished := make([]*model.Goal, 0, len(goals))
	for _, g := range goals {
		if g.IsFinished() {
			finished = append(finished, g)
		}
	}

	sort.SliceStable(finished, func(i, j int) bool {
		return finished[i].HistoryKey().After(finished[j].HistoryKey())
	})

	if offset >= len(finished) {
		return []*model.Goal{}, nil
	}
	end := min(offset+limit, len(finished))

	return finished[offset:end], nil
}

func (s *GoalService) PendingRewards(ctx context.Context) ([]model.PendingReward, error) {
	goals, err := s.repo.Goals(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rewards := []model.PendingReward{}
	for _, g := range goals {
		if !g.IsActive() {
			continue
		}

		reward := model.PendingReward{
			GoalID:          g.ID,
			GoalTitle:       g.Title,
			Reward:          g.Reward,
			Status:          model.RewardStatusLocked,
			UnlockCondition: fmt.Sprintf("Complete %s to unlock %d RDM", g.Title, g.Reward),
			ExpiresAt:       g.EndDate,
		}
		if g.EndDate != nil {
			reward.DaysRemaining = daysUntil(now, *g.EndDate)
		}
		rewards = append(rewards, reward)
	}

	return rewards, nil
}

// daysUntil rounds up, so anything left of a day still counts as one.
func daysUntil(now, end time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

// Update merges patch into the stored goal. A status patch to completed
// completes the goal the same way Complete does; leaving completed fails
// with model.ErrInvalidGoalTransition. Unknown ids return
// repository.ErrGoalNotFound.
func (s *GoalService) Update(ctx context.Context, id string, patch model.GoalPatch) (*model.Goal, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	goal, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := goal.Status == model.GoalStatusCompleted
	completing := patch.Status != nil && *patch.Status == model.GoalStatusCompleted && !goal.IsFullyCompleted()
	if completing {
		patch.Status = nil
	}

	if err := goal.Apply(patch); err != nil {
		return nil, err
	}
	if completing {
		goal.Complete(s.now())
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}

	if completing && !wasCompleted {
		s.mintReward(ctx, goal)
	}

	return goal, nil
}

// Complete marks the goal completed and mints its reward to the owner on
// the first transition. A fully completed goal is left as is; a row that
// only carries the completed status gets its progress and date filled in.
func (s *GoalService) Complete(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	goal, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}

	if goal.IsFullyCompleted() {
		return nil
	}

	wasCompleted := goal.Status == model.GoalStatusCompleted
	goal.Complete(s.now())

	if err := s.repo.Update(ctx, goal); err != nil {
		return err
	}

	if !wasCompleted {
		s.mintReward(ctx, goal)
	}

	return nil
}

func (s *GoalService) mintReward(ctx context.Context, goal *model.Goal) {
	if goal.Reward <= 0 || goal.PatientID == "" {
		return
	}

	entry := &model.LedgerEntry{
		Kind:      model.LedgerMint,
		Amount:    goal.Reward,
		StaffID:   goal.AssignedBy,
		PatientID: goal.PatientID,
		Reason:    "goal:" + goal.ID,
	}
	if err := s.ledger.Record(ctx, entry); err != nil {
		slog.Error("failed to mint goal reward", "error", err, "goal_id", goal.ID, "amount", goal.Reward)
	}
}

// ExpireOverdue moves active goals past their end date to expired.
func (s *GoalService) ExpireOverdue(ctx context.Context) (int, error) {
	goals, err := s.repo.Goals(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	expired := 0
	for _, g := range goals {
		if !g.IsOverdue(now) {
			continue
		}

		ok, err := s.expire(ctx, g.ID, now)
		if err != nil {
			return expired, fmt.Errorf("failed to expire goal %s: %w", g.ID, err)
		}
		if ok {
			expired++
		}
	}

	if expired > 0 {
		slog.Info("expired overdue goals", "count", expired)
	}

	return expired, nil
}

// expire re-checks the goal under its lock; the listing may be stale.
func (s *GoalService) expire(ctx context.Context, id string, now time.Time) (bool, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	goal, err := s.repo.ByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !goal.IsOverdue(now) {
		return false, nil
	}

	goal.Status = model.GoalStatusExpired
	if err := s.repo.Update(ctx, goal); err != nil {
		return false, err
	}

	return true, nil
}
