package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidGoalTransition = errors.New("invalid goal status transition")

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusExpired   = "expired"
	GoalStatusPending   = "pending"
)

const (
	GoalCategoryWeight    = "weight"
	GoalCategoryActivity  = "activity"
	GoalCategoryHydration = "hydration"
	GoalCategorySleep     = "sleep"
	GoalCategoryBP        = "bp"
	GoalCategoryOther     = "other"
)

const (
	AssignedBySelf   = "self"
	AssignedByDoctor = "doctor"
)

var GoalStatuses = []string{GoalStatusActive, GoalStatusCompleted, GoalStatusExpired, GoalStatusPending}

var GoalCategories = []string{
	GoalCategoryWeight,
	GoalCategoryActivity,
	GoalCategoryHydration,
	GoalCategorySleep,
	GoalCategoryBP,
	GoalCategoryOther,
}

// Goal is a tracked health target. Target and Current are free-form
// ("10000 steps", "120/80") and are never parsed.
type Goal struct {
	ID             string     `db:"id" json:"id"`
	PatientID      string     `db:"patient_id" json:"patientId,omitempty"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Category       string     `db:"category" json:"category"`
	Target         string     `db:"target" json:"target"`
	Current        string     `db:"current_value" json:"current"`
	Reward         int        `db:"reward" json:"reward"`
	Status         string     `db:"status" json:"status"`
	AssignedByRole string     `db:"assigned_by_role" json:"assignedByRole"`
	AssignedBy     string     `db:"assigned_by" json:"assignedBy,omitempty"`
	Progress       float64    `db:"progress" json:"progress"`
	StartDate      *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate        *time.Time `db:"end_date" json:"endDate,omitempty"`
	CompletedDate  *time.Time `db:"completed_date" json:"completedDate,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// GoalPatch carries a shallow update: every non-nil field replaces the
// stored value as a whole.
type GoalPatch struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Target         *string    `json:"target,omitempty"`
	Current        *string    `json:"current,omitempty"`
	Reward         *int       `json:"reward,omitempty"`
	Status         *string    `json:"status,omitempty"`
	AssignedByRole *string    `json:"assignedByRole,omitempty"`
	Progress       *float64   `json:"progress,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
}

// Apply merges p into g. A completed goal keeps its status and progress;
// moving it anywhere else fails with ErrInvalidGoalTransition. Callers
// handle a patch into completed through Complete.
func (g *Goal) Apply(p GoalPatch) error {
	if g.Status == GoalStatusCompleted {
		if p.Status != nil && *p.Status != GoalStatusCompleted {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidGoalTransition, g.Status, *p.Status)
		}
		if p.Progress != nil && *p.Progress != 100 {
			return fmt.Errorf("%w: progress of a completed goal is fixed", ErrInvalidGoalTransition)
		}
	}

	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.Target != nil {
		g.Target = *p.Target
	}
	if p.Current != nil {
		g.Current = *p.Current
	}
	if p.Reward != nil {
		g.Reward = *p.Reward
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.AssignedByRole != nil {
		g.AssignedByRole = *p.AssignedByRole
	}
	if p.Progress != nil {
		g.Progress = *p.Progress
	}
	if p.StartDate != nil {
		g.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		g.EndDate = p.EndDate
	}
	return nil
}

// Complete is terminal: there is no way back to active.
func (g *Goal) Complete(now time.Time) {
	g.Status = GoalStatusCompleted
	g.Progress = 100
	g.CompletedDate = &now
}

// IsFullyCompleted reports a completion with all its fields in place.
// Rows that only carry the status still need Complete.
func (g *Goal) IsFullyCompleted() bool {
	return g.Status == GoalStatusCompleted && g.Progress == 100 && g.CompletedDate != nil
}

func (g *Goal) IsActive() bool {
	return g.Status == GoalStatusActive
}

// IsOverdue reports an active goal whose end date has passed.
func (g *Goal) IsOverdue(now time.Time) bool {
	return g.IsActive() && g.EndDate != nil && now.After(*g.EndDate)
}

// RecencyKey orders the goal list: createdAt, falling back to startDate.
func (g *Goal) RecencyKey() time.Time {
	if !g.CreatedAt.IsZero() {
		return g.CreatedAt
	}
	if g.StartDate != nil {
		return *g.StartDate
	}
	return time.Time{}
}

// HistoryKey orders finished goals: completedDate, then endDate, then createdAt.
func (g *Goal) HistoryKey() time.Time {
	if g.CompletedDate != nil {
		return *g.CompletedDate
	}
	if g.EndDate != nil {
		return *g.EndDate
	}
	return g.CreatedAt
}

func (g *Goal) IsFinished() bool {
	return g.Status == GoalStatusCompleted || g.Status == GoalStatusExpired
}
