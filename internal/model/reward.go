package model

import "time"

const (
	RewardStatusLocked = "locked"
	// RewardStatusReadyToClaim is part of the client contract but no goal
	// projection produces it yet.
	RewardStatusReadyToClaim = "ready_to_claim"
)

// PendingReward is a read-only projection of an active goal.
type PendingReward struct {
	GoalID          string     `json:"goalId"`
	GoalTitle       string     `json:"goalTitle"`
	Reward          int        `json:"reward"`
	Status          string     `json:"status"`
	UnlockCondition string     `json:"unlockCondition"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	DaysRemaining   int        `json:"daysRemaining"`
}
