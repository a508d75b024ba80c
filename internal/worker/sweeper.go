package worker

import (
	"context"
	"log/slog"
	"time"
)

type GoalExpirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

type PledgeFlagger interface {
	FlagOverdue(ctx context.Context) (int, error)
}

// Sweeper periodically expires overdue goals and flags accepted pledges
// whose window closed before they were completed.
type Sweeper struct {
	goals    GoalExpirer
	pledges  PledgeFlagger
	interval time.Duration
}

func NewSweeper(goals GoalExpirer, pledges PledgeFlagger, interval time.Duration) *Sweeper {
	return &Sweeper{
		goals:    goals,
		pledges:  pledges,
		interval: interval,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass. Failures are logged; the next tick retries.
func (s *Sweeper) Sweep(ctx context.Context) (expired, flagged int) {
	expired, err := s.goals.ExpireOverdue(ctx)
	if err != nil {
		slog.Error("goal expiry sweep failed", "error", err)
	}

	flagged, err = s.pledges.FlagOverdue(ctx)
	if err != nil {
		slog.Error("pledge overdue sweep failed", "error", err)
	}

	if expired > 0 || flagged > 0 {
		slog.Info("sweep finished", "expired_goals", expired, "at_risk_pledges", flagged)
	}

	return expired, flagged
}
