package service

import (
	"context"
	"time"

	"github.com/templui/carepledge/internal/aggregate"
	"github.com/templui/carepledge/internal/markdown"
	"github.com/templui/carepledge/internal/repository"
)

// InsightsService serves the dashboard aggregates. Every call reads the
// stores afresh; nothing is cached.
type InsightsService struct {
	repos    *repository.Repositories
	markdown *markdown.Parser
	fallback bool
	now      func() time.Time
}

func NewInsightsService(repos *repository.Repositories, parser *markdown.Parser, fallback bool) *InsightsService {
	return &InsightsService{
		repos:    repos,
		markdown: parser,
		fallback: fallback,
		now:      time.Now,
	}
}

func (s *InsightsService) snapshot(ctx context.Context) (aggregate.Snapshot, error) {
	snap := aggregate.Snapshot{Now: s.now()}
	var err error

	if snap.Patients, err = s.repos.Patients.Patients(ctx); err != nil {
		return snap, err
	}
	if snap.Staff, err = s.repos.Staff.Staff(ctx); err != nil {
		return snap, err
	}
	if snap.Goals, err = s.repos.Goals.Goals(ctx); err != nil {
		return snap, err
	}
	if snap.Pledges, err = s.repos.Pledges.Pledges(ctx); err != nil {
		return snap, err
	}
	if snap.Alerts, err = s.repos.Alerts.Alerts(ctx); err != nil {
		return snap, err
	}
	if snap.Tips, err = s.repos.Tips.Tips(ctx); err != nil {
		return snap, err
	}
	if snap.Appointments, err = s.repos.Appointments.Appointments(ctx); err != nil {
		return snap, err
	}
	if snap.Ratings, err = s.repos.Ratings.Ratings(ctx); err != nil {
		return snap, err
	}
	if snap.Ledger, err = s.repos.Ledger.Entries(ctx); err != nil {
		return snap, err
	}

	return snap, nil
}

func (s *InsightsService) ProviderDashboard(ctx context.Context, providerID string) (*aggregate.ProviderDashboard, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	d := aggregate.ProviderDashboardFor(snap, providerID, s.markdown.HTML)
	return &d, nil
}

func (s *InsightsService) Leaderboard(ctx context.Context) ([]aggregate.LeaderboardEntry, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return aggregate.Leaderboard(snap), nil
}

func (s *InsightsService) CommandCenter(ctx context.Context, adminID string) (*aggregate.CommandCenter, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	cc := aggregate.CommandCenterFor(snap, adminID, s.fallback)
	return &cc, nil
}

func (s *InsightsService) TokenEconomy(ctx context.Context) (*aggregate.TokenEconomy, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	te := aggregate.TokenEconomyOf(snap)
	return &te, nil
}
