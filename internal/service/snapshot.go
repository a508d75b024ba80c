package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/carepledge/internal/aggregate"
	"github.com/templui/carepledge/internal/storage"
)

var (
	ErrStorageUnavailable = errors.New("snapshot storage is not configured")
)

type SnapshotExport struct {
	GeneratedAt   time.Time                    `json:"generatedAt"`
	AdminID       string                       `json:"adminId,omitempty"`
	Leaderboard   []aggregate.LeaderboardEntry `json:"leaderboard"`
	TokenEconomy  *aggregate.TokenEconomy      `json:"tokenEconomy"`
	CommandCenter *aggregate.CommandCenter     `json:"commandCenter,omitempty"`
}

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// SnapshotService writes dashboard aggregates to object storage for
// offline reporting.
type SnapshotService struct {
	insights *InsightsService
	storage  storage.Storage
	now      func() time.Time
}

func NewSnapshotService(insights *InsightsService, storage storage.Storage) *SnapshotService {
	return &SnapshotService{
		insights: insights,
		storage:  storage,
		now:      time.Now,
	}
}

// Export stores the current leaderboard and token economy, plus the
// command center when adminID is set.
func (s *SnapshotService) Export(ctx context.Context, adminID string) (*ExportResult, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	now := s.now().UTC()
	export := SnapshotExport{GeneratedAt: now, AdminID: adminID}

	var err error
	if export.Leaderboard, err = s.insights.Leaderboard(ctx); err != nil {
		return nil, err
	}
	if export.TokenEconomy, err = s.insights.TokenEconomy(ctx); err != nil {
		return nil, err
	}
	if adminID != "" {
		if export.CommandCenter, err = s.insights.CommandCenter(ctx, adminID); err != nil {
			return nil, err
		}
	}

	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	scope := adminID
	if scope == "" {
		scope = "all"
	}
	key := fmt.Sprintf("snapshots/%s/%s.json", scope, now.Format("20060102T150405Z"))

	if err := s.storage.Put(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	url, err := s.storage.URL(ctx, key)
	if err != nil {
		return nil, err
	}

	slog.Info("snapshot exported", "key", key, "bytes", len(body))

	return &ExportResult{Key: key, URL: url}, nil
}
