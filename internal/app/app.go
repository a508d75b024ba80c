package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/carepledge/internal/config"
	"github.com/templui/carepledge/internal/db"
	"github.com/templui/carepledge/internal/markdown"
	"github.com/templui/carepledge/internal/middleware"
	"github.com/templui/carepledge/internal/repository"
	"github.com/templui/carepledge/internal/seed"
	"github.com/templui/carepledge/internal/service"
	"github.com/templui/carepledge/internal/storage"
	"github.com/templui/carepledge/internal/worker"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Repos           *repository.Repositories
	EmailService    *service.EmailService
	GoalService     *service.GoalService
	PledgeService   *service.PledgeService
	InsightsService *service.InsightsService
	SnapshotService *service.SnapshotService
	RateLimiter     *middleware.RateLimiter
	Sweeper         *worker.Sweeper
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		database *sqlx.DB
		repos    *repository.Repositories
	)

	if cfg.UsesSQL() {
		var err error
		database, err = db.Open(ctx, cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		repos = repository.NewSQL(database)
	} else {
		repos = repository.NewMemory()
	}

	// Seed only the memory store automatically; SQL stores use `do seed`
	if cfg.SeedDemoData && !cfg.UsesSQL() {
		err := SeedDemo(ctx, repos)
		if err != nil {
			return nil, err
		}
	}

	// Storage
	snapshotStorage, err := storage.New(ctx, cfg)
	if err != nil {
		db.Close(database)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	parser := markdown.NewParser()
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.IsDevelopment(),
		parser,
	)
	goalService := service.NewGoalService(repos.Goals, repos.Ledger)
	pledgeService := service.NewPledgeService(
		repos.Pledges,
		repos.Patients,
		repos.Ledger,
		emailService,
		cfg.AppURL,
		cfg.AppName,
	)
	insightsService := service.NewInsightsService(repos, parser, cfg.DemoFallbackEnabled)
	snapshotService := service.NewSnapshotService(insightsService, snapshotStorage)

	return &App{
		Cfg:             cfg,
		DB:              database,
		Repos:           repos,
		EmailService:    emailService,
		GoalService:     goalService,
		PledgeService:   pledgeService,
		InsightsService: insightsService,
		SnapshotService: snapshotService,
		RateLimiter:     middleware.NewRateLimiter(cfg.RateLimitWrites, cfg.RateLimitWindow),
		Sweeper:         worker.NewSweeper(goalService, pledgeService, cfg.SweepInterval),
	}, nil
}

// SeedDemo loads the bundled demo dataset. An already populated store is
// not an error.
func SeedDemo(ctx context.Context, repos *repository.Repositories) error {
	ds, err := seed.Demo()
	if err != nil {
		return err
	}

	err = seed.Load(ctx, repos, ds, time.Now())
	if errors.Is(err, seed.ErrAlreadySeeded) {
		slog.Info("demo data already present, skipping seed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}

	return nil
}

// Close drains pending notifications and releases the database.
func (a *App) Close() error {
	a.PledgeService.WaitNotifications()
	return db.Close(a.DB)
}
