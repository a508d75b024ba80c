package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/templui/carepledge/internal/app"
	"github.com/templui/carepledge/internal/config"
	"github.com/templui/carepledge/internal/db"
	"github.com/templui/carepledge/internal/logger"
)

// loadSQLConfig loads config for commands that only make sense against a
// persistent store.
func loadSQLConfig() (*config.Config, error) {
	cfg := config.Load()
	logger.Init(cfg.AppName, cfg.AppEnv, cfg.IsDevelopment(), cfg.SentryDSN)

	if !cfg.UsesSQL() {
		return nil, fmt.Errorf("STORE_BACKEND=%s has nothing to persist, set STORE_BACKEND=sql", cfg.StoreBackend)
	}
	return cfg, nil
}

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), false)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), true)
		},
	})

	return cmd
}

func runMigrate(ctx context.Context, down bool) error {
	cfg, err := loadSQLConfig()
	if err != nil {
		return err
	}

	database, err := db.Open(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer database.Close()

	if down {
		return db.MigrateDown(database.DB, cfg.DBDriver)
	}
	return db.RunMigrations(database.DB, cfg.DBDriver)
}

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo dataset into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSQLConfig()
			if err != nil {
				return err
			}
			cfg.SeedDemoData = false

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return app.SeedDemo(cmd.Context(), a.Repos)
		},
	}
}

func SweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire overdue goals and flag overdue pledges once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSQLConfig()
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			expired, flagged := a.Sweeper.Sweep(cmd.Context())
			fmt.Printf("expired %d goals, flagged %d pledges\n", expired, flagged)
			return nil
		},
	}
}
