package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dialectMap maps database drivers to Goose dialect names
var dialectMap = map[string]string{
	DriverSQLite:   "sqlite3",
	DriverPostgres: "postgres",
}

func getDialect(driver string) string {
	dialect, ok := dialectMap[driver]
	if ok {
		return dialect
	}
	return driver
}

func setupGoose(driver string) error {
	err := goose.SetDialect(getDialect(driver))
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}

	goose.SetBaseFS(migrationsDir)
	goose.SetLogger(goose.NopLogger())
	return nil
}

func RunMigrations(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Up(db, ".")
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	slog.Info("migrations completed", "version", version)
	return nil
}

func MigrateDown(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Down(db, ".")
	if err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	slog.Info("rolled back one migration")
	return nil
}
