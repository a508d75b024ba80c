package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Open connects to the pledge database. For SQLite the parent directory of
// the database file is created if missing.
func Open(ctx context.Context, driver, connection string) (*sqlx.DB, error) {
	if driver == DriverSQLite && !isMemoryDSN(connection) {
		dir := filepath.Dir(strings.TrimPrefix(connection, "file:"))
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Open(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite && isMemoryDSN(connection) {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

func isMemoryDSN(connection string) bool {
	return strings.Contains(connection, ":memory:") || strings.Contains(connection, "mode=memory")
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
