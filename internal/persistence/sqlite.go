package persistence

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/spec-kit/chamados-service/internal/config"
)

// SQLite wraps a database/sql handle on the sqlite3 driver.
type SQLite struct {
	DB *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS open_tickets (
    id TEXT PRIMARY KEY,
    estimated_duration TEXT,
    client TEXT,
    problem_description TEXT,
    operator TEXT,
    executor TEXT,
    start_clock_time TEXT,
    opened_date TEXT,
    end_clock_time TEXT,
    timer_state TEXT,
    timer_type TEXT,
    accumulated_time TEXT,
    start_time TEXT
);
CREATE TABLE IF NOT EXISTS archived_tickets (
    id TEXT PRIMARY KEY,
    estimated_duration TEXT,
    client TEXT,
    problem_description TEXT,
    operator TEXT,
    executor TEXT,
    opened_date_time TEXT,
    end_clock_time TEXT,
    archived_by TEXT,
    start_at TEXT,
    end_at TEXT,
    elapsed_time TEXT,
    deadline_status TEXT
);
CREATE TABLE IF NOT EXISTS board_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// NewSQLite opens (or creates) the database file and bootstraps the schema.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig, logger *zap.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, err
	}

	// sqlite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("opened sqlite database", zap.String("path", cfg.Path))
	return &SQLite{DB: db}, nil
}

// Close releases the handle.
func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}

// Ping verifies database connectivity.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("sqlite not configured")
	}
	return s.DB.PingContext(ctx)
}
