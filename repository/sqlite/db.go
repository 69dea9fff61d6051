package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/nijaru/yt-summary/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
    id TEXT PRIMARY KEY,
    input TEXT NOT NULL,
    video_id TEXT,
    success INTEGER NOT NULL,
    summary TEXT,
    error TEXT,
    failed_stage TEXT,
    transcript_length INTEGER NOT NULL DEFAULT 0,
    input_length INTEGER NOT NULL DEFAULT 0,
    model_name TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    created_at DATETIME NOT NULL
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_outcomes_video_id ON outcomes(video_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_created_at ON outcomes(created_at);
`

type DBConfig struct {
	MaxRetries         int
	RetryDelay         time.Duration
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

func DefaultDBConfig() DBConfig {
	return DBConfig{
		MaxRetries:         3,
		RetryDelay:         100 * time.Millisecond,
		MaxConnections:     4,
		MaxIdleConnections: 2,
		ConnMaxLifetime:    time.Hour,
	}
}

// ConfigureDB applies connection pool settings
func ConfigureDB(db *sql.DB, config DBConfig) {
	db.SetMaxOpenConns(config.MaxConnections)
	db.SetMaxIdleConns(config.MaxIdleConnections)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
}

// InitDB opens the database at dbPath, creating the directory and schema
// as needed.
func InitDB(dbPath string) (*sql.DB, error) {
	const op = "sqlite.InitDB"

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Internal(op, err, "failed to create database directory")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Internal(op, err, "failed to open database")
	}

	if err := configurePragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := execSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func configurePragmas(db *sql.DB) error {
	const op = "sqlite.configurePragmas"

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA cache_size = -2000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Internal(op, err, fmt.Sprintf("failed to set pragma: %s", pragma))
		}
	}

	return nil
}

func execSchema(db *sql.DB) error {
	const op = "sqlite.execSchema"

	tx, err := db.Begin()
	if err != nil {
		return errors.Internal(op, err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := tx.Exec(stmt); err != nil {
			return errors.Internal(op, err, fmt.Sprintf("failed to execute schema statement: %s", stmt))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Internal(op, err, "failed to commit schema transaction")
	}

	return nil
}

// withRetry retries fn while SQLite reports the database as busy or locked.
func withRetry(ctx context.Context, config DBConfig, op string, fn func() error) error {
	var lastErr error
	for i := 0; i < config.MaxRetries; i++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isLockError(lastErr) {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return errors.Internal(op, ctx.Err(), "context cancelled")
		case <-time.After(config.RetryDelay * time.Duration(i+1)):
		}
	}
	return errors.Internal(op, lastErr, "max retries exceeded")
}

func isLockError(err error) bool {
	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
