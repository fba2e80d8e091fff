// Package sqlite
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"sysmon-agent/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

func NewSqliteDB(dbPath string, log logger.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Info("sqlite connection established successfully", "path", dbPath)

	if err := runMigration(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func runMigration(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS latest_readings (
		monitor     TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		format      TEXT NOT NULL,
		int_value   INTEGER NOT NULL DEFAULT 0,
		float_value REAL NOT NULL DEFAULT 0,
		is_float    INTEGER NOT NULL DEFAULT 0,
		warmup      INTEGER NOT NULL DEFAULT 0,
		reason      TEXT NOT NULL DEFAULT '',
		recorded_at INTEGER NOT NULL
	);
	`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to migrate latest_readings table: %w", err)
	}
	return nil
}
