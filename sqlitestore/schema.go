package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	schemaVersion      = 1
	defaultBusyTimeout = 5000
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS chat_assoc (
		master_uid TEXT NOT NULL,
		slave_uid  TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (unixepoch()),
		PRIMARY KEY (master_uid, slave_uid)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS chat_assoc_slave ON chat_assoc (slave_uid)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("sqlitestore: create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("sqlitestore: read schema version: %w", err)
	}

	if current >= schemaVersion {
		return nil
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlitestore: migrate: %w\nstatement: %s", err, stmt)
		}
	}

	if _, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("sqlitestore: record schema version: %w", err)
	}

	return nil
}
