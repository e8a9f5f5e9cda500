// Package sqlitestore implements the chat association store on SQLite
// using modernc.org/sqlite (pure Go, no CGO).
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver registration
)

// Store is a SQLite-backed association store.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the database at path.
//
// The database uses WAL mode, a 5 s busy timeout, and a single connection
// since SQLite serialises writes.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlitestore: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: set busy_timeout: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Link links slave to master, replacing the previous master of slave.
// Unless multipleSlaves is set, other slaves of master are unlinked.
func (s *Store) Link(ctx context.Context, master, slave string, multipleSlaves bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chat_assoc WHERE slave_uid = ?", slave); err != nil {
		return fmt.Errorf("sqlitestore: unlink slave: %w", err)
	}
	if !multipleSlaves {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chat_assoc WHERE master_uid = ?", master); err != nil {
			return fmt.Errorf("sqlitestore: unlink master: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO chat_assoc (master_uid, slave_uid) VALUES (?, ?)", master, slave); err != nil {
		return fmt.Errorf("sqlitestore: link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit: %w", err)
	}
	return nil
}

// Unlink removes every link of slave.
func (s *Store) Unlink(ctx context.Context, slave string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chat_assoc WHERE slave_uid = ?", slave); err != nil {
		return fmt.Errorf("sqlitestore: unlink: %w", err)
	}
	return nil
}

// Masters returns the masters linked to slave.
func (s *Store) Masters(ctx context.Context, slave string) ([]string, error) {
	return s.query(ctx, "SELECT master_uid FROM chat_assoc WHERE slave_uid = ? ORDER BY master_uid", slave)
}

// Slaves returns the slaves linked to master.
func (s *Store) Slaves(ctx context.Context, master string) ([]string, error) {
	return s.query(ctx, "SELECT slave_uid FROM chat_assoc WHERE master_uid = ? ORDER BY slave_uid", master)
}

func (s *Store) query(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: rows: %w", err)
	}
	return out, nil
}
