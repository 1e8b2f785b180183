package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS employees (
				id         TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS meetings (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time   TEXT NOT NULL,
				owner_id   TEXT NOT NULL REFERENCES employees(id),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				CHECK (start_time < end_time)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_meetings_owner_time
				ON meetings(owner_id, start_time, end_time)`,
		},
	},
	{
		version: 2,
		statements: []string{
			// position keeps participant order stable and permits the same
			// employee to appear more than once on a meeting.
			`CREATE TABLE IF NOT EXISTS meeting_participants (
				meeting_id  TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
				employee_id TEXT NOT NULL REFERENCES employees(id),
				position    INTEGER NOT NULL,
				PRIMARY KEY (meeting_id, position)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_participants_employee
				ON meeting_participants(employee_id)`,
		},
	},
}

// Migrate applies pending schema migrations in version order. Each migration
// runs in its own transaction and is recorded in schema_migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("sqlite: migration %d: %w", m.version, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range m.statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			m.version, formatTime(time.Now()))
		return err
	})
}
