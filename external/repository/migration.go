package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresMigrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		date DATE NOT NULL,
		participants TEXT[] NOT NULL DEFAULT '{}',
		participant_limit INTEGER NOT NULL DEFAULT 0,
		message_id TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions (date)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		user_id TEXT PRIMARY KEY,
		weekdays SMALLINT[] NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

var sqliteMigrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		participants TEXT NOT NULL DEFAULT '[]',
		participant_limit INTEGER NOT NULL DEFAULT 0,
		message_id TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions (date)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		user_id TEXT PRIMARY KEY,
		weekdays TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range postgresMigrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func RunSQLiteMigration(ctx context.Context, db *sql.DB) error {
	for _, s := range sqliteMigrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
