package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS operations (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT '',
		skills      TEXT NOT NULL DEFAULT '[]',
		output_code TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS stations (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		operation_ids TEXT NOT NULL DEFAULT '[]',
		sub_skills    TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE TABLE IF NOT EXISTS workers (
		id     TEXT PRIMARY KEY,
		name   TEXT NOT NULL,
		skills TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_entries (
		id        TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		plan_id   TEXT NOT NULL DEFAULT '',
		node_id   TEXT NOT NULL DEFAULT '',
		start_at  TEXT NOT NULL,
		end_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedule_worker ON schedule_entries(worker_id)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		order_ref  TEXT NOT NULL DEFAULT '',
		kind       TEXT NOT NULL DEFAULT 'plan'
		           CHECK(kind IN ('plan','template')),
		status     TEXT NOT NULL DEFAULT 'draft'
		           CHECK(status IN ('draft','deployed','archived')),
		snapshot   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS semi_codes (
		signature  TEXT PRIMARY KEY,
		prefix     TEXT NOT NULL,
		code       TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_semi_codes_prefix ON semi_codes(prefix)`,

	`CREATE TABLE IF NOT EXISTS code_counters (
		prefix   TEXT PRIMARY KEY,
		next_seq INTEGER NOT NULL CHECK(next_seq > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS material_ledger (
		semi_code  TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		quantity   REAL NOT NULL DEFAULT 0,
		unit       TEXT NOT NULL DEFAULT '',
		plan_id    TEXT NOT NULL DEFAULT '',
		node_id    TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	)`,
}
