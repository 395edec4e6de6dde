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
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL UNIQUE,
		role       TEXT NOT NULL DEFAULT 'Employee'
		           CHECK(role IN ('Employee','Manager','Admin')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS task_templates (
		id            TEXT PRIMARY KEY,
		description   TEXT NOT NULL,
		default_hours REAL NOT NULL DEFAULT 1,
		worked_hours  REAL NOT NULL DEFAULT 0 CHECK(worked_hours >= 0),
		active        INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	// template_id is a weak reference on purpose: tasks outlive template
	// deactivation and the ledger tolerates a missing referent.
	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id),
		work_date   TEXT NOT NULL,
		description TEXT NOT NULL,
		hours_spent REAL,
		template_id TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_user_date ON tasks(user_id, work_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_template ON tasks(template_id) WHERE template_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS attendance_intervals (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		work_date  TEXT NOT NULL,
		clock_in   TEXT NOT NULL,
		clock_out  TEXT,
		task_id    TEXT,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_attendance_user_date ON attendance_intervals(user_id, work_date)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_open ON attendance_intervals(user_id) WHERE clock_out IS NULL`,

	`CREATE TABLE IF NOT EXISTS leave_requests (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id),
		start_date   TEXT NOT NULL,
		end_date     TEXT NOT NULL,
		reason       TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'Pending'
		             CHECK(status IN ('Pending','Approved','Rejected')),
		submitted_at TEXT NOT NULL,
		reviewed_by  TEXT,
		reviewed_at  TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_leave_user ON leave_requests(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leave_status ON leave_requests(status)`,
}
