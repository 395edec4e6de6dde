package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_FreshDatabase(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"users", "task_templates", "tasks", "attendance_intervals", "leave_requests"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// Re-running all migrations must not fail.
	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))
}

func TestMigrate_WorkedHoursFloorEnforced(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO task_templates
		(id, description, default_hours, worked_hours, active, created_at, updated_at)
		VALUES ('t1', 'Review', 1, -1, 1, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "negative worked_hours must be rejected by the schema")
}

func TestMigrate_LeaveStatusConstrained(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO users (id, username, role, created_at)
		VALUES ('u1', 'ana', 'Employee', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO leave_requests
		(id, user_id, start_date, end_date, status, submitted_at)
		VALUES ('l1', 'u1', '2025-01-10', '2025-01-12', 'Cancelled', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "status outside the state machine must be rejected")
}
