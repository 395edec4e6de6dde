package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nalvarenga/punchcard/internal/db"
	"github.com/nalvarenga/punchcard/internal/domain"
)

const taskColumns = `id, user_id, work_date, description, hours_spent, template_id, created_at, updated_at`

// taskColumnsAliased is the same column list prefixed with "t." for join queries.
const taskColumnsAliased = `t.id, t.user_id, t.work_date, t.description, t.hours_spent, t.template_id, t.created_at, t.updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.TaskRecord) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.WorkDate.Format(dateLayout),
		t.Description,
		nullableFloatToValue(t.HoursSpent),
		nullableStringToValue(t.TemplateID),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.TaskRecord, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTask(row)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.TaskRecord) error {
	query := `UPDATE tasks
		SET work_date = ?, description = ?, hours_spent = ?, template_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.WorkDate.Format(dateLayout),
		t.Description,
		nullableFloatToValue(t.HoursSpent),
		nullableStringToValue(t.TemplateID),
		nowUTC(),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireRowAffected(res, "task")
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireRowAffected(res, "task")
}

func (r *SQLiteTaskRepo) ListByUserAndDate(ctx context.Context, userID string, day time.Time) ([]*domain.TaskRecord, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = ? AND work_date = ?
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID, day.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing tasks by user and date: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListByUserRange(ctx context.Context, userID string, from, to *time.Time) ([]*domain.TaskRecord, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}
	if from != nil {
		query += ` AND work_date >= ?`
		args = append(args, from.Format(dateLayout))
	}
	if to != nil {
		query += ` AND work_date <= ?`
		args = append(args, to.Format(dateLayout))
	}
	query += ` ORDER BY work_date DESC, created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by user range: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListTeamByDate(ctx context.Context, day time.Time) ([]TeamTaskRow, error) {
	query := `SELECT u.username, ` + taskColumnsAliased + `
		FROM tasks t
		JOIN users u ON t.user_id = u.id
		WHERE t.work_date = ?
		ORDER BY u.username, t.id`
	rows, err := r.db.QueryContext(ctx, query, day.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing team tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTeamRows(rows)
}

func (r *SQLiteTaskRepo) ListRange(ctx context.Context, from, to time.Time, userID *string) ([]TeamTaskRow, error) {
	query := `SELECT u.username, ` + taskColumnsAliased + `
		FROM tasks t
		JOIN users u ON t.user_id = u.id
		WHERE t.work_date >= ? AND t.work_date <= ?`
	args := []any{from.Format(dateLayout), to.Format(dateLayout)}
	if userID != nil {
		query += ` AND t.user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY t.work_date, u.username, t.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks in range: %w", err)
	}
	defer rows.Close()
	return r.scanTeamRows(rows)
}

func (r *SQLiteTaskRepo) scanTask(row *sql.Row) (*domain.TaskRecord, error) {
	var t domain.TaskRecord
	var workDateStr, createdAtStr, updatedAtStr string
	var hours sql.NullFloat64
	var templateID sql.NullString

	err := row.Scan(&t.ID, &t.UserID, &workDateStr, &t.Description, &hours, &templateID, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return r.populateTask(&t, workDateStr, createdAtStr, updatedAtStr, hours, templateID)
}

func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.TaskRecord, error) {
	var tasks []*domain.TaskRecord
	for rows.Next() {
		var t domain.TaskRecord
		var workDateStr, createdAtStr, updatedAtStr string
		var hours sql.NullFloat64
		var templateID sql.NullString

		if err := rows.Scan(&t.ID, &t.UserID, &workDateStr, &t.Description, &hours, &templateID, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		task, err := r.populateTask(&t, workDateStr, createdAtStr, updatedAtStr, hours, templateID)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) scanTeamRows(rows *sql.Rows) ([]TeamTaskRow, error) {
	var result []TeamTaskRow
	for rows.Next() {
		var tr TeamTaskRow
		var workDateStr, createdAtStr, updatedAtStr string
		var hours sql.NullFloat64
		var templateID sql.NullString

		if err := rows.Scan(&tr.Username, &tr.Task.ID, &tr.Task.UserID, &workDateStr, &tr.Task.Description,
			&hours, &templateID, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning team task row: %w", err)
		}
		if _, err := r.populateTask(&tr.Task, workDateStr, createdAtStr, updatedAtStr, hours, templateID); err != nil {
			return nil, err
		}
		result = append(result, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team tasks: %w", err)
	}
	return result, nil
}

func (r *SQLiteTaskRepo) populateTask(t *domain.TaskRecord, workDateStr, createdAtStr, updatedAtStr string, hours sql.NullFloat64, templateID sql.NullString) (*domain.TaskRecord, error) {
	t.HoursSpent = nullFloatPtr(hours)
	t.TemplateID = nullStringPtr(templateID)

	var parseErr error
	t.WorkDate, parseErr = time.Parse(dateLayout, workDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing work_date: %w", parseErr)
	}
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return t, nil
}
