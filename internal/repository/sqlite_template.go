package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nalvarenga/punchcard/internal/db"
	"github.com/nalvarenga/punchcard/internal/domain"
)

const templateColumns = `id, description, default_hours, worked_hours, active, created_at, updated_at`

// SQLiteTemplateRepo implements TemplateRepo using a SQLite database.
type SQLiteTemplateRepo struct {
	db db.DBTX
}

// NewSQLiteTemplateRepo creates a new SQLiteTemplateRepo.
func NewSQLiteTemplateRepo(conn db.DBTX) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: conn}
}

func (r *SQLiteTemplateRepo) Create(ctx context.Context, t *domain.TaskTemplate) error {
	query := `INSERT INTO task_templates (id, description, default_hours, worked_hours, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Description,
		t.DefaultHours,
		t.WorkedHours,
		boolToInt(t.Active),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task template: %w", err)
	}
	return nil
}

func (r *SQLiteTemplateRepo) GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTemplate(row)
}

func (r *SQLiteTemplateRepo) ListActive(ctx context.Context) ([]*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE active = 1 ORDER BY description`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.TaskTemplate
	for rows.Next() {
		t, err := r.scanTemplateRow(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}
	return templates, nil
}

func (r *SQLiteTemplateRepo) Update(ctx context.Context, t *domain.TaskTemplate) error {
	query := `UPDATE task_templates
		SET description = ?, default_hours = ?, active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Description,
		t.DefaultHours,
		boolToInt(t.Active),
		nowUTC(),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task template: %w", err)
	}
	return requireRowAffected(res, "task template")
}

func (r *SQLiteTemplateRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE task_templates SET active = 0, updated_at = ? WHERE id = ?`, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("deactivating task template: %w", err)
	}
	return requireRowAffected(res, "task template")
}

func (r *SQLiteTemplateRepo) ApplyWorkedHoursDelta(ctx context.Context, id string, delta float64) error {
	// Single-statement read-modify-write: the floor and the addition happen
	// inside the UPDATE, so concurrent rollups serialize on the writer lock
	// and cannot lose deltas or drive the aggregate negative.
	query := `UPDATE task_templates
		SET worked_hours = MAX(0, ROUND(worked_hours + ?, 2)), updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, delta, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("applying worked-hours delta: %w", err)
	}
	return requireRowAffected(res, "task template")
}

func (r *SQLiteTemplateRepo) scanTemplate(row *sql.Row) (*domain.TaskTemplate, error) {
	var t domain.TaskTemplate
	var active int
	var createdAtStr, updatedAtStr string

	err := row.Scan(&t.ID, &t.Description, &t.DefaultHours, &t.WorkedHours, &active, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task template: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task template: %w", err)
	}
	return r.populateTemplate(&t, active, createdAtStr, updatedAtStr)
}

func (r *SQLiteTemplateRepo) scanTemplateRow(rows *sql.Rows) (*domain.TaskTemplate, error) {
	var t domain.TaskTemplate
	var active int
	var createdAtStr, updatedAtStr string

	if err := rows.Scan(&t.ID, &t.Description, &t.DefaultHours, &t.WorkedHours, &active, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning template row: %w", err)
	}
	return r.populateTemplate(&t, active, createdAtStr, updatedAtStr)
}

func (r *SQLiteTemplateRepo) populateTemplate(t *domain.TaskTemplate, active int, createdAtStr, updatedAtStr string) (*domain.TaskTemplate, error) {
	t.Active = intToBool(active)

	var parseErr error
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

// requireRowAffected maps a zero-row UPDATE/DELETE to ErrNotFound.
func requireRowAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
