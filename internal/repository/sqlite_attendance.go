package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nalvarenga/punchcard/internal/db"
	"github.com/nalvarenga/punchcard/internal/domain"
)

const attendanceColumns = `id, user_id, work_date, clock_in, clock_out, task_id, created_at`

// SQLiteAttendanceRepo implements AttendanceRepo using a SQLite database.
type SQLiteAttendanceRepo struct {
	db db.DBTX
}

// NewSQLiteAttendanceRepo creates a new SQLiteAttendanceRepo.
func NewSQLiteAttendanceRepo(conn db.DBTX) *SQLiteAttendanceRepo {
	return &SQLiteAttendanceRepo{db: conn}
}

func (r *SQLiteAttendanceRepo) Create(ctx context.Context, a *domain.AttendanceInterval) error {
	query := `INSERT INTO attendance_intervals (` + attendanceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.WorkDate.Format(dateLayout),
		a.ClockIn.Format(time.RFC3339),
		nullableTimeToString(a.ClockOut, time.RFC3339),
		nullableStringToValue(a.TaskID),
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting attendance interval: %w", err)
	}
	return nil
}

func (r *SQLiteAttendanceRepo) GetByID(ctx context.Context, id string) (*domain.AttendanceInterval, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_intervals WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanInterval(row)
}

func (r *SQLiteAttendanceRepo) HasOpen(ctx context.Context, userID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance_intervals WHERE user_id = ? AND clock_out IS NULL`,
		userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting open intervals: %w", err)
	}
	return count > 0, nil
}

func (r *SQLiteAttendanceRepo) FindLatestOpen(ctx context.Context, userID string) (*domain.AttendanceInterval, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_intervals
		WHERE user_id = ? AND clock_out IS NULL
		ORDER BY clock_in DESC, id DESC
		LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, userID)
	return r.scanInterval(row)
}

func (r *SQLiteAttendanceRepo) Update(ctx context.Context, a *domain.AttendanceInterval) error {
	query := `UPDATE attendance_intervals SET clock_out = ?, task_id = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(a.ClockOut, time.RFC3339),
		nullableStringToValue(a.TaskID),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating attendance interval: %w", err)
	}
	return requireRowAffected(res, "attendance interval")
}

func (r *SQLiteAttendanceRepo) ListMine(ctx context.Context, userID string, from, to, today time.Time) ([]AttendanceRow, error) {
	query := `SELECT a.id, a.user_id, a.work_date, a.clock_in, a.clock_out, a.task_id, a.created_at, t.description
		FROM attendance_intervals a
		LEFT JOIN tasks t ON a.task_id = t.id
		WHERE a.user_id = ?
		  AND a.work_date >= ? AND a.work_date <= ?
		  AND NOT (a.clock_out IS NULL AND a.work_date = ?)
		ORDER BY a.work_date DESC, COALESCE(a.clock_out, a.clock_in) DESC`
	rows, err := r.db.QueryContext(ctx, query,
		userID, from.Format(dateLayout), to.Format(dateLayout), today.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing attendance history: %w", err)
	}
	defer rows.Close()

	var result []AttendanceRow
	for rows.Next() {
		var ar AttendanceRow
		var desc sql.NullString
		if err := r.scanJoinedInterval(rows, &ar.Interval, &desc); err != nil {
			return nil, err
		}
		ar.TaskDescription = nullStringPtr(desc)
		result = append(result, ar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attendance history: %w", err)
	}
	return result, nil
}

func (r *SQLiteAttendanceRepo) ListTeam(ctx context.Context, day time.Time) ([]TeamAttendanceRow, error) {
	// Open intervals surface first: that is the "currently in" half of the
	// team view.
	query := `SELECT u.username, a.id, a.user_id, a.work_date, a.clock_in, a.clock_out, a.task_id, a.created_at, t.description
		FROM attendance_intervals a
		JOIN users u ON a.user_id = u.id
		LEFT JOIN tasks t ON a.task_id = t.id
		WHERE a.work_date = ?
		ORDER BY (a.clock_out IS NULL) DESC, u.username, a.clock_in DESC`
	rows, err := r.db.QueryContext(ctx, query, day.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing team attendance: %w", err)
	}
	defer rows.Close()

	var result []TeamAttendanceRow
	for rows.Next() {
		var tr TeamAttendanceRow
		var desc sql.NullString
		var workDateStr, clockInStr, createdAtStr string
		var clockOut, taskID sql.NullString
		if err := rows.Scan(&tr.Username, &tr.Interval.ID, &tr.Interval.UserID, &workDateStr,
			&clockInStr, &clockOut, &taskID, &createdAtStr, &desc); err != nil {
			return nil, fmt.Errorf("scanning team attendance row: %w", err)
		}
		if _, err := r.populateInterval(&tr.Interval, workDateStr, clockInStr, createdAtStr, clockOut, taskID); err != nil {
			return nil, err
		}
		tr.TaskDescription = nullStringPtr(desc)
		result = append(result, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team attendance: %w", err)
	}
	return result, nil
}

func (r *SQLiteAttendanceRepo) scanInterval(row *sql.Row) (*domain.AttendanceInterval, error) {
	var a domain.AttendanceInterval
	var workDateStr, clockInStr, createdAtStr string
	var clockOut, taskID sql.NullString

	err := row.Scan(&a.ID, &a.UserID, &workDateStr, &clockInStr, &clockOut, &taskID, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("attendance interval: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning attendance interval: %w", err)
	}
	return r.populateInterval(&a, workDateStr, clockInStr, createdAtStr, clockOut, taskID)
}

func (r *SQLiteAttendanceRepo) scanJoinedInterval(rows *sql.Rows, a *domain.AttendanceInterval, desc *sql.NullString) error {
	var workDateStr, clockInStr, createdAtStr string
	var clockOut, taskID sql.NullString

	if err := rows.Scan(&a.ID, &a.UserID, &workDateStr, &clockInStr, &clockOut, &taskID, &createdAtStr, desc); err != nil {
		return fmt.Errorf("scanning attendance row: %w", err)
	}
	_, err := r.populateInterval(a, workDateStr, clockInStr, createdAtStr, clockOut, taskID)
	return err
}

func (r *SQLiteAttendanceRepo) populateInterval(a *domain.AttendanceInterval, workDateStr, clockInStr, createdAtStr string, clockOut, taskID sql.NullString) (*domain.AttendanceInterval, error) {
	a.ClockOut = parseNullableTime(clockOut, time.RFC3339)
	a.TaskID = nullStringPtr(taskID)

	var parseErr error
	a.WorkDate, parseErr = time.Parse(dateLayout, workDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing work_date: %w", parseErr)
	}
	a.ClockIn, parseErr = time.Parse(time.RFC3339, clockInStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing clock_in: %w", parseErr)
	}
	a.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return a, nil
}
