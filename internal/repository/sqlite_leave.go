package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nalvarenga/punchcard/internal/db"
	"github.com/nalvarenga/punchcard/internal/domain"
)

const leaveColumns = `id, user_id, start_date, end_date, reason, status, submitted_at, reviewed_by, reviewed_at`

// SQLiteLeaveRepo implements LeaveRepo using a SQLite database.
type SQLiteLeaveRepo struct {
	db db.DBTX
}

// NewSQLiteLeaveRepo creates a new SQLiteLeaveRepo.
func NewSQLiteLeaveRepo(conn db.DBTX) *SQLiteLeaveRepo {
	return &SQLiteLeaveRepo{db: conn}
}

func (r *SQLiteLeaveRepo) Create(ctx context.Context, l *domain.LeaveRequest) error {
	query := `INSERT INTO leave_requests (` + leaveColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.UserID,
		l.StartDate.Format(dateLayout),
		l.EndDate.Format(dateLayout),
		l.Reason,
		string(l.Status),
		l.SubmittedAt.Format(time.RFC3339),
		nullableStringToValue(l.ReviewedBy),
		nullableTimeToString(l.ReviewedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting leave request: %w", err)
	}
	return nil
}

func (r *SQLiteLeaveRepo) GetByID(ctx context.Context, id string) (*domain.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var l domain.LeaveRequest
	var startStr, endStr, status, submittedStr string
	var reviewedBy, reviewedAt sql.NullString

	err := row.Scan(&l.ID, &l.UserID, &startStr, &endStr, &l.Reason, &status, &submittedStr, &reviewedBy, &reviewedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("leave request: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning leave request: %w", err)
	}
	return r.populateLeave(&l, startStr, endStr, status, submittedStr, reviewedBy, reviewedAt)
}

func (r *SQLiteLeaveRepo) Update(ctx context.Context, l *domain.LeaveRequest) error {
	query := `UPDATE leave_requests
		SET start_date = ?, end_date = ?, reason = ?, status = ?, reviewed_by = ?, reviewed_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		l.StartDate.Format(dateLayout),
		l.EndDate.Format(dateLayout),
		l.Reason,
		string(l.Status),
		nullableStringToValue(l.ReviewedBy),
		nullableTimeToString(l.ReviewedAt, time.RFC3339),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating leave request: %w", err)
	}
	return requireRowAffected(res, "leave request")
}

func (r *SQLiteLeaveRepo) Review(ctx context.Context, l *domain.LeaveRequest) error {
	// The Pending guard makes the decision a compare-and-set: a reviewer
	// working from a stale read cannot overwrite a terminal state.
	query := `UPDATE leave_requests
		SET status = ?, reviewed_by = ?, reviewed_at = ?
		WHERE id = ? AND status = 'Pending'`
	res, err := r.db.ExecContext(ctx, query,
		string(l.Status),
		nullableStringToValue(l.ReviewedBy),
		nullableTimeToString(l.ReviewedAt, time.RFC3339),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("reviewing leave request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reviewing leave request: %w", err)
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, l.ID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("leave request was already decided: %w", domain.ErrConflict)
	}
	return nil
}

func (r *SQLiteLeaveRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leave_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting leave request: %w", err)
	}
	return requireRowAffected(res, "leave request")
}

func (r *SQLiteLeaveRepo) ListByUser(ctx context.Context, userID string) ([]LeaveRow, error) {
	query := `SELECT u.username, rv.username, ` + leaveAliased + `
		FROM leave_requests l
		JOIN users u ON l.user_id = u.id
		LEFT JOIN users rv ON l.reviewed_by = rv.id
		WHERE l.user_id = ?
		ORDER BY l.submitted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing leave requests by user: %w", err)
	}
	defer rows.Close()
	return r.scanLeaveRows(rows)
}

func (r *SQLiteLeaveRepo) ListPending(ctx context.Context) ([]LeaveRow, error) {
	query := `SELECT u.username, rv.username, ` + leaveAliased + `
		FROM leave_requests l
		JOIN users u ON l.user_id = u.id
		LEFT JOIN users rv ON l.reviewed_by = rv.id
		WHERE l.status = 'Pending'
		ORDER BY l.submitted_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pending leave requests: %w", err)
	}
	defer rows.Close()
	return r.scanLeaveRows(rows)
}

const leaveAliased = `l.id, l.user_id, l.start_date, l.end_date, l.reason, l.status, l.submitted_at, l.reviewed_by, l.reviewed_at`

func (r *SQLiteLeaveRepo) scanLeaveRows(rows *sql.Rows) ([]LeaveRow, error) {
	var result []LeaveRow
	for rows.Next() {
		var lr LeaveRow
		var reviewer sql.NullString
		var startStr, endStr, status, submittedStr string
		var reviewedBy, reviewedAt sql.NullString

		if err := rows.Scan(&lr.Username, &reviewer, &lr.Request.ID, &lr.Request.UserID,
			&startStr, &endStr, &lr.Request.Reason, &status, &submittedStr, &reviewedBy, &reviewedAt); err != nil {
			return nil, fmt.Errorf("scanning leave row: %w", err)
		}
		if _, err := r.populateLeave(&lr.Request, startStr, endStr, status, submittedStr, reviewedBy, reviewedAt); err != nil {
			return nil, err
		}
		lr.ReviewerUsername = nullStringPtr(reviewer)
		result = append(result, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leave requests: %w", err)
	}
	return result, nil
}

func (r *SQLiteLeaveRepo) populateLeave(l *domain.LeaveRequest, startStr, endStr, status, submittedStr string, reviewedBy, reviewedAt sql.NullString) (*domain.LeaveRequest, error) {
	l.Status = domain.LeaveStatus(status)
	l.ReviewedBy = nullStringPtr(reviewedBy)
	l.ReviewedAt = parseNullableTime(reviewedAt, time.RFC3339)

	var parseErr error
	l.StartDate, parseErr = time.Parse(dateLayout, startStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	l.EndDate, parseErr = time.Parse(dateLayout, endStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing end_date: %w", parseErr)
	}
	l.SubmittedAt, parseErr = time.Parse(time.RFC3339, submittedStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing submitted_at: %w", parseErr)
	}
	return l, nil
}
