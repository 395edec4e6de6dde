package repository

import (
	"context"
	"time"

	"github.com/nalvarenga/punchcard/internal/domain"
)

// AttendanceRow is an attendance interval joined with the attached task's
// description, used by personal history views. TaskDescription is nil when no
// task is attached or the task was deleted out of band.
type AttendanceRow struct {
	Interval        domain.AttendanceInterval
	TaskDescription *string
}

// TeamAttendanceRow is an attendance interval joined with its user and
// optional task description, used by reviewer day views.
type TeamAttendanceRow struct {
	Username        string
	Interval        domain.AttendanceInterval
	TaskDescription *string
}

// TeamTaskRow is a task record joined with its owner's username.
type TeamTaskRow struct {
	Username string
	Task     domain.TaskRecord
}

// LeaveRow is a leave request joined with its requester's and (when reviewed)
// reviewer's usernames.
type LeaveRow struct {
	Username         string
	ReviewerUsername *string
	Request          domain.LeaveRequest
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	List(ctx context.Context) ([]*domain.User, error)
}

type TemplateRepo interface {
	Create(ctx context.Context, t *domain.TaskTemplate) error
	GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error)
	ListActive(ctx context.Context) ([]*domain.TaskTemplate, error)
	Update(ctx context.Context, t *domain.TaskTemplate) error
	Deactivate(ctx context.Context, id string) error
	// ApplyWorkedHoursDelta adds a signed delta to the template's worked-hours
	// aggregate in a single statement, flooring the result at zero. This is
	// the only write path for worked_hours outside template creation.
	ApplyWorkedHoursDelta(ctx context.Context, id string, delta float64) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.TaskRecord) error
	GetByID(ctx context.Context, id string) (*domain.TaskRecord, error)
	Update(ctx context.Context, t *domain.TaskRecord) error
	Delete(ctx context.Context, id string) error
	ListByUserAndDate(ctx context.Context, userID string, day time.Time) ([]*domain.TaskRecord, error)
	ListByUserRange(ctx context.Context, userID string, from, to *time.Time) ([]*domain.TaskRecord, error)
	ListTeamByDate(ctx context.Context, day time.Time) ([]TeamTaskRow, error)
	ListRange(ctx context.Context, from, to time.Time, userID *string) ([]TeamTaskRow, error)
}

type AttendanceRepo interface {
	Create(ctx context.Context, a *domain.AttendanceInterval) error
	GetByID(ctx context.Context, id string) (*domain.AttendanceInterval, error)
	// HasOpen reports whether the user has any open interval, regardless of day.
	HasOpen(ctx context.Context, userID string) (bool, error)
	// FindLatestOpen returns the most recently opened open interval for the
	// user: latest clock-in wins, id breaks exact ties deterministically.
	FindLatestOpen(ctx context.Context, userID string) (*domain.AttendanceInterval, error)
	Update(ctx context.Context, a *domain.AttendanceInterval) error
	// ListMine returns completed history for the date range, newest first.
	// An interval that is still open today is excluded: it belongs to the
	// "currently in" view, not history.
	ListMine(ctx context.Context, userID string, from, to, today time.Time) ([]AttendanceRow, error)
	// ListTeam returns all intervals for a day with open intervals first.
	ListTeam(ctx context.Context, day time.Time) ([]TeamAttendanceRow, error)
}

type LeaveRepo interface {
	Create(ctx context.Context, l *domain.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*domain.LeaveRequest, error)
	Update(ctx context.Context, l *domain.LeaveRequest) error
	// Review persists a decision only while the stored row is still Pending,
	// so racing reviewers cannot both land a terminal state. A request that
	// was decided in the meantime surfaces as domain.ErrConflict.
	Review(ctx context.Context, l *domain.LeaveRequest) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]LeaveRow, error)
	ListPending(ctx context.Context) ([]LeaveRow, error)
}
