package service

import (
	"context"
	"time"

	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/repository"
)

// ClockOutResult reports what a clock-out changed: the closed interval, the
// hours credited to it, and the task the hours were booked against, if any.
type ClockOutResult struct {
	Interval *domain.AttendanceInterval
	Hours    float64
	Task     *domain.TaskRecord
}

type AttendanceService interface {
	ClockIn(ctx context.Context, actor domain.Actor) (*domain.AttendanceInterval, error)
	ClockOut(ctx context.Context, actor domain.Actor, taskID *string) (*ClockOutResult, error)
	Status(ctx context.Context, actor domain.Actor) (*domain.AttendanceInterval, error)
	ListMine(ctx context.Context, actor domain.Actor, from, to time.Time) ([]repository.AttendanceRow, error)
	ListTeam(ctx context.Context, actor domain.Actor, day time.Time) ([]repository.TeamAttendanceRow, error)
}

// TaskEdit carries the optional fields of an admin task edit; nil means leave
// the field as is.
type TaskEdit struct {
	Description *string
	Hours       *float64
	WorkDate    *time.Time
}

type TaskService interface {
	CreateOwn(ctx context.Context, actor domain.Actor, workDate time.Time, description string, hours *float64) (*domain.TaskRecord, error)
	AdminCreate(ctx context.Context, actor domain.Actor, userID string, workDate time.Time, description string, hours *float64) (*domain.TaskRecord, error)
	CreateFromTemplate(ctx context.Context, actor domain.Actor, templateID, userID string, workDate time.Time, hoursOverride *float64) (*domain.TaskRecord, error)
	SetHours(ctx context.Context, actor domain.Actor, taskID string, newHours float64) (*domain.TaskRecord, error)
	AdminEdit(ctx context.Context, actor domain.Actor, taskID string, edit TaskEdit) (*domain.TaskRecord, error)
	AdminDelete(ctx context.Context, actor domain.Actor, taskID string) error
	GetByID(ctx context.Context, actor domain.Actor, taskID string) (*domain.TaskRecord, error)
	ListMineByDate(ctx context.Context, actor domain.Actor, day time.Time) ([]*domain.TaskRecord, error)
	ListMineRange(ctx context.Context, actor domain.Actor, from, to *time.Time) ([]*domain.TaskRecord, error)
	ListTeamByDate(ctx context.Context, actor domain.Actor, day time.Time) ([]repository.TeamTaskRow, error)
	ListRange(ctx context.Context, actor domain.Actor, from, to time.Time, userID *string) ([]repository.TeamTaskRow, error)
}

type LeaveService interface {
	Submit(ctx context.Context, actor domain.Actor, start, end time.Time, reason string) (*domain.LeaveRequest, error)
	Approve(ctx context.Context, actor domain.Actor, id string) (*domain.LeaveRequest, error)
	Reject(ctx context.Context, actor domain.Actor, id string) (*domain.LeaveRequest, error)
	Edit(ctx context.Context, actor domain.Actor, id string, start, end time.Time, reason string) (*domain.LeaveRequest, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	ListMine(ctx context.Context, actor domain.Actor) ([]repository.LeaveRow, error)
	ListPending(ctx context.Context, actor domain.Actor) ([]repository.LeaveRow, error)
}

type TemplateService interface {
	Create(ctx context.Context, actor domain.Actor, description string, defaultHours *float64) (*domain.TaskTemplate, error)
	GetByID(ctx context.Context, id string) (*domain.TaskTemplate, error)
	ListActive(ctx context.Context, actor domain.Actor) ([]*domain.TaskTemplate, error)
	Update(ctx context.Context, actor domain.Actor, id string, description *string, defaultHours *float64) (*domain.TaskTemplate, error)
	Deactivate(ctx context.Context, actor domain.Actor, id string) error
}

type UserService interface {
	Create(ctx context.Context, actor domain.Actor, username string, role domain.Role) (*domain.User, error)
	SetRole(ctx context.Context, actor domain.Actor, username string, role domain.Role) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
