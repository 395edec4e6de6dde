package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nalvarenga/punchcard/internal/domain"
)

var testUsernameCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func NewTestUser(username string, opts ...UserOption) *domain.User {
	if username == "" {
		username = fmt.Sprintf("user%03d", testUsernameCounter.Add(1))
	}
	u := &domain.User{
		ID:        uuid.New().String(),
		Username:  username,
		Role:      domain.RoleEmployee,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Template options
type TemplateOption func(*domain.TaskTemplate)

func WithDefaultHours(h float64) TemplateOption {
	return func(t *domain.TaskTemplate) {
		t.DefaultHours = h
	}
}

func WithWorkedHours(h float64) TemplateOption {
	return func(t *domain.TaskTemplate) {
		t.WorkedHours = h
	}
}

func Inactive() TemplateOption {
	return func(t *domain.TaskTemplate) {
		t.Active = false
	}
}

func NewTestTemplate(description string, opts ...TemplateOption) *domain.TaskTemplate {
	now := time.Now().UTC()
	t := &domain.TaskTemplate{
		ID:           uuid.New().String(),
		Description:  description,
		DefaultHours: 1,
		WorkedHours:  0,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Task options
type TaskOption func(*domain.TaskRecord)

func WithHours(h float64) TaskOption {
	return func(t *domain.TaskRecord) {
		t.HoursSpent = &h
	}
}

func WithTemplateID(id string) TaskOption {
	return func(t *domain.TaskRecord) {
		t.TemplateID = &id
	}
}

func WithTaskWorkDate(d time.Time) TaskOption {
	return func(t *domain.TaskRecord) {
		t.WorkDate = domain.DateOnly(d)
	}
}

func NewTestTask(userID, description string, opts ...TaskOption) *domain.TaskRecord {
	now := time.Now().UTC()
	t := &domain.TaskRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		WorkDate:    domain.DateOnly(now),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Attendance options
type IntervalOption func(*domain.AttendanceInterval)

func WithClockOut(t time.Time) IntervalOption {
	return func(a *domain.AttendanceInterval) {
		a.ClockOut = &t
	}
}

func WithTaskID(id string) IntervalOption {
	return func(a *domain.AttendanceInterval) {
		a.TaskID = &id
	}
}

func NewTestInterval(userID string, clockIn time.Time, opts ...IntervalOption) *domain.AttendanceInterval {
	a := &domain.AttendanceInterval{
		ID:        uuid.New().String(),
		UserID:    userID,
		WorkDate:  domain.DateOnly(clockIn),
		ClockIn:   clockIn,
		CreatedAt: clockIn,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Leave options
type LeaveOption func(*domain.LeaveRequest)

func WithStatus(s domain.LeaveStatus) LeaveOption {
	return func(l *domain.LeaveRequest) {
		l.Status = s
	}
}

func WithReason(reason string) LeaveOption {
	return func(l *domain.LeaveRequest) {
		l.Reason = reason
	}
}

func NewTestLeave(userID string, start, end time.Time, opts ...LeaveOption) *domain.LeaveRequest {
	l := &domain.LeaveRequest{
		ID:          uuid.New().String(),
		UserID:      userID,
		StartDate:   domain.DateOnly(start),
		EndDate:     domain.DateOnly(end),
		Status:      domain.LeavePending,
		SubmittedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
