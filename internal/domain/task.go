package domain

import (
	"fmt"
	"time"
)

// TaskRecord is one logged unit of work for a user on a given day.
// HoursSpent is nil until hours are first recorded. TemplateID is set only
// for template-derived tasks and back-references the template whose
// worked-hours aggregate this record feeds.
type TaskRecord struct {
	ID          string
	UserID      string
	WorkDate    time.Time // date-only, UTC
	Description string
	HoursSpent  *float64
	TemplateID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Hours returns the recorded hours, treating "not yet set" as zero.
func (t *TaskRecord) Hours() float64 {
	if t.HoursSpent == nil {
		return 0
	}
	return *t.HoursSpent
}

// SetHours replaces the recorded hours and returns the signed delta against
// the previous value. Negative input is rejected.
func (t *TaskRecord) SetHours(newHours float64) (delta float64, err error) {
	if newHours < 0 {
		return 0, fmt.Errorf("hours must be >= 0: %w", ErrValidation)
	}
	newHours = RoundHours(newHours)
	delta = RoundHours(newHours - t.Hours())
	t.HoursSpent = &newHours
	return delta, nil
}

// AddHours accumulates a positive duration onto the recorded hours, as done
// when an attendance interval closes against this task.
func (t *TaskRecord) AddHours(hours float64) {
	total := RoundHours(t.Hours() + hours)
	t.HoursSpent = &total
}

// OwnedBy reports whether the task belongs to the given user.
func (t *TaskRecord) OwnedBy(userID string) bool {
	return t.UserID == userID
}

// TemplateDerived reports whether this task was instantiated from a template.
func (t *TaskRecord) TemplateDerived() bool {
	return t.TemplateID != nil
}
