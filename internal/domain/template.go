package domain

import "time"

// TaskTemplate is a reusable task definition. WorkedHours is a derived
// aggregate: the running sum of HoursSpent over tasks instantiated from this
// template, maintained by signed deltas and floored at zero. Templates are
// soft-deleted via Active.
type TaskTemplate struct {
	ID           string
	Description  string
	DefaultHours float64
	WorkedHours  float64
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
