package domain

import "time"

// AttendanceInterval is one clock-in/clock-out pair for a user. An interval
// with a nil ClockOut is "open"; a user has at most one open interval at any
// time. TaskID is a weak reference by identifier: the task may be deleted out
// of band and lookups must tolerate that.
type AttendanceInterval struct {
	ID        string
	UserID    string
	WorkDate  time.Time // date-only, UTC
	ClockIn   time.Time
	ClockOut  *time.Time
	TaskID    *string
	CreatedAt time.Time
}

// Open reports whether the interval has not been clocked out yet.
func (a *AttendanceInterval) Open() bool {
	return a.ClockOut == nil
}

// Close stamps the clock-out time and returns the worked hours for the
// interval. A clock-out earlier than the clock-in is stored as the clock-in
// time itself, so closed intervals never have a negative span.
func (a *AttendanceInterval) Close(now time.Time) float64 {
	if now.Before(a.ClockIn) {
		now = a.ClockIn
	}
	a.ClockOut = &now
	return a.WorkedHours()
}

// WorkedHours returns the elapsed hours between clock-in and clock-out,
// clamped at zero and rounded to two decimals. Open intervals report zero.
func (a *AttendanceInterval) WorkedHours() float64 {
	if a.ClockOut == nil {
		return 0
	}
	h := a.ClockOut.Sub(a.ClockIn).Hours()
	if h < 0 {
		h = 0
	}
	return RoundHours(h)
}

// DateOnly truncates t to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
