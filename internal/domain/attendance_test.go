package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClockIn = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func TestOpen(t *testing.T) {
	a := &AttendanceInterval{ClockIn: testClockIn}
	assert.True(t, a.Open())

	out := testClockIn.Add(time.Hour)
	a.ClockOut = &out
	assert.False(t, a.Open())
}

func TestClose_HalfHour(t *testing.T) {
	a := &AttendanceInterval{ClockIn: testClockIn}
	hours := a.Close(testClockIn.Add(30 * time.Minute))
	assert.InDelta(t, 0.5, hours, 0.001)
	require.NotNil(t, a.ClockOut)
	assert.Equal(t, testClockIn.Add(30*time.Minute), *a.ClockOut)
}

func TestClose_RoundsToTwoDecimals(t *testing.T) {
	a := &AttendanceInterval{ClockIn: testClockIn}
	// 10 minutes = 0.1666... hours.
	hours := a.Close(testClockIn.Add(10 * time.Minute))
	assert.InDelta(t, 0.17, hours, 0.001)
}

func TestClose_BeforeClockIn_ClampsToZero(t *testing.T) {
	a := &AttendanceInterval{ClockIn: testClockIn}
	hours := a.Close(testClockIn.Add(-time.Hour))
	assert.Zero(t, hours)
	// Stored clock-out must never precede clock-in.
	require.NotNil(t, a.ClockOut)
	assert.False(t, a.ClockOut.Before(a.ClockIn))
}

func TestWorkedHours_OpenInterval(t *testing.T) {
	a := &AttendanceInterval{ClockIn: testClockIn}
	assert.Zero(t, a.WorkedHours())
}

func TestDateOnly(t *testing.T) {
	d := DateOnly(time.Date(2025, 6, 15, 23, 45, 12, 999, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), d)
}
