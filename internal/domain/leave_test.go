package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewTime = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func TestValidateLeaveDates(t *testing.T) {
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	jan12 := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateLeaveDates(jan10, jan12))
	assert.NoError(t, ValidateLeaveDates(jan10, jan10), "single-day leave is valid")

	err := ValidateLeaveDates(jan12, jan10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApprove_Pending(t *testing.T) {
	lr := &LeaveRequest{Status: LeavePending}
	require.NoError(t, lr.Approve("mgr1", reviewTime))
	assert.Equal(t, LeaveApproved, lr.Status)
	require.NotNil(t, lr.ReviewedBy)
	assert.Equal(t, "mgr1", *lr.ReviewedBy)
	require.NotNil(t, lr.ReviewedAt)
	assert.Equal(t, reviewTime, *lr.ReviewedAt)
}

func TestReject_Pending(t *testing.T) {
	lr := &LeaveRequest{Status: LeavePending}
	require.NoError(t, lr.Reject("mgr1", reviewTime))
	assert.Equal(t, LeaveRejected, lr.Status)
}

func TestReview_TerminalStates(t *testing.T) {
	for _, status := range []LeaveStatus{LeaveApproved, LeaveRejected} {
		lr := &LeaveRequest{Status: status}

		err := lr.Approve("mgr2", reviewTime)
		require.Error(t, err, "approve on %s", status)
		assert.ErrorIs(t, err, ErrConflict)

		err = lr.Reject("mgr2", reviewTime)
		require.Error(t, err, "reject on %s", status)
		assert.ErrorIs(t, err, ErrConflict)

		assert.Equal(t, status, lr.Status, "terminal state must not change")
		assert.Nil(t, lr.ReviewedBy, "reviewer must not be stamped on failure")
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"Admin", RoleAdmin},
		{"admin", RoleAdmin},
		{"MANAGER", RoleManager},
		{" employee ", RoleEmployee},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		require.NoError(t, err, "input=%q", tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseRole("intern")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoleCapabilities(t *testing.T) {
	assert.False(t, RoleEmployee.CanReview())
	assert.True(t, RoleManager.CanReview())
	assert.True(t, RoleAdmin.CanReview())

	assert.False(t, RoleEmployee.IsAdmin())
	assert.False(t, RoleManager.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
}
