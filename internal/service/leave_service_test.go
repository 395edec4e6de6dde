package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/repository"
	"github.com/nalvarenga/punchcard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaveTestEnv(t *testing.T) (*sql.DB, LeaveService, domain.Actor, domain.Actor, domain.Actor) {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	userRepo := repository.NewSQLiteUserRepo(database)
	leaveRepo := repository.NewSQLiteLeaveRepo(database)

	employee := testutil.NewTestUser("")
	manager := testutil.NewTestUser("", testutil.WithRole(domain.RoleManager))
	admin := testutil.NewTestUser("", testutil.WithRole(domain.RoleAdmin))
	require.NoError(t, userRepo.Create(ctx, employee))
	require.NoError(t, userRepo.Create(ctx, manager))
	require.NoError(t, userRepo.Create(ctx, admin))

	svc := NewLeaveService(leaveRepo)
	return database,
		svc,
		domain.Actor{UserID: employee.ID, Role: domain.RoleEmployee},
		domain.Actor{UserID: manager.ID, Role: domain.RoleManager},
		domain.Actor{UserID: admin.ID, Role: domain.RoleAdmin}
}

func TestLeaveSubmit(t *testing.T) {
	_, svc, employee, _, _ := leaveTestEnv(t)
	ctx := context.Background()

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	request, err := svc.Submit(ctx, employee, start, end, "Winter break")
	require.NoError(t, err)
	assert.Equal(t, domain.LeavePending, request.Status)
	assert.Nil(t, request.ReviewedBy)

	_, err = svc.Submit(ctx, employee, end, start, "Backwards")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Submit(ctx, employee, start, end, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// A manager approves a pending request; a later reject on the same request
// hits the terminal state.
func TestLeaveApproveThenReject(t *testing.T) {
	_, svc, employee, manager, _ := leaveTestEnv(t)
	ctx := context.Background()

	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	request, err := svc.Submit(ctx, employee, start, end, "Trip")
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, manager, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, manager.UserID, *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)

	_, err = svc.Reject(ctx, manager, request.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLeaveReview_Gates(t *testing.T) {
	_, svc, employee, manager, _ := leaveTestEnv(t)
	ctx := context.Background()

	start := time.Now().UTC()
	request, err := svc.Submit(ctx, employee, start, start, "One day")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, employee, request.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Approve(ctx, manager, "no-such-request")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	rejected, err := svc.Reject(ctx, manager, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveRejected, rejected.Status)
}

// Once terminal, no approve, reject, edit, or delete succeeds.
func TestLeaveTerminalStates(t *testing.T) {
	_, svc, employee, manager, admin := leaveTestEnv(t)
	ctx := context.Background()

	start := time.Now().UTC()
	request, err := svc.Submit(ctx, employee, start, start, "Terminal")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, admin, request.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, manager, request.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = svc.Reject(ctx, manager, request.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = svc.Edit(ctx, admin, request.ID, start, start, "Changed")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, svc.Delete(ctx, admin, request.ID), domain.ErrConflict)
}

func TestLeaveEdit(t *testing.T) {
	_, svc, employee, manager, admin := leaveTestEnv(t)
	ctx := context.Background()

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	request, err := svc.Submit(ctx, employee, start, start, "Original")
	require.NoError(t, err)

	_, err = svc.Edit(ctx, manager, request.ID, start, start, "Nope")
	assert.ErrorIs(t, err, domain.ErrForbidden, "editing is admin-only")

	_, err = svc.Edit(ctx, admin, request.ID, start.AddDate(0, 0, 3), start, "Bad range")
	assert.ErrorIs(t, err, domain.ErrValidation)

	edited, err := svc.Edit(ctx, admin, request.ID, start, start.AddDate(0, 0, 2), "Extended")
	require.NoError(t, err)
	assert.Equal(t, "Extended", edited.Reason)
	assert.Equal(t, domain.LeavePending, edited.Status, "editing never changes state")
	assert.True(t, edited.EndDate.Equal(start.AddDate(0, 0, 2)))
}

func TestLeaveDelete(t *testing.T) {
	_, svc, employee, manager, admin := leaveTestEnv(t)
	ctx := context.Background()

	start := time.Now().UTC()
	request, err := svc.Submit(ctx, employee, start, start, "Disposable")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, manager, request.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, admin, request.ID))
	assert.ErrorIs(t, svc.Delete(ctx, admin, request.ID), repository.ErrNotFound)
}

func TestLeaveListing(t *testing.T) {
	_, svc, employee, manager, _ := leaveTestEnv(t)
	ctx := context.Background()

	start := time.Now().UTC()
	first, err := svc.Submit(ctx, employee, start, start, "First")
	require.NoError(t, err)
	second, err := svc.Submit(ctx, employee, start, start.AddDate(0, 0, 1), "Second")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, manager, first.ID)
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, employee)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = svc.ListPending(ctx, employee)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	pending, err := svc.ListPending(ctx, manager)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].Request.ID)
}
