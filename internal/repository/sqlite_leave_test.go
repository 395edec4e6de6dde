package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leaveTestSetup creates a requester and a reviewer for leave tests.
func leaveTestSetup(t *testing.T) (*SQLiteLeaveRepo, *domain.User, *domain.User) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	userRepo := NewSQLiteUserRepo(db)
	leaveRepo := NewSQLiteLeaveRepo(db)

	requester := testutil.NewTestUser("dana")
	reviewer := testutil.NewTestUser("mara", testutil.WithRole(domain.RoleManager))
	require.NoError(t, userRepo.Create(ctx, requester))
	require.NoError(t, userRepo.Create(ctx, reviewer))

	return leaveRepo, requester, reviewer
}

func TestLeaveRepo_CreateAndGetByID(t *testing.T) {
	repo, requester, _ := leaveTestSetup(t)
	ctx := context.Background()

	start := time.Now().UTC()
	lr := testutil.NewTestLeave(requester.ID, start, start.AddDate(0, 0, 4),
		testutil.WithReason("Family trip"))
	require.NoError(t, repo.Create(ctx, lr))

	fetched, err := repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Family trip", fetched.Reason)
	assert.Equal(t, domain.LeavePending, fetched.Status)
	assert.Nil(t, fetched.ReviewedBy)
	assert.Nil(t, fetched.ReviewedAt)
}

func TestLeaveRepo_GetByID_NotFound(t *testing.T) {
	repo, _, _ := leaveTestSetup(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaveRepo_Update_ReviewRoundTrip(t *testing.T) {
	repo, requester, reviewer := leaveTestSetup(t)
	ctx := context.Background()

	start := time.Now().UTC()
	lr := testutil.NewTestLeave(requester.ID, start, start)
	require.NoError(t, repo.Create(ctx, lr))

	require.NoError(t, lr.Approve(reviewer.ID, time.Now().UTC()))
	require.NoError(t, repo.Update(ctx, lr))

	fetched, err := repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, fetched.Status)
	require.NotNil(t, fetched.ReviewedBy)
	assert.Equal(t, reviewer.ID, *fetched.ReviewedBy)
	assert.NotNil(t, fetched.ReviewedAt)
}

func TestLeaveRepo_Review_StaleDecisionConflicts(t *testing.T) {
	repo, requester, reviewer := leaveTestSetup(t)
	ctx := context.Background()

	start := time.Now().UTC()
	lr := testutil.NewTestLeave(requester.ID, start, start)
	require.NoError(t, repo.Create(ctx, lr))

	// Two reviewers read the same pending request.
	first, err := repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)

	require.NoError(t, first.Approve(reviewer.ID, time.Now().UTC()))
	require.NoError(t, repo.Review(ctx, first))

	// The second decision passed the in-memory guard on its stale copy but
	// must not overwrite the terminal state in storage.
	require.NoError(t, second.Reject(reviewer.ID, time.Now().UTC()))
	assert.ErrorIs(t, repo.Review(ctx, second), domain.ErrConflict)

	stored, err := repo.GetByID(ctx, lr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, stored.Status)
}

func TestLeaveRepo_Review_NotFound(t *testing.T) {
	repo, _, reviewer := leaveTestSetup(t)

	ghost := testutil.NewTestLeave("no-such-user", time.Now().UTC(), time.Now().UTC())
	require.NoError(t, ghost.Approve(reviewer.ID, time.Now().UTC()))
	assert.ErrorIs(t, repo.Review(context.Background(), ghost), ErrNotFound)
}

func TestLeaveRepo_Delete(t *testing.T) {
	repo, requester, _ := leaveTestSetup(t)
	ctx := context.Background()

	start := time.Now().UTC()
	lr := testutil.NewTestLeave(requester.ID, start, start)
	require.NoError(t, repo.Create(ctx, lr))
	require.NoError(t, repo.Delete(ctx, lr.ID))

	_, err := repo.GetByID(ctx, lr.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, lr.ID), ErrNotFound)
}

func TestLeaveRepo_ListByUser_NewestFirst(t *testing.T) {
	repo, requester, _ := leaveTestSetup(t)
	ctx := context.Background()

	start := time.Now().UTC()
	older := testutil.NewTestLeave(requester.ID, start, start)
	older.SubmittedAt = start.Add(-48 * time.Hour)
	newer := testutil.NewTestLeave(requester.ID, start, start)
	newer.SubmittedAt = start.Add(-1 * time.Hour)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	rows, err := repo.ListByUser(ctx, requester.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].Request.ID)
	assert.Equal(t, "dana", rows[0].Username)
	assert.Nil(t, rows[0].ReviewerUsername)
}

func TestLeaveRepo_ListPending_OldestFirstWithReviewer(t *testing.T) {
	repo, requester, reviewer := leaveTestSetup(t)
	ctx := context.Background()

	start := time.Now().UTC()
	first := testutil.NewTestLeave(requester.ID, start, start)
	first.SubmittedAt = start.Add(-72 * time.Hour)
	second := testutil.NewTestLeave(requester.ID, start, start)
	second.SubmittedAt = start.Add(-2 * time.Hour)
	decided := testutil.NewTestLeave(requester.ID, start, start)
	require.NoError(t, decided.Reject(reviewer.ID, time.Now().UTC()))

	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, decided))

	rows, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2, "decided requests drop off the review queue")
	assert.Equal(t, first.ID, rows[0].Request.ID, "oldest submission first")
	assert.Equal(t, second.ID, rows[1].Request.ID)
}

func TestLeaveRepo_ListByUser_ResolvesReviewerUsername(t *testing.T) {
	repo, requester, reviewer := leaveTestSetup(t)
	ctx := context.Background()

	start := time.Now().UTC()
	lr := testutil.NewTestLeave(requester.ID, start, start)
	require.NoError(t, lr.Approve(reviewer.ID, time.Now().UTC()))
	require.NoError(t, repo.Create(ctx, lr))

	rows, err := repo.ListByUser(ctx, requester.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].ReviewerUsername)
	assert.Equal(t, "mara", *rows[0].ReviewerUsername)
}
