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

// taskTestSetup creates a user that task rows can belong to.
func taskTestSetup(t *testing.T) (*SQLiteTaskRepo, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	userRepo := NewSQLiteUserRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)

	u := testutil.NewTestUser("")
	require.NoError(t, userRepo.Create(ctx, u))

	return taskRepo, u.ID
}

func TestTaskRepo_CreateAndGetByID(t *testing.T) {
	repo, userID := taskTestSetup(t)
	ctx := context.Background()

	task := testutil.NewTestTask(userID, "Fix login flow", testutil.WithHours(3.5))
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fix login flow", fetched.Description)
	require.NotNil(t, fetched.HoursSpent)
	assert.Equal(t, 3.5, *fetched.HoursSpent)
	assert.Nil(t, fetched.TemplateID)
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := taskTestSetup(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepo_NilHoursRoundTrip(t *testing.T) {
	repo, userID := taskTestSetup(t)
	ctx := context.Background()

	task := testutil.NewTestTask(userID, "Unestimated work")
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.HoursSpent)
	assert.Equal(t, 0.0, fetched.Hours())
}

func TestTaskRepo_Update(t *testing.T) {
	repo, userID := taskTestSetup(t)
	ctx := context.Background()

	task := testutil.NewTestTask(userID, "Draft report")
	require.NoError(t, repo.Create(ctx, task))

	task.Description = "Draft quarterly report"
	_, err := task.SetHours(2)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft quarterly report", fetched.Description)
	assert.Equal(t, 2.0, fetched.Hours())
}

func TestTaskRepo_Delete(t *testing.T) {
	repo, userID := taskTestSetup(t)
	ctx := context.Background()

	task := testutil.NewTestTask(userID, "Throwaway")
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, task.ID), ErrNotFound)
}

func TestTaskRepo_ListByUserAndDate(t *testing.T) {
	repo, userID := taskTestSetup(t)
	ctx := context.Background()

	today := domain.DateOnly(time.Now().UTC())
	yesterday := today.AddDate(0, 0, -1)

	todayTask := testutil.NewTestTask(userID, "Today's work")
	oldTask := testutil.NewTestTask(userID, "Yesterday's work", testutil.WithTaskWorkDate(yesterday))
	require.NoError(t, repo.Create(ctx, todayTask))
	require.NoError(t, repo.Create(ctx, oldTask))

	list, err := repo.ListByUserAndDate(ctx, userID, today)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, todayTask.ID, list[0].ID)
}

func TestTaskRepo_ListByUserRange_OpenEnded(t *testing.T) {
	repo, userID := taskTestSetup(t)
	ctx := context.Background()

	today := domain.DateOnly(time.Now().UTC())
	lastWeek := today.AddDate(0, 0, -7)

	recent := testutil.NewTestTask(userID, "Recent")
	old := testutil.NewTestTask(userID, "Old", testutil.WithTaskWorkDate(lastWeek))
	require.NoError(t, repo.Create(ctx, recent))
	require.NoError(t, repo.Create(ctx, old))

	// No bounds: everything, newest work date first.
	all, err := repo.ListByUserRange(ctx, userID, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, recent.ID, all[0].ID)

	// Lower bound only.
	from := today.AddDate(0, 0, -3)
	bounded, err := repo.ListByUserRange(ctx, userID, &from, nil)
	require.NoError(t, err)
	require.Len(t, bounded, 1)
	assert.Equal(t, recent.ID, bounded[0].ID)
}

func TestTaskRepo_ListTeamByDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	userRepo := NewSQLiteUserRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)

	alice := testutil.NewTestUser("alice")
	bob := testutil.NewTestUser("bob")
	require.NoError(t, userRepo.Create(ctx, alice))
	require.NoError(t, userRepo.Create(ctx, bob))

	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(bob.ID, "Bob's task")))
	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(alice.ID, "Alice's task")))

	today := domain.DateOnly(time.Now().UTC())
	rows, err := taskRepo.ListTeamByDate(ctx, today)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Ordered by username.
	assert.Equal(t, "alice", rows[0].Username)
	assert.Equal(t, "bob", rows[1].Username)
}

func TestTaskRepo_ListRange_FilterByUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	userRepo := NewSQLiteUserRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)

	alice := testutil.NewTestUser("alice")
	bob := testutil.NewTestUser("bob")
	require.NoError(t, userRepo.Create(ctx, alice))
	require.NoError(t, userRepo.Create(ctx, bob))

	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(alice.ID, "Alice only")))
	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(bob.ID, "Bob only")))

	today := domain.DateOnly(time.Now().UTC())
	rows, err := taskRepo.ListRange(ctx, today, today, &alice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)

	all, err := taskRepo.ListRange(ctx, today, today, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
