package repository

import (
	"context"
	"testing"

	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("ana", testutil.WithRole(domain.RoleManager))
	require.NoError(t, repo.Create(ctx, u))

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", fetched.Username)
	assert.Equal(t, domain.RoleManager, fetched.Role)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("bruno")
	require.NoError(t, repo.Create(ctx, u))

	fetched, err := repo.GetByUsername(ctx, "bruno")
	require.NoError(t, err)
	assert.Equal(t, u.ID, fetched.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_List_OrderedByUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("zoe")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("alex")))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alex", users[0].Username)
	assert.Equal(t, "zoe", users[1].Username)
}

func TestUserRepo_UpdateRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("dimitri")
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.UpdateRole(ctx, u.ID, domain.RoleManager))

	fetched, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, fetched.Role)

	assert.ErrorIs(t, repo.UpdateRole(ctx, "nonexistent", domain.RoleAdmin), ErrNotFound)
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("carla")))
	err := repo.Create(ctx, testutil.NewTestUser("carla"))
	assert.Error(t, err, "username is unique")
}
