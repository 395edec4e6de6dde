package service

import (
	"context"
	"testing"

	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/repository"
	"github.com/nalvarenga/punchcard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userTestEnv(t *testing.T) (UserService, domain.Actor) {
	t.Helper()
	database := testutil.NewTestDB(t)
	svc := NewUserService(repository.NewSQLiteUserRepo(database))
	admin := domain.Actor{UserID: "admin-id", Role: domain.RoleAdmin}
	return svc, admin
}

func TestUserService_CreateAndLookup(t *testing.T) {
	svc, admin := userTestEnv(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, admin, "  priya  ", domain.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "priya", u.Username)
	assert.Equal(t, domain.RoleManager, u.Role)

	fetched, err := svc.GetByUsername(ctx, "priya")
	require.NoError(t, err)
	assert.Equal(t, u.ID, fetched.ID)

	_, err = svc.Create(ctx, admin, "   ", domain.RoleEmployee)
	assert.ErrorIs(t, err, domain.ErrValidation)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserService_CreateRequiresAdmin(t *testing.T) {
	svc, _ := userTestEnv(t)
	ctx := context.Background()

	// An employee must not be able to mint accounts, least of all admin ones.
	employee := domain.Actor{UserID: "emp-id", Role: domain.RoleEmployee}
	_, err := svc.Create(ctx, employee, "mallory", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	manager := domain.Actor{UserID: "mgr-id", Role: domain.RoleManager}
	_, err = svc.Create(ctx, manager, "mallory", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	// The bootstrap actor on an empty database carries the admin role and no
	// user id; it must pass the gate so the first account can be created.
	bootstrap := domain.Actor{Role: domain.RoleAdmin}
	_, err = svc.Create(ctx, bootstrap, "first-admin", domain.RoleAdmin)
	require.NoError(t, err)
}

func TestUserService_SetRole(t *testing.T) {
	svc, admin := userTestEnv(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, admin, "omar", domain.RoleEmployee)
	require.NoError(t, err)

	promoted, err := svc.SetRole(ctx, admin, "omar", domain.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, u.ID, promoted.ID)
	assert.Equal(t, domain.RoleManager, promoted.Role)

	stored, err := svc.GetByUsername(ctx, "omar")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, stored.Role)
}

func TestUserService_SetRoleRequiresAdmin(t *testing.T) {
	svc, admin := userTestEnv(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, admin, "omar", domain.RoleEmployee)
	require.NoError(t, err)

	self := domain.Actor{UserID: u.ID, Role: domain.RoleEmployee}
	_, err = svc.SetRole(ctx, self, "omar", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := svc.GetByUsername(ctx, "omar")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, stored.Role)
}

func TestUserService_SetRoleUnknownUser(t *testing.T) {
	svc, admin := userTestEnv(t)

	_, err := svc.SetRole(context.Background(), admin, "ghost", domain.RoleManager)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
