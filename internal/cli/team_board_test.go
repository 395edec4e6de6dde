package cli

import (
	"context"
	"testing"
	"time"

	"github.com/nalvarenga/punchcard/internal/db"
	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/repository"
	"github.com/nalvarenga/punchcard/internal/service"
	"github.com/nalvarenga/punchcard/internal/teatest"
	"github.com/nalvarenga/punchcard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boardTestEnv struct {
	app        *App
	users      *repository.SQLiteUserRepo
	attendance *repository.SQLiteAttendanceRepo
}

func newBoardTestEnv(t *testing.T) *boardTestEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	users := repository.NewSQLiteUserRepo(database)
	attendance := repository.NewSQLiteAttendanceRepo(database)

	manager := testutil.NewTestUser("margaret", testutil.WithRole(domain.RoleManager))
	require.NoError(t, users.Create(ctx, manager))
	employee := testutil.NewTestUser("alice")
	require.NoError(t, users.Create(ctx, employee))

	interval := testutil.NewTestInterval(employee.ID, time.Now().UTC())
	require.NoError(t, attendance.Create(ctx, interval))

	app := &App{
		Attendance: service.NewAttendanceService(attendance, db.NewSQLiteUnitOfWork(database)),
		Actor:      domain.Actor{UserID: manager.ID, Role: domain.RoleManager},
	}
	return &boardTestEnv{app: app, users: users, attendance: attendance}
}

func TestBoard_ShowsTodaysOpenIntervals(t *testing.T) {
	env := newBoardTestEnv(t)

	d := teatest.New(t, newBoardModel(env.app))
	d.DrainInit()

	view := d.View()
	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "● in")
}

func TestBoard_RefreshPicksUpNewIntervals(t *testing.T) {
	env := newBoardTestEnv(t)
	ctx := context.Background()

	d := teatest.New(t, newBoardModel(env.app))
	d.DrainInit()
	assert.NotContains(t, d.View(), "bernard")

	late := testutil.NewTestUser("bernard")
	require.NoError(t, env.users.Create(ctx, late))
	require.NoError(t, env.attendance.Create(ctx, testutil.NewTestInterval(late.ID, time.Now().UTC())))

	d.PressKey('r')
	assert.Contains(t, d.View(), "bernard")
}

func TestBoard_QuitKeys(t *testing.T) {
	env := newBoardTestEnv(t)

	d := teatest.New(t, newBoardModel(env.app))
	d.DrainInit()
	d.PressKey('q')
	assert.True(t, d.Quitting)

	d2 := teatest.New(t, newBoardModel(env.app))
	d2.DrainInit()
	d2.PressCtrlC()
	assert.True(t, d2.Quitting)
}

func TestBoard_ShowsErrorForNonReviewer(t *testing.T) {
	env := newBoardTestEnv(t)
	env.app.Actor.Role = domain.RoleEmployee

	d := teatest.New(t, newBoardModel(env.app))
	d.DrainInit()

	assert.Contains(t, d.View(), "team view requires manager or admin")
}
