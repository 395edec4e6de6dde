package cli

import (
	"context"
	"errors"
	"fmt"
	"os/user"

	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/repository"
	"github.com/nalvarenga/punchcard/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands,
// plus the resolved acting user.
type App struct {
	Attendance service.AttendanceService
	Tasks      service.TaskService
	Leave      service.LeaveService
	Templates  service.TemplateService
	Users      service.UserService

	// DefaultUsername is the acting username when --as is absent, usually
	// taken from the environment.
	DefaultUsername string

	// Actor is the caller identity every command runs as, resolved before
	// the command tree executes.
	Actor domain.Actor

	// IsInteractive reports whether stdin is attached to a terminal; forms
	// and the live board are only offered when it is.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// resolveActor maps a username to the Actor the commands run as. On an empty
// database any caller acts as admin so the first "user add" can run.
func (a *App) resolveActor(ctx context.Context, username string) error {
	if username == "" {
		username = a.DefaultUsername
	}
	if username == "" {
		if u, err := user.Current(); err == nil {
			username = u.Username
		}
	}

	registered, err := a.Users.GetByUsername(ctx, username)
	if err == nil {
		a.Actor = domain.Actor{UserID: registered.ID, Role: registered.Role}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	all, listErr := a.Users.List(ctx)
	if listErr != nil {
		return listErr
	}
	if len(all) == 0 {
		a.Actor = domain.Actor{Role: domain.RoleAdmin}
		return nil
	}
	return fmt.Errorf("unknown user %q, set PUNCHCARD_USER or pass --as", username)
}

// NewRootCmd creates the top-level "punchcard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var asUser string

	root := &cobra.Command{
		Use:   "punchcard",
		Short: "Attendance, task hours, and leave tracking",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.resolveActor(cmd.Context(), asUser)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&asUser, "as", "", "Act as this username")

	root.AddCommand(
		newClockCmd(app),
		newTaskCmd(app),
		newTemplateCmd(app),
		newLeaveCmd(app),
		newUserCmd(app),
	)

	return root
}
