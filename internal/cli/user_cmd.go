package cli

import (
	"context"
	"fmt"

	"github.com/nalvarenga/punchcard/internal/cli/formatter"
	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage portal users",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserRoleCmd(app),
		newUserListCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var roleStr string

	cmd := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Register a user (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(roleStr)
			if err != nil {
				return err
			}
			user, err := app.Users.Create(context.Background(), app.Actor, args[0], role)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s %s %s\n",
				formatter.TruncID(user.ID), user.Username, formatter.RoleBadge(user.Role))
			return nil
		},
	}

	cmd.Flags().StringVar(&roleStr, "role", "employee", "Role: employee, manager, or admin")
	return cmd
}

func newUserRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "role USERNAME ROLE",
		Short: "Change a user's role (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[1])
			if err != nil {
				return err
			}
			user, err := app.Users.SetRole(context.Background(), app.Actor, args[0], role)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", user.Username, formatter.RoleBadge(user.Role))
			return nil
		},
	}
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(context.Background())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("No users yet.")
				return nil
			}

			headers := []string{"ID", "USERNAME", "ROLE", "SINCE"}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{
					formatter.TruncID(u.ID),
					u.Username,
					formatter.RoleBadge(u.Role),
					formatter.HumanDate(u.CreatedAt),
				})
			}
			fmt.Print(formatter.RenderBox("Users", formatter.RenderTable(headers, rows)))
			return nil
		},
	}
}
