package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/nalvarenga/punchcard/internal/cli/formatter"
	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/nalvarenga/punchcard/internal/repository"
	"github.com/nalvarenga/punchcard/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Log and manage task hours",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskAssignCmd(app),
		newTaskHoursCmd(app),
		newTaskEditCmd(app),
		newTaskRemoveCmd(app),
		newTaskListCmd(app),
		newTaskTeamCmd(app),
		newTaskAllCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		forUser string
		hours   float64
		dateStr string
	)

	cmd := &cobra.Command{
		Use:   "add DESCRIPTION",
		Short: "Log a task (for someone else with --for)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			day, err := parseDateOr(dateStr, time.Now())
			if err != nil {
				return err
			}
			var hoursRef *float64
			if cmd.Flags().Changed("hours") {
				hoursRef = &hours
			}

			var task *domain.TaskRecord
			if forUser != "" {
				user, err := app.Users.GetByUsername(ctx, forUser)
				if err != nil {
					return fmt.Errorf("look up user %q: %w", forUser, err)
				}
				task, err = app.Tasks.AdminCreate(ctx, app.Actor, user.ID, day, args[0], hoursRef)
				if err != nil {
					return err
				}
			} else {
				task, err = app.Tasks.CreateOwn(ctx, app.Actor, day, args[0], hoursRef)
				if err != nil {
					return err
				}
			}

			fmt.Printf("Logged %s %q (%s)\n",
				formatter.TruncID(task.ID), task.Description, formatter.FormatHours(task.Hours()))
			return nil
		},
	}

	cmd.Flags().StringVar(&forUser, "for", "", "Username to log the task for (admin only)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours spent")
	addDateFlag(cmd.Flags(), &dateStr)
	return cmd
}

func newTaskAssignCmd(app *App) *cobra.Command {
	var (
		username   string
		templateID string
		hours      float64
		dateStr    string
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a templated task to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			day, err := parseDateOr(dateStr, time.Now())
			if err != nil {
				return err
			}
			user, err := app.Users.GetByUsername(ctx, username)
			if err != nil {
				return fmt.Errorf("look up user %q: %w", username, err)
			}
			var hoursRef *float64
			if cmd.Flags().Changed("hours") {
				hoursRef = &hours
			}

			task, err := app.Tasks.CreateFromTemplate(ctx, app.Actor, templateID, user.ID, day, hoursRef)
			if err != nil {
				return err
			}
			fmt.Printf("Assigned %s %q to %s (%s)\n",
				formatter.TruncID(task.ID), task.Description, username, formatter.FormatHours(task.Hours()))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Username to assign the task to")
	cmd.Flags().StringVar(&templateID, "template", "", "Template ID to instantiate")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours override (defaults to the template's hours)")
	addDateFlag(cmd.Flags(), &dateStr)
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("template")
	return cmd
}

func newTaskHoursCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hours ID HOURS",
		Short: "Set the hours recorded on a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := parseHours(args[1])
			if err != nil {
				return err
			}
			task, err := app.Tasks.SetHours(context.Background(), app.Actor, args[0], hours)
			if err != nil {
				return err
			}
			fmt.Printf("%q now at %s\n", task.Description, formatter.FormatHours(task.Hours()))
			return nil
		},
	}
}

func newTaskEditCmd(app *App) *cobra.Command {
	var (
		description string
		hours       float64
		dateStr     string
	)

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a task's fields (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var edit service.TaskEdit
			if cmd.Flags().Changed("description") {
				edit.Description = &description
			}
			if cmd.Flags().Changed("hours") {
				edit.Hours = &hours
			}
			if dateStr != "" {
				day, err := parseDate(dateStr)
				if err != nil {
					return err
				}
				edit.WorkDate = &day
			}

			task, err := app.Tasks.AdminEdit(context.Background(), app.Actor, args[0], edit)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s %q (%s)\n",
				formatter.TruncID(task.ID), task.Description, formatter.FormatHours(task.Hours()))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().Float64Var(&hours, "hours", 0, "New hours")
	addDateFlag(cmd.Flags(), &dateStr)
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a task (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.AdminDelete(context.Background(), app.Actor, args[0]); err != nil {
				return err
			}
			fmt.Println("Task removed.")
			return nil
		},
	}
}

func newTaskListCmd(app *App) *cobra.Command {
	var dateStr, fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List my tasks for a day or range",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var tasks []*domain.TaskRecord
			var err error
			if fromStr != "" || toStr != "" {
				from, to, rerr := parseRange(fromStr, toStr)
				if rerr != nil {
					return rerr
				}
				tasks, err = app.Tasks.ListMineRange(ctx, app.Actor, &from, &to)
			} else {
				day, derr := parseDateOr(dateStr, time.Now())
				if derr != nil {
					return derr
				}
				tasks, err = app.Tasks.ListMineByDate(ctx, app.Actor, day)
			}
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}

			headers := []string{"ID", "DATE", "DESCRIPTION", "HOURS", ""}
			rows := make([][]string, 0, len(tasks))
			var total float64
			for _, task := range tasks {
				rows = append(rows, []string{
					formatter.TruncID(task.ID),
					formatter.HumanDate(task.WorkDate),
					formatter.Truncate(task.Description, 48),
					formatter.FormatHours(task.Hours()),
					templateMark(task),
				})
				total += task.Hours()
			}
			body := formatter.RenderTable(headers, rows)
			body += "\n" + formatter.Dim(fmt.Sprintf("Total: %s across %d tasks", formatter.FormatHours(total), len(tasks)))
			fmt.Print(formatter.RenderBox("Tasks", body))
			return nil
		},
	}

	addDateFlag(cmd.Flags(), &dateStr)
	addRangeFlags(cmd.Flags(), &fromStr, &toStr)
	return cmd
}

func newTaskTeamCmd(app *App) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "team",
		Short: "List the team's tasks for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDateOr(dateStr, time.Now())
			if err != nil {
				return err
			}
			rows, err := app.Tasks.ListTeamByDate(context.Background(), app.Actor, day)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No tasks found for that day.")
				return nil
			}
			fmt.Print(formatter.RenderBox("Team tasks", renderTeamTasks(rows)))
			return nil
		},
	}

	addDateFlag(cmd.Flags(), &dateStr)
	return cmd
}

func newTaskAllCmd(app *App) *cobra.Command {
	var fromStr, toStr, username string

	cmd := &cobra.Command{
		Use:   "all",
		Short: "List tasks across the team for a range",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			from, to, err := parseRange(fromStr, toStr)
			if err != nil {
				return err
			}

			var userRef *string
			if username != "" {
				user, err := app.Users.GetByUsername(ctx, username)
				if err != nil {
					return fmt.Errorf("look up user %q: %w", username, err)
				}
				userRef = &user.ID
			}

			rows, err := app.Tasks.ListRange(ctx, app.Actor, from, to, userRef)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No tasks found in range.")
				return nil
			}
			fmt.Print(formatter.RenderBox("All tasks", renderTeamTasks(rows)))
			return nil
		},
	}

	addRangeFlags(cmd.Flags(), &fromStr, &toStr)
	cmd.Flags().StringVar(&username, "user", "", "Restrict to one username")
	return cmd
}

func renderTeamTasks(rows []repository.TeamTaskRow) string {
	headers := []string{"ID", "USER", "DATE", "DESCRIPTION", "HOURS", ""}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			formatter.TruncID(r.Task.ID),
			r.Username,
			formatter.HumanDate(r.Task.WorkDate),
			formatter.Truncate(r.Task.Description, 40),
			formatter.FormatHours(r.Task.Hours()),
			templateMark(&r.Task),
		})
	}
	return formatter.RenderTable(headers, table)
}

func templateMark(t *domain.TaskRecord) string {
	if t.TemplateDerived() {
		return formatter.Dim("tpl")
	}
	return ""
}
