package cli

import (
	"context"
	"fmt"

	"github.com/nalvarenga/punchcard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage reusable task templates",
	}

	cmd.AddCommand(
		newTemplateAddCmd(app),
		newTemplateListCmd(app),
		newTemplateUpdateCmd(app),
		newTemplateRemoveCmd(app),
	)

	return cmd
}

func newTemplateAddCmd(app *App) *cobra.Command {
	var hours float64

	cmd := &cobra.Command{
		Use:   "add DESCRIPTION",
		Short: "Create a task template (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hoursRef *float64
			if cmd.Flags().Changed("hours") {
				hoursRef = &hours
			}
			tpl, err := app.Templates.Create(context.Background(), app.Actor, args[0], hoursRef)
			if err != nil {
				return err
			}
			fmt.Printf("Created template %s %q (default %s)\n",
				formatter.TruncID(tpl.ID), tpl.Description, formatter.FormatHours(tpl.DefaultHours))
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "Default hours for tasks created from this template")
	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.Templates.ListActive(context.Background(), app.Actor)
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Println("No active templates.")
				return nil
			}

			headers := []string{"ID", "DESCRIPTION", "DEFAULT", "WORKED"}
			rows := make([][]string, 0, len(templates))
			for _, tpl := range templates {
				rows = append(rows, []string{
					formatter.TruncID(tpl.ID),
					formatter.Truncate(tpl.Description, 48),
					formatter.FormatHours(tpl.DefaultHours),
					formatter.FormatHours(tpl.WorkedHours),
				})
			}
			fmt.Print(formatter.RenderBox("Templates", formatter.RenderTable(headers, rows)))
			return nil
		},
	}
}

func newTemplateUpdateCmd(app *App) *cobra.Command {
	var (
		description string
		hours       float64
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a template's description or default hours (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var descRef *string
			if cmd.Flags().Changed("description") {
				descRef = &description
			}
			var hoursRef *float64
			if cmd.Flags().Changed("hours") {
				hoursRef = &hours
			}
			tpl, err := app.Templates.Update(context.Background(), app.Actor, args[0], descRef, hoursRef)
			if err != nil {
				return err
			}
			fmt.Printf("Updated template %s %q (default %s)\n",
				formatter.TruncID(tpl.ID), tpl.Description, formatter.FormatHours(tpl.DefaultHours))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().Float64Var(&hours, "hours", 0, "New default hours")
	return cmd
}

func newTemplateRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Deactivate a template (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Templates.Deactivate(context.Background(), app.Actor, args[0]); err != nil {
				return err
			}
			fmt.Println("Template deactivated. Existing tasks keep their history.")
			return nil
		},
	}
}
