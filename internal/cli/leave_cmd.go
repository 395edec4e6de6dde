package cli

import (
	"context"
	"fmt"

	"github.com/nalvarenga/punchcard/internal/cli/formatter"
	"github.com/nalvarenga/punchcard/internal/repository"
	"github.com/spf13/cobra"
)

func newLeaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Request and review leave",
	}

	cmd.AddCommand(
		newLeaveRequestCmd(app),
		newLeaveApproveCmd(app),
		newLeaveRejectCmd(app),
		newLeaveEditCmd(app),
		newLeaveRemoveCmd(app),
		newLeaveMineCmd(app),
		newLeavePendingCmd(app),
	)

	return cmd
}

func newLeaveRequestCmd(app *App) *cobra.Command {
	var startStr, endStr, reason string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Submit a leave request",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags omitted in a terminal session open the form instead.
			if startStr == "" && endStr == "" && reason == "" && app.interactive() {
				if err := leaveRequestForm(&startStr, &endStr, &reason).Run(); err != nil {
					return err
				}
			}

			start, err := parseDate(startStr)
			if err != nil {
				return err
			}
			end, err := parseDate(endStr)
			if err != nil {
				return err
			}

			req, err := app.Leave.Submit(context.Background(), app.Actor, start, end, reason)
			if err != nil {
				return err
			}
			fmt.Printf("Submitted %s for %s to %s\n",
				formatter.TruncID(req.ID),
				req.StartDate.Format(flagDateLayout),
				req.EndDate.Format(flagDateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "First day of leave (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "Last day of leave (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the leave is needed")
	return cmd
}

func newLeaveApproveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a pending leave request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := app.Leave.Approve(context.Background(), app.Actor, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", formatter.LeaveStatusPill(req.Status), formatter.TruncID(req.ID))
			return nil
		},
	}
}

func newLeaveRejectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reject ID",
		Short: "Reject a pending leave request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := app.Leave.Reject(context.Background(), app.Actor, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", formatter.LeaveStatusPill(req.Status), formatter.TruncID(req.ID))
			return nil
		},
	}
}

func newLeaveEditCmd(app *App) *cobra.Command {
	var startStr, endStr, reason string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rewrite a pending leave request (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDate(startStr)
			if err != nil {
				return err
			}
			end, err := parseDate(endStr)
			if err != nil {
				return err
			}
			req, err := app.Leave.Edit(context.Background(), app.Actor, args[0], start, end, reason)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s for %s to %s\n",
				formatter.TruncID(req.ID),
				req.StartDate.Format(flagDateLayout),
				req.EndDate.Format(flagDateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "First day of leave (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "Last day of leave (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the leave is needed")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	cmd.MarkFlagRequired("reason")
	return cmd
}

func newLeaveRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a pending leave request (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Leave.Delete(context.Background(), app.Actor, args[0]); err != nil {
				return err
			}
			fmt.Println("Leave request removed.")
			return nil
		},
	}
}

func newLeaveMineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List my leave requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Leave.ListMine(context.Background(), app.Actor)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No leave requests.")
				return nil
			}
			fmt.Print(formatter.RenderBox("My leave", renderLeaveRows(rows)))
			return nil
		},
	}
}

func newLeavePendingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List leave requests awaiting review",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Leave.ListPending(context.Background(), app.Actor)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("Nothing awaiting review.")
				return nil
			}
			fmt.Print(formatter.RenderBox("Pending leave", renderLeaveRows(rows)))
			return nil
		},
	}
}

func renderLeaveRows(rows []repository.LeaveRow) string {
	headers := []string{"ID", "USER", "FROM", "TO", "REASON", "STATUS", "REVIEWER"}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		reviewer := formatter.Dim("--")
		if r.ReviewerUsername != nil {
			reviewer = *r.ReviewerUsername
		}
		table = append(table, []string{
			formatter.TruncID(r.Request.ID),
			r.Username,
			r.Request.StartDate.Format(flagDateLayout),
			r.Request.EndDate.Format(flagDateLayout),
			formatter.Truncate(r.Request.Reason, 32),
			formatter.LeaveStatusPill(r.Request.Status),
			reviewer,
		})
	}
	return formatter.RenderTable(headers, table)
}
