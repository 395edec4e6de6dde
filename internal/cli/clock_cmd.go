package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nalvarenga/punchcard/internal/cli/formatter"
	"github.com/nalvarenga/punchcard/internal/repository"
	"github.com/spf13/cobra"
)

func newClockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Clock in and out, view attendance",
	}

	cmd.AddCommand(
		newClockInCmd(app),
		newClockOutCmd(app),
		newClockStatusCmd(app),
		newClockMyCmd(app),
		newClockTeamCmd(app),
		newClockBoardCmd(app),
	)

	return cmd
}

func newClockInCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "in",
		Short: "Start an attendance interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := app.Attendance.ClockIn(context.Background(), app.Actor)
			if err != nil {
				return err
			}
			fmt.Printf("Clocked in at %s\n", formatter.ClockTime(interval.ClockIn))
			return nil
		},
	}
}

func newClockOutCmd(app *App) *cobra.Command {
	var taskID string

	cmd := &cobra.Command{
		Use:   "out",
		Short: "Close the open attendance interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			var taskRef *string
			if taskID != "" {
				taskRef = &taskID
			}
			result, err := app.Attendance.ClockOut(context.Background(), app.Actor, taskRef)
			if err != nil {
				return err
			}
			fmt.Printf("Clocked out at %s (%s)\n",
				formatter.ClockTime(*result.Interval.ClockOut),
				formatter.FormatHours(result.Hours))
			if result.Task != nil {
				fmt.Printf("Booked against %q, now at %s\n",
					result.Task.Description, formatter.FormatHours(result.Task.Hours()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "Task ID to book the interval's hours against")
	return cmd
}

func newClockStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the open interval, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := app.Attendance.Status(context.Background(), app.Actor)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					fmt.Println("Not clocked in.")
					return nil
				}
				return err
			}
			fmt.Printf("%s since %s (%s)\n",
				formatter.PresencePill(true),
				formatter.ClockTime(interval.ClockIn),
				formatter.HumanTimestamp(interval.ClockIn))
			return nil
		},
	}
}

func newClockMyCmd(app *App) *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "my",
		Short: "Show my completed attendance history",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := parseRange(fromStr, toStr)
			if err != nil {
				return err
			}
			rows, err := app.Attendance.ListMine(context.Background(), app.Actor, from, to)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No completed intervals in range.")
				return nil
			}

			headers := []string{"DATE", "IN", "OUT", "HOURS", "TASK"}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				task := formatter.Dim("--")
				if r.TaskDescription != nil {
					task = formatter.Truncate(*r.TaskDescription, 40)
				}
				out := formatter.Dim("--")
				if r.Interval.ClockOut != nil {
					out = formatter.ClockTime(*r.Interval.ClockOut)
				}
				table = append(table, []string{
					formatter.HumanDate(r.Interval.WorkDate),
					formatter.ClockTime(r.Interval.ClockIn),
					out,
					formatter.FormatHours(r.Interval.WorkedHours()),
					task,
				})
			}
			fmt.Print(formatter.RenderBox("Attendance", formatter.RenderTable(headers, table)))
			return nil
		},
	}

	addRangeFlags(cmd.Flags(), &fromStr, &toStr)
	return cmd
}

func newClockTeamCmd(app *App) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "team",
		Short: "Show the team's attendance for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDateOr(dateStr, time.Now())
			if err != nil {
				return err
			}
			rows, err := app.Attendance.ListTeam(context.Background(), app.Actor, day)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("No intervals recorded for that day.")
				return nil
			}
			fmt.Print(formatter.RenderBox("Team attendance", formatter.RenderTable(teamHeaders(), teamRows(rows))))
			return nil
		},
	}

	addDateFlag(cmd.Flags(), &dateStr)
	return cmd
}

func teamHeaders() []string {
	return []string{"", "USER", "IN", "OUT", "HOURS", "TASK"}
}

func teamRows(rows []repository.TeamAttendanceRow) [][]string {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		out := formatter.Dim("--")
		if r.Interval.ClockOut != nil {
			out = formatter.ClockTime(*r.Interval.ClockOut)
		}
		task := formatter.Dim("--")
		if r.TaskDescription != nil {
			task = formatter.Truncate(*r.TaskDescription, 40)
		}
		table = append(table, []string{
			formatter.PresencePill(r.Interval.Open()),
			r.Username,
			formatter.ClockTime(r.Interval.ClockIn),
			out,
			formatter.FormatHours(r.Interval.WorkedHours()),
			task,
		})
	}
	return table
}
