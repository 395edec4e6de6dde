package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nalvarenga/punchcard/internal/cli/formatter"
	"github.com/nalvarenga/punchcard/internal/repository"
	"github.com/spf13/cobra"
)

func newClockBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Live view of today's team attendance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("board needs a terminal, use 'clock team' instead")
			}
			_, err := tea.NewProgram(newBoardModel(app), tea.WithAltScreen()).Run()
			return err
		},
	}
}

type boardRowsMsg struct {
	rows []repository.TeamAttendanceRow
	err  error
}

type boardModel struct {
	app       *App
	table     table.Model
	refreshed time.Time
	err       error
}

func newBoardModel(app *App) *boardModel {
	cols := []table.Column{
		{Title: "", Width: 6},
		{Title: "User", Width: 16},
		{Title: "In", Width: 6},
		{Title: "Out", Width: 6},
		{Title: "Hours", Width: 7},
		{Title: "Task", Width: 36},
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(formatter.ColorHeader).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(formatter.ColorDim).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(formatter.ColorFg).
		Background(lipgloss.Color("#3c3836"))

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
		table.WithStyles(styles),
	)

	return &boardModel{app: app, table: t}
}

func (m *boardModel) Init() tea.Cmd {
	return m.fetch()
}

func (m *boardModel) fetch() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		rows, err := app.Attendance.ListTeam(context.Background(), app.Actor, time.Now())
		return boardRowsMsg{rows: rows, err: err}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetch()
		}
	case boardRowsMsg:
		m.err = msg.err
		m.refreshed = time.Now()
		if msg.err == nil {
			m.table.SetRows(boardRows(msg.rows))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *boardModel) View() string {
	header := formatter.Header("Team board")
	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s\n\n%s\n",
			header,
			formatter.StyleRed.Render(m.err.Error()),
			formatter.Dim("r refresh · q quit"))
	}

	status := formatter.Dim(fmt.Sprintf("refreshed %s · r refresh · q quit",
		m.refreshed.Local().Format("15:04:05")))
	return fmt.Sprintf("%s\n\n%s\n\n%s\n", header, m.table.View(), status)
}

func boardRows(rows []repository.TeamAttendanceRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		clockOut := "--"
		if r.Interval.ClockOut != nil {
			clockOut = formatter.ClockTime(*r.Interval.ClockOut)
		}
		task := "--"
		if r.TaskDescription != nil {
			task = formatter.Truncate(*r.TaskDescription, 36)
		}
		presence := "○ out"
		if r.Interval.Open() {
			presence = "● in"
		}
		out = append(out, table.Row{
			presence,
			r.Username,
			formatter.ClockTime(r.Interval.ClockIn),
			clockOut,
			formatter.FormatHours(r.Interval.WorkedHours()),
			task,
		})
	}
	return out
}
