package view

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneybox/internal/viewmodel"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// Marker stamps the last database update after writes made outside the
// view-models.
type Marker interface {
	MarkUpdated(ctx context.Context, at time.Time) error
}

func markUpdated(ctx context.Context, m Marker) {
	if err := m.MarkUpdated(ctx, time.Now()); err != nil {
		slog.Warn("marking database updated", "error", err)
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	panelStyle  = lipgloss.NewStyle().Padding(1, 2).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	activeColor = lipgloss.Color("205")
)

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(activeColor).Render(s)
}

// statusLine renders err in red, or msg faint when there is no error.
func statusLine(msg string, err error) string {
	if err != nil {
		var uerr *viewmodel.UserError
		if errors.As(err, &uerr) {
			return errorStyle.Render(uerr.Title + ": " + uerr.Error())
		}

		return errorStyle.Render("Error: " + err.Error())
	}

	if msg == "" {
		return ""
	}

	return faintStyle.Render(msg)
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func tableBox(t table.Model) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(t.View())
}
