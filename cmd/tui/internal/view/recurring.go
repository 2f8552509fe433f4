package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneybox/internal/money"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
	"github.com/MrJamesThe3rd/moneybox/internal/viewmodel"
)

type RecurringModel struct {
	CommonModel
	payments  *payment.Manager
	processor *payment.Processor
	money     *money.Formatter
	dialog    viewmodel.Dialog
	marker    Marker

	table  table.Model
	list   []*payment.RecurringPayment
	status string
	err    error
}

func NewRecurringModel(payments *payment.Manager, processor *payment.Processor, f *money.Formatter, dialog viewmodel.Dialog, marker Marker) RecurringModel {
	return RecurringModel{
		payments:  payments,
		processor: processor,
		money:     f,
		dialog:    dialog,
		marker:    marker,
		table: newTable([]table.Column{
			{Title: "Next", Width: 12},
			{Title: "Repeats", Width: 12},
			{Title: "Type", Width: 9},
			{Title: "Amount", Width: 12},
			{Title: "Note", Width: 30},
			{Title: "Ends", Width: 12},
		}),
	}
}

func (m RecurringModel) Title() string { return "Recurring Payments" }

func (m RecurringModel) ShortHelp() string {
	return "Esc: back | p: process due now | d: stop recurring | r: refresh"
}

func (m RecurringModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RecurringModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recurringLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.list = msg.list
			m.refreshTable()
		}

		return m, nil

	case recurringChangedMsg:
		m.err = msg.err
		if msg.err == nil && msg.status != "" {
			m.status = msg.status
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 10)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "p":
			m.status = "Processing..."
			return m, m.processCmd()
		case "d":
			if idx := m.table.Cursor(); idx >= 0 && idx < len(m.list) {
				return m, m.removeCmd(m.list[idx])
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *RecurringModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.list))

	for _, rp := range m.list {
		next := "-"
		if d, ok := rp.NextOccurrence(); ok {
			next = FormatDate(d)
		}

		ends := "never"
		if rp.EndDate != nil {
			ends = FormatDate(*rp.EndDate)
		}

		rows = append(rows, table.Row{next, rp.Recurrence.String(), rp.Type.Label(), m.money.Format(rp.Amount), rp.Note, ends})
	}

	m.table.SetRows(rows)
}

func (m RecurringModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(titleStyle.Render(m.Title())),
		tableBox(m.table),
	)

	if line := statusLine(m.status, m.err); line != "" {
		content = line + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

// Messages

type recurringLoadedMsg struct {
	list []*payment.RecurringPayment
	err  error
}

type recurringChangedMsg struct {
	status string
	err    error
}

func (m RecurringModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		list, err := m.payments.ListRecurring(ctx, payment.RecurringFilter{})

		return recurringLoadedMsg{list: list, err: err}
	}
}

func (m RecurringModel) processCmd() tea.Cmd {
	processor, marker := m.processor, m.marker

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		created, err := processor.ProcessDue(ctx, time.Now())
		if created > 0 {
			markUpdated(ctx, marker)
		}

		if err != nil {
			return recurringChangedMsg{err: err}
		}

		return recurringChangedMsg{status: fmt.Sprintf("Created %d payments.", created)}
	}
}

// removeCmd stops rp from recurring. Payments it already created stay.
func (m RecurringModel) removeCmd(rp *payment.RecurringPayment) tea.Cmd {
	payments, dialog, marker := m.payments, m.dialog, m.marker
	sourceID, note := rp.SourcePaymentID, rp.Note

	return func() tea.Msg {
		ctx, cancel := interactiveCtx()
		defer cancel()

		ok, err := dialog.ShowConfirm(ctx, "Stop recurring", fmt.Sprintf("Stop repeating %q? Payments already created are kept.", note))
		if err != nil || !ok {
			return recurringChangedMsg{err: err}
		}

		p, err := payments.Get(ctx, sourceID)
		if err != nil {
			return recurringChangedMsg{err: err}
		}

		if err := payments.RemoveRecurringForPayment(ctx, p); err != nil {
			return recurringChangedMsg{err: err}
		}

		markUpdated(ctx, marker)

		return recurringChangedMsg{status: fmt.Sprintf("%q no longer repeats.", note)}
	}
}
