package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

// Timeframe represents a predefined or custom date range selection.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeNextMonth
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeNextMonth:
		return "Next Month"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// DateRange is an inclusive range of days. Zero bounds are open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Apply narrows filter to the range.
func (r DateRange) Apply(filter *payment.ListFilter) {
	filter.StartDate, filter.EndDate = nil, nil

	if !r.Start.IsZero() {
		filter.StartDate = new(payment.DateOnly(r.Start))
	}

	if !r.End.IsZero() {
		filter.EndDate = new(payment.DateOnly(r.End))
	}
}

func (r DateRange) String() string {
	switch {
	case r.Start.IsZero() && r.End.IsZero():
		return "All Time"
	case r.End.IsZero():
		return "From " + FormatDate(r.Start)
	case r.Start.IsZero():
		return "Until " + FormatDate(r.End)
	}

	return FormatDate(r.Start) + " to " + FormatDate(r.End)
}

func timeframeToDateRange(tf Timeframe, now time.Time) DateRange {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch tf {
	case TimeframeThisMonth:
		return DateRange{Start: monthStart, End: monthStart.AddDate(0, 1, -1)}
	case TimeframeLastMonth:
		return DateRange{Start: monthStart.AddDate(0, -1, 0), End: monthStart.AddDate(0, 0, -1)}
	case TimeframeNextMonth:
		return DateRange{Start: monthStart.AddDate(0, 1, 0), End: monthStart.AddDate(0, 2, -1)}
	case TimeframeThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(1, 0, -1)}
	}

	return DateRange{}
}

// TimeframeSelectedMsg is emitted when the user has selected a valid date range.
type TimeframeSelectedMsg struct {
	Range DateRange
	Label string
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker is a reusable component for selecting a date range.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewTimeframePicker() TimeframePicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Start Date: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "End Date:   "

	return TimeframePicker{
		state:      timeframeStateSelect,
		selected:   TimeframeThisMonth,
		now:        time.Now,
		startInput: si,
		endInput:   ei,
	}
}

// Update handles messages for the timeframe picker.
func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case timeframeStateSelect:
			return m.updateSelect(msg)
		case timeframeStateCustom:
			if m2, cmd, handled := m.updateCustom(msg); handled {
				return m2, cmd
			}
		}
	}

	if m.state == timeframeStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > TimeframeThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == TimeframeCustom {
			m.state = timeframeStateCustom
			m.startInput.Focus()
			m.focusIndex = 0

			return m, textinput.Blink
		}

		selected := TimeframeSelectedMsg{Range: timeframeToDateRange(m.selected, m.now()), Label: m.selected.String()}

		return m, func() tea.Msg { return selected }
	}

	return m, nil
}

// updateCustom reports whether it consumed the key; other keys go to the inputs.
func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		r, err := parseRange(m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil
		selected := TimeframeSelectedMsg{Range: r, Label: r.String()}

		return m, func() tea.Msg { return selected }, true

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

// parseRange accepts an empty bound as open-ended.
func parseRange(start, end string) (DateRange, error) {
	var r DateRange

	if s := strings.TrimSpace(start); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start date (YYYY-MM-DD)")
		}

		r.Start = t
	}

	if s := strings.TrimSpace(end); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end date (YYYY-MM-DD)")
		}

		r.End = t
	}

	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return DateRange{}, fmt.Errorf("end date is before start date")
	}

	return r, nil
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var cmds []tea.Cmd

	var c tea.Cmd

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

// View renders the timeframe picker.
func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range (leave a date empty for no bound):\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	var b strings.Builder

	b.WriteString("Select Timeframe:\n\n")

	for i := TimeframeThisMonth; i <= TimeframeCustom; i++ {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, i.String())
	}

	b.WriteString("\n(Enter to select, Esc to back)")

	return b.String() + errStr
}

// IsSelecting returns true if the picker is in the selection state (not custom input).
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}
