package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneybox/internal/category"
)

type categoriesFocus int

const (
	focusCategories categoriesFocus = iota
	focusRules
)

type categoryFields struct {
	name    string
	notes   string
	pattern string
}

type CategoriesModel struct {
	CommonModel
	categories *category.Service
	marker     Marker

	focus     categoriesFocus
	catTable  table.Model
	ruleTable table.Model
	list      []*category.Category
	rules     []*category.Rule
	form      *huh.Form
	fields    *categoryFields
	editing   *category.Category // nil when adding
	learnFor  *category.Category // set while a rule is being entered
	status    string
	err       error
}

func NewCategoriesModel(categories *category.Service, marker Marker) CategoriesModel {
	rules := newTable([]table.Column{
		{Title: "Note contains", Width: 30},
		{Title: "Category", Width: 20},
	})
	rules.Blur()

	return CategoriesModel{
		categories: categories,
		marker:     marker,
		catTable: newTable([]table.Column{
			{Title: "Name", Width: 20},
			{Title: "Notes", Width: 30},
		}),
		ruleTable: rules,
	}
}

func (m CategoriesModel) Title() string { return "Categories" }

func (m CategoriesModel) ShortHelp() string {
	if m.form != nil {
		return "Navigate form | Esc: cancel"
	}

	if m.focus == focusRules {
		return "Esc: back | Tab: categories | d: delete rule"
	}

	return "Esc: back | Tab: rules | a: add | e: edit | d: delete | l: learn rule"
}

func (m CategoriesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.list, m.rules = msg.categories, msg.rules
			m.refreshTables()
		}

		return m, nil

	case categoryChangedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "tab":
		m.toggleFocus()
		return m, nil
	}

	if m.focus == focusRules {
		if keyMsg.String() == "d" {
			if idx := m.ruleTable.Cursor(); idx >= 0 && idx < len(m.rules) {
				return m, m.deleteRuleCmd(m.rules[idx])
			}
		}

		var cmd tea.Cmd
		m.ruleTable, cmd = m.ruleTable.Update(msg)

		return m, cmd
	}

	selected := m.selected()

	switch keyMsg.String() {
	case "a":
		return m.openForm(nil, nil)
	case "e":
		if selected != nil {
			return m.openForm(selected, nil)
		}
	case "l":
		if selected != nil {
			return m.openForm(nil, selected)
		}
	case "d":
		if selected != nil {
			return m, m.deleteCmd(selected)
		}
	}

	var cmd tea.Cmd
	m.catTable, cmd = m.catTable.Update(msg)

	return m, cmd
}

func (m *CategoriesModel) toggleFocus() {
	if m.focus == focusCategories {
		m.focus = focusRules
		m.catTable.Blur()
		m.ruleTable.Focus()

		return
	}

	m.focus = focusCategories
	m.ruleTable.Blur()
	m.catTable.Focus()
}

func (m CategoriesModel) selected() *category.Category {
	idx := m.catTable.Cursor()
	if idx < 0 || idx >= len(m.list) {
		return nil
	}

	return m.list[idx]
}

// openForm edits c, adds a category when c is nil, or learns a rule for
// learnFor when that is set.
func (m CategoriesModel) openForm(c, learnFor *category.Category) (tea.Model, tea.Cmd) {
	m.editing, m.learnFor = c, learnFor
	m.fields = &categoryFields{}

	var group *huh.Group

	switch {
	case learnFor != nil:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Note contains").
				Description("Payments whose note contains this text get " + learnFor.Name).
				Value(&m.fields.pattern).
				Validate(required("pattern")),
		).Title("Learn Rule")
	default:
		title := "Add Category"
		if c != nil {
			title = "Edit Category"
			m.fields.name, m.fields.notes = c.Name, c.Notes
		}

		group = huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.fields.name).
				Validate(required("name")),

			huh.NewInput().
				Title("Notes").
				Value(&m.fields.notes),
		).Title(title)
	}

	m.form = huh.NewForm(group).WithWidth(45).WithShowHelp(false)
	m.catTable.Blur()

	return m, m.form.Init()
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func (m CategoriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	save := m.saveCmd()
	m.closeForm()

	return m, save
}

func (m *CategoriesModel) closeForm() {
	m.form = nil
	m.fields = nil
	m.editing = nil
	m.learnFor = nil
	m.catTable.Focus()
	m.focus = focusCategories
	m.ruleTable.Blur()
}

func (m *CategoriesModel) refreshTables() {
	names := make(map[int64]string, len(m.list))
	rows := make([]table.Row, 0, len(m.list))

	for _, c := range m.list {
		names[c.ID] = c.Name
		rows = append(rows, table.Row{c.Name, c.Notes})
	}

	m.catTable.SetRows(rows)

	rows = make([]table.Row, 0, len(m.rules))
	for _, r := range m.rules {
		rows = append(rows, table.Row{r.Pattern, names[r.CategoryID]})
	}

	m.ruleTable.SetRows(rows)
}

func (m CategoriesModel) View() string {
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Categories"), tableBox(m.catTable)),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Rules"), tableBox(m.ruleTable)),
	)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(49).Render(m.form.View()))
	}

	if line := statusLine(m.status, m.err); line != "" {
		content = line + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

// Messages

type categoriesLoadedMsg struct {
	categories []*category.Category
	rules      []*category.Rule
	err        error
}

type categoryChangedMsg struct {
	status string
	err    error
}

func (m CategoriesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		categories, err := m.categories.List(ctx, category.ListFilter{})
		if err != nil {
			return categoriesLoadedMsg{err: err}
		}

		rules, err := m.categories.Rules(ctx)

		return categoriesLoadedMsg{categories: categories, rules: rules, err: err}
	}
}

func (m CategoriesModel) saveCmd() tea.Cmd {
	fields, editing, learnFor := *m.fields, m.editing, m.learnFor
	svc, marker := m.categories, m.marker

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var status string

		switch {
		case learnFor != nil:
			if _, err := svc.Learn(ctx, fields.pattern, learnFor.ID); err != nil {
				return categoryChangedMsg{err: err}
			}

			status = fmt.Sprintf("Learned %q for %s.", strings.TrimSpace(fields.pattern), learnFor.Name)

		case editing != nil:
			c := *editing
			c.Name, c.Notes = fields.name, fields.notes

			if err := svc.Update(ctx, &c); err != nil {
				return categoryChangedMsg{err: err}
			}

			status = fmt.Sprintf("Saved %q.", c.Name)

		default:
			c, err := svc.Create(ctx, fields.name, fields.notes)
			if err != nil {
				return categoryChangedMsg{err: err}
			}

			status = fmt.Sprintf("Added %q.", c.Name)
		}

		markUpdated(ctx, marker)

		return categoryChangedMsg{status: status}
	}
}

func (m CategoriesModel) deleteCmd(c *category.Category) tea.Cmd {
	id, name := c.ID, c.Name
	svc, marker := m.categories, m.marker

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			return categoryChangedMsg{err: err}
		}

		markUpdated(ctx, marker)

		return categoryChangedMsg{status: fmt.Sprintf("Deleted %q.", name)}
	}
}

func (m CategoriesModel) deleteRuleCmd(r *category.Rule) tea.Cmd {
	id, pattern := r.ID, r.Pattern
	svc, marker := m.categories, m.marker

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := svc.DeleteRule(ctx, id); err != nil {
			return categoryChangedMsg{err: err}
		}

		markUpdated(ctx, marker)

		return categoryChangedMsg{status: fmt.Sprintf("Forgot %q.", pattern)}
	}
}
