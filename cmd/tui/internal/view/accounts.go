package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/viewmodel"
)

// OpenPaymentsMsg asks the root model to show the payments of one account.
type OpenPaymentsMsg struct {
	AccountID int64
}

type accountsState int

const (
	accountsStateBrowse accountsState = iota
	accountsStateEdit
)

// accountFields is what the form writes into. It lives behind a pointer
// because the model is copied on every update.
type accountFields struct {
	name    string
	iban    string
	note    string
	balance string
}

type AccountsModel struct {
	CommonModel
	accounts *account.Service
	vmSvc    viewmodel.Services

	state   accountsState
	table   table.Model
	list    []*account.Account
	form    *huh.Form
	fields  *accountFields
	editor  *viewmodel.ModifyAccount
	total   int64
	status  string
	err     error
	loading bool
}

func NewAccountsModel(accounts *account.Service, vmSvc viewmodel.Services) AccountsModel {
	return AccountsModel{
		accounts: accounts,
		vmSvc:    vmSvc,
		table: newTable([]table.Column{
			{Title: "", Width: 2},
			{Title: "Name", Width: 25},
			{Title: "IBAN", Width: 28},
			{Title: "Balance", Width: 14},
			{Title: "Note", Width: 30},
		}),
	}
}

func (m AccountsModel) Title() string { return "Accounts" }

func (m AccountsModel) ShortHelp() string {
	if m.state == accountsStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: payments | a: add | e: edit | d: delete | *: default | r: refresh"
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.list = msg.accounts
			m.refreshTable()
		}

		return m, nil

	case accountEditorMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		return m.openForm(msg.vm)

	case accountSavedMsg:
		if msg.err != nil {
			// The form is rebuilt with the values entered so far.
			m.err = msg.err
			if errors.Is(msg.err, account.ErrNameRequired) {
				m.err = nil
			}

			return m.openForm(m.editor)
		}

		m.status = fmt.Sprintf("Saved %q.", msg.name)
		m.closeForm()

		return m, m.loadCmd()

	case accountChangedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 12)

		return m, nil
	}

	if m.state == accountsStateEdit {
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m AccountsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	selected := m.selected()

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "a":
		return m, m.editorCmd(0)
	case "e":
		if selected != nil {
			return m, m.editorCmd(selected.ID)
		}
	case "d":
		if selected != nil {
			return m, m.deleteCmd(selected.ID)
		}
	case "*":
		if selected != nil {
			return m, m.setDefaultCmd(selected)
		}
	case "enter":
		if selected != nil {
			id := selected.ID
			return m, func() tea.Msg { return OpenPaymentsMsg{AccountID: id} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	return m, m.saveCmd()
}

func (m AccountsModel) openForm(vm *viewmodel.ModifyAccount) (tea.Model, tea.Cmd) {
	a := vm.Account()

	m.editor = vm
	m.fields = &accountFields{name: a.Name, iban: a.IBAN, note: a.Note, balance: vm.BalanceString()}

	balanceTitle := "Opening balance"
	if vm.IsEdit() {
		balanceTitle = "Balance (changes through payments only)"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.fields.name),

			huh.NewInput().
				Key("iban").
				Title("IBAN").
				Value(&m.fields.iban),

			huh.NewInput().
				Key("note").
				Title("Note").
				Value(&m.fields.note),

			huh.NewInput().
				Key("balance").
				Title(balanceTitle).
				Value(&m.fields.balance).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					_, err := m.vmSvc.Money.Parse(s)

					return err
				}),
		).Title(vm.Title()),
	).WithWidth(50).WithShowHelp(false)

	m.state = accountsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m *AccountsModel) closeForm() {
	m.state = accountsStateBrowse
	m.form = nil
	m.fields = nil
	m.editor = nil
	m.table.Focus()
}

func (m AccountsModel) selected() *account.Account {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.list) {
		return nil
	}

	return m.list[idx]
}

func (m *AccountsModel) refreshTable() {
	m.total = 0
	rows := make([]table.Row, 0, len(m.list))

	for _, a := range m.list {
		marker := ""
		if a.IsDefault {
			marker = "*"
		}

		m.total += a.CurrentBalance
		rows = append(rows, table.Row{marker, a.Name, a.IBAN, m.vmSvc.Money.Format(a.CurrentBalance), a.Note})
	}

	m.table.SetRows(rows)
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading accounts...")
	}

	header := fmt.Sprintf("%s  Total: %s", titleStyle.Render("Accounts"), activeStyle(m.vmSvc.Money.Format(m.total)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableBox(m.table),
	)

	if m.state == accountsStateEdit && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(54).Render(m.form.View()))
	}

	if line := statusLine(m.status, m.err); line != "" {
		content = line + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

// Messages

type accountsLoadedMsg struct {
	accounts []*account.Account
	err      error
}

type accountEditorMsg struct {
	vm  *viewmodel.ModifyAccount
	err error
}

type accountSavedMsg struct {
	name string
	err  error
}

type accountChangedMsg struct {
	status string
	err    error
}

func (m AccountsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.accounts.List(ctx, account.ListFilter{})

		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

func (m AccountsModel) editorCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		vm := viewmodel.NewModifyAccount(m.vmSvc)
		if err := vm.Init(ctx, id); err != nil {
			return accountEditorMsg{err: err}
		}

		return accountEditorMsg{vm: vm}
	}
}

func (m AccountsModel) saveCmd() tea.Cmd {
	vm, fields := m.editor, *m.fields

	return func() tea.Msg {
		ctx, cancel := interactiveCtx()
		defer cancel()

		vm.SetName(strings.TrimSpace(fields.name))
		vm.SetIBAN(strings.TrimSpace(fields.iban))
		vm.SetNote(fields.note)

		if strings.TrimSpace(fields.balance) != "" {
			if err := vm.SetBalanceString(fields.balance); err != nil {
				return accountSavedMsg{err: err}
			}
		}

		if err := vm.Save(ctx); err != nil {
			return accountSavedMsg{err: err}
		}

		return accountSavedMsg{name: vm.Account().Name}
	}
}

func (m AccountsModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := interactiveCtx()
		defer cancel()

		vm := viewmodel.NewModifyAccount(m.vmSvc)
		if err := vm.Init(ctx, id); err != nil {
			return accountChangedMsg{err: err}
		}

		deleted, err := vm.Delete(ctx)
		if err != nil {
			if errors.Is(err, account.ErrInUse) {
				return accountChangedMsg{}
			}

			return accountChangedMsg{err: err}
		}

		if !deleted {
			return accountChangedMsg{}
		}

		return accountChangedMsg{status: fmt.Sprintf("Deleted %q.", vm.Account().Name)}
	}
}

func (m AccountsModel) setDefaultCmd(a *account.Account) tea.Cmd {
	id, name := a.ID, a.Name

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.accounts.SetDefault(ctx, id); err != nil {
			return accountChangedMsg{err: err}
		}

		if m.vmSvc.Settings != nil {
			markUpdated(ctx, m.vmSvc.Settings)
		}

		return accountChangedMsg{status: fmt.Sprintf("%q is now the default account.", name)}
	}
}
