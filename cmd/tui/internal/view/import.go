package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/importer"
	"github.com/MrJamesThe3rd/moneybox/internal/money"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateBankSelect importState = iota
	importStateAccountSelect
	importStateFilePick
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	accounts      *account.Service
	importService *importer.Service
	money         *money.Formatter
	marker        Marker

	state         importState
	filePicker    filepicker.Model
	selectedBank  importer.Bank
	bankOptions   []importer.Bank
	bankCursor    int
	accountList   []*account.Account
	accountCursor int

	duplicates list.Model
	status     string
	err        error
}

func NewImportModel(accounts *account.Service, impSvc *importer.Service, f *money.Formatter, marker Marker) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		accounts:      accounts,
		importService: impSvc,
		money:         f,
		marker:        marker,
		filePicker:    fp,
		bankOptions:   importer.Banks(),
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return tea.Batch(m.filePicker.Init(), m.loadAccountsCmd())
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateBankSelect:
			return m.updateBankSelect(msg)
		case importStateAccountSelect:
			return m.updateAccountSelect(msg)
		case importStateResult:
			var cmd tea.Cmd
			m.duplicates, cmd = m.duplicates.Update(msg)

			return m, cmd
		}

	case importAccountsMsg:
		m.err = msg.err
		m.accountList = msg.accounts

		for i, a := range msg.accounts {
			if a.IsDefault {
				m.accountCursor = i
			}
		}

		return m, nil

	case importResultMsg:
		m.state = importStateResult

		if msg.err != nil {
			m.err = msg.err
			m.status = ""

			return m, nil
		}

		m.err = nil
		m.status = fmt.Sprintf("Imported %d payments.", len(msg.result.Imported))
		m.duplicates = m.duplicateList(msg.result.Duplicates)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateAccountSelect:
		m.state = importStateBankSelect
		return m, nil
	case importStateFilePick:
		m.state = importStateAccountSelect
		return m, nil
	case importStateResult:
		m.state = importStateBankSelect
		m.err = nil
		m.status = ""

		return m, m.loadAccountsCmd()
	}

	return m, Back
}

func (m ImportModel) updateBankSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.bankCursor > 0 {
			m.bankCursor--
		}
	case tea.KeyDown:
		if m.bankCursor < len(m.bankOptions)-1 {
			m.bankCursor++
		}
	case tea.KeyEnter:
		m.selectedBank = m.bankOptions[m.bankCursor]
		m.state = importStateAccountSelect
	}

	return m, nil
}

func (m ImportModel) updateAccountSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.accountCursor > 0 {
			m.accountCursor--
		}
	case tea.KeyDown:
		if m.accountCursor < len(m.accountList)-1 {
			m.accountCursor++
		}
	case tea.KeyEnter:
		if len(m.accountList) == 0 {
			return m, nil
		}

		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateBankSelect:
		return m.viewBankSelect()
	case importStateAccountSelect:
		return m.viewAccountSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewBankSelect() string {
	s := "Select Bank:\n\n"

	for i, bank := range m.bankOptions {
		cursor := " "
		if i == m.bankCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(bank))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewAccountSelect() string {
	if len(m.accountList) == 0 {
		return lipgloss.NewStyle().Padding(2).Render(
			statusLine("Add an account before importing.", m.err) + "\n\n(Esc to go back)",
		)
	}

	s := fmt.Sprintf("Import %s statement into:\n\n", m.selectedBank)

	for i, a := range m.accountList {
		cursor := " "
		if i == m.accountCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s (%s)\n", cursor, a.Name, m.money.Format(a.CurrentBalance))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s):\n\n%s", m.selectedBank, m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(statusLine("", m.err) + "\n\n(Esc to go back)")
	}

	body := okStyle.Render(m.status)
	if len(m.duplicates.Items()) > 0 {
		body += "\n\n" + m.duplicates.View()
	}

	return style.Render(body + "\n\n(Esc to go back)")
}

func (m ImportModel) duplicateList(dups []payment.ImportParams) list.Model {
	items := make([]list.Item, len(dups))
	for i, d := range dups {
		items[i] = duplicateItem{params: d, amount: m.money.Format(d.Amount)}
	}

	l := list.New(items, duplicateDelegate{}, 80, 15)
	l.Title = fmt.Sprintf("Skipped %d already recorded", len(dups))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// Messages

type importAccountsMsg struct {
	accounts []*account.Account
	err      error
}

type importResultMsg struct {
	result *payment.ImportResult
	err    error
}

func (m ImportModel) loadAccountsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.accounts.List(ctx, account.ListFilter{})

		return importAccountsMsg{accounts: accounts, err: err}
	}
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	bank, accountID := m.selectedBank, m.accountList[m.accountCursor].ID
	svc, marker := m.importService, m.marker

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := svc.Import(ctx, bank, accountID, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		if len(result.Imported) > 0 {
			markUpdated(ctx, marker)
		}

		return importResultMsg{result: result}
	}
}

// Duplicate list item

type duplicateItem struct {
	params payment.ImportParams
	amount string
}

func (i duplicateItem) Title() string       { return "" }
func (i duplicateItem) Description() string { return "" }
func (i duplicateItem) FilterValue() string { return i.params.Note }

type duplicateDelegate struct{}

func (d duplicateDelegate) Height() int                             { return 1 }
func (d duplicateDelegate) Spacing() int                            { return 0 }
func (d duplicateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d duplicateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(duplicateItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	fmt.Fprintf(w, "%s%s  %-8s %12s  %s",
		cursor,
		FormatDate(item.params.Date),
		item.params.Type.Label(),
		item.amount,
		item.params.Note,
	)
}
