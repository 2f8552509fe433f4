package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/category"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
	"github.com/MrJamesThe3rd/moneybox/internal/viewmodel"
)

type paymentsState int

const (
	paymentsStateTimeframe paymentsState = iota
	paymentsStateList
	paymentsStateEditing
)

// paymentItem wraps a payment to implement list.Item.
type paymentItem struct {
	p        *payment.Payment
	amount   string
	accounts string
	category string
	cleared  bool
}

func (i paymentItem) Title() string {
	state := ""
	if !i.cleared {
		state = faintStyle.Render(" [upcoming]")
	}

	if i.p.IsRecurring() {
		state += faintStyle.Render(" [recurring]")
	}

	return fmt.Sprintf("%s  %12s  %-8s %s%s", FormatDate(i.p.Date), i.amount, i.p.Type.Label(), i.p.Note, state)
}

func (i paymentItem) Description() string {
	if i.category == "" {
		return i.accounts
	}

	return i.accounts + "  |  " + i.category
}

func (i paymentItem) FilterValue() string {
	return i.p.Note + " " + i.category
}

type PaymentsModel struct {
	CommonModel
	payments   *payment.Manager
	accounts   *account.Service
	categories *category.Service
	vmSvc      viewmodel.Services
	add        *viewmodel.AddTransaction

	state           paymentsState
	timeframePicker TimeframePicker
	list            list.Model
	editor          EditorModel

	accountID *int64
	dateRange DateRange
	rangeName string
	loading   bool
	status    string
	err       error
}

func NewPaymentsModel(payments *payment.Manager, accounts *account.Service, categories *category.Service, vmSvc viewmodel.Services) PaymentsModel {
	l := list.New([]list.Item{}, paymentItemDelegate{}, 0, 0)
	l.Title = "Payments"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return PaymentsModel{
		payments:        payments,
		accounts:        accounts,
		categories:      categories,
		vmSvc:           vmSvc,
		add:             viewmodel.NewAddTransaction(vmSvc),
		timeframePicker: NewTimeframePicker(),
		list:            l,
	}
}

// ForAccount limits the list to payments charged to or received by id.
func (m PaymentsModel) ForAccount(id int64) PaymentsModel {
	m.accountID = &id
	return m
}

func (m PaymentsModel) Title() string { return "Payments" }

func (m PaymentsModel) ShortHelp() string {
	switch m.state {
	case paymentsStateTimeframe:
		return "Esc: back | Enter: select"
	case paymentsStateList:
		return "Esc: back | n: expense | i: income | t: transfer | e: edit | d: delete | l: learn category | f: timeframe | /: filter"
	}

	return ""
}

func (m PaymentsModel) Init() tea.Cmd {
	return m.loadAccountsCmd()
}

func (m PaymentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.dateRange = msg.Range
		m.rangeName = msg.Label
		m.loading = true
		m.state = paymentsStateList

		return m, m.loadCmd()

	case paymentsLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.setItems(msg)

			if len(msg.payments) == 0 {
				m.status = "No payments found."
			}
		}

		return m, nil

	case addLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.add = msg.add

		return m, nil

	case editorOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.editor = NewEditorModel(msg.vm, m.vmSvc.Money, msg.categories)
		m.state = paymentsStateEditing

		return m, m.editor.Init()

	case EditorClosedMsg:
		m.state = paymentsStateList
		if !msg.Changed {
			return m, nil
		}

		m.status = msg.Status

		return m, tea.Batch(m.loadCmd(), m.loadAccountsCmd())

	case paymentChangedMsg:
		m.err = msg.err
		if msg.err == nil && msg.status != "" {
			m.status = msg.status
		}

		return m, tea.Batch(m.loadCmd(), m.loadAccountsCmd())

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.state {
	case paymentsStateTimeframe:
		return m.updateTimeframe(msg)
	case paymentsStateList:
		return m.updateList(msg)
	case paymentsStateEditing:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m PaymentsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			if m.rangeName != "" {
				m.state = paymentsStateList
				return m, nil
			}

			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m PaymentsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)

		return m, cmd
	}

	selected, hasSelection := m.list.SelectedItem().(paymentItem)

	switch keyMsg.String() {
	case "esc":
		if m.list.FilterState() == list.FilterApplied {
			break
		}

		return m, Back
	case "f":
		m.state = paymentsStateTimeframe
		return m, nil
	case "n":
		return m, m.openEditorCmd(payment.TypeExpense, 0)
	case "i":
		return m, m.openEditorCmd(payment.TypeIncome, 0)
	case "t":
		if len(m.add.Types()) < 3 {
			m.status = "Transfers need at least two accounts."
			return m, nil
		}

		return m, m.openEditorCmd(payment.TypeTransfer, 0)
	case "e", "enter":
		if hasSelection {
			return m, m.openEditorCmd(selected.p.Type, selected.p.ID)
		}
	case "d":
		if hasSelection {
			return m, m.deleteCmd(selected.p)
		}
	case "l":
		if hasSelection {
			return m, m.learnCmd(selected.p)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m *PaymentsModel) setItems(msg paymentsLoadedMsg) {
	now := time.Now()
	items := make([]list.Item, len(msg.payments))

	for i, p := range msg.payments {
		accounts := msg.accountNames[p.ChargedAccountID]
		if p.TargetAccountID != nil {
			accounts += " -> " + msg.accountNames[*p.TargetAccountID]
		}

		var categoryName string
		if p.CategoryID != nil {
			categoryName = msg.categoryNames[*p.CategoryID]
		}

		items[i] = paymentItem{
			p:        p,
			amount:   m.signedAmount(p),
			accounts: accounts,
			category: categoryName,
			cleared:  p.IsCleared(now),
		}
	}

	m.list.SetItems(items)
}

// signedAmount shows the amount from the point of view of the account the
// list is limited to. Transfers are neutral across all accounts.
func (m PaymentsModel) signedAmount(p *payment.Payment) string {
	amount := m.vmSvc.Money.Format(p.Amount)

	switch {
	case p.Type == payment.TypeIncome:
		return "+" + amount
	case p.Type == payment.TypeExpense:
		return "-" + amount
	case m.accountID != nil && p.TargetAccountID != nil && *p.TargetAccountID == *m.accountID:
		return "+" + amount
	case m.accountID != nil:
		return "-" + amount
	}

	return amount
}

func (m PaymentsModel) View() string {
	switch m.state {
	case paymentsStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case paymentsStateEditing:
		return lipgloss.NewStyle().Padding(1).Render(m.editor.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading payments...")
	}

	header := fmt.Sprintf("[f] Timeframe: %s", activeStyle(m.rangeName))

	var b strings.Builder

	if line := statusLine(m.status, m.err); line != "" {
		b.WriteString(line + "\n")
	}

	b.WriteString(header + "\n\n")
	b.WriteString(m.list.View())
	b.WriteString("\n" + faintStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

// Messages

type paymentsLoadedMsg struct {
	payments      []*payment.Payment
	accountNames  map[int64]string
	categoryNames map[int64]string
	err           error
}

type addLoadedMsg struct {
	add *viewmodel.AddTransaction
	err error
}

type editorOpenedMsg struct {
	vm         *viewmodel.ModifyPayment
	categories []*category.Category
	err        error
}

type paymentChangedMsg struct {
	status string
	err    error
}

func (m PaymentsModel) loadCmd() tea.Cmd {
	filter := payment.ListFilter{AccountID: m.accountID}
	m.dateRange.Apply(&filter)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		payments, err := m.payments.List(ctx, filter)
		if err != nil {
			return paymentsLoadedMsg{err: err}
		}

		accounts, err := m.accounts.List(ctx, account.ListFilter{})
		if err != nil {
			return paymentsLoadedMsg{err: err}
		}

		categories, err := m.categories.List(ctx, category.ListFilter{})
		if err != nil {
			return paymentsLoadedMsg{err: err}
		}

		msg := paymentsLoadedMsg{
			payments:      payments,
			accountNames:  make(map[int64]string, len(accounts)),
			categoryNames: make(map[int64]string, len(categories)),
		}

		for _, a := range accounts {
			msg.accountNames[a.ID] = a.Name
		}

		for _, c := range categories {
			msg.categoryNames[c.ID] = c.Name
		}

		return msg
	}
}

// loadAccountsCmd refreshes the account list that decides whether transfers
// can be added.
func (m PaymentsModel) loadAccountsCmd() tea.Cmd {
	vmSvc := m.vmSvc

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		add := viewmodel.NewAddTransaction(vmSvc)
		if err := add.Load(ctx); err != nil {
			return addLoadedMsg{err: err}
		}

		return addLoadedMsg{add: add}
	}
}

func (m PaymentsModel) openEditorCmd(typ payment.Type, id int64) tea.Cmd {
	add, categories := m.add, m.categories

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := categories.List(ctx, category.ListFilter{})
		if err != nil {
			return editorOpenedMsg{err: err}
		}

		vm, err := add.Open(ctx, typ, id)
		if err != nil {
			return editorOpenedMsg{err: err}
		}

		return editorOpenedMsg{vm: vm, categories: cats}
	}
}

func (m PaymentsModel) deleteCmd(p *payment.Payment) tea.Cmd {
	add, typ, id := m.add, p.Type, p.ID

	return func() tea.Msg {
		ctx, cancel := interactiveCtx()
		defer cancel()

		vm, err := add.Open(ctx, typ, id)
		if err != nil {
			return paymentChangedMsg{err: err}
		}

		deleted, err := vm.Delete(ctx)
		if err != nil || !deleted {
			return paymentChangedMsg{err: err}
		}

		return paymentChangedMsg{status: "Deleted."}
	}
}

// learnCmd remembers the category of p for future payments with the same note.
func (m PaymentsModel) learnCmd(p *payment.Payment) tea.Cmd {
	if p.CategoryID == nil || strings.TrimSpace(p.Note) == "" {
		return func() tea.Msg {
			return paymentChangedMsg{status: "Only payments with a note and a category can be learned."}
		}
	}

	note, categoryID := p.Note, *p.CategoryID
	categories, marker := m.categories, m.vmSvc.Settings

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := categories.Learn(ctx, note, categoryID); err != nil {
			return paymentChangedMsg{err: err}
		}

		if marker != nil {
			markUpdated(ctx, marker)
		}

		return paymentChangedMsg{status: fmt.Sprintf("Payments noted %q will be categorised the same way.", note)}
	}
}

// paymentItemDelegate renders items in the list.
type paymentItemDelegate struct{}

func (d paymentItemDelegate) Height() int                             { return 2 }
func (d paymentItemDelegate) Spacing() int                            { return 0 }
func (d paymentItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d paymentItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(paymentItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(activeColor).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
