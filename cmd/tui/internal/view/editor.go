package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/category"
	"github.com/MrJamesThe3rd/moneybox/internal/money"
	"github.com/MrJamesThe3rd/moneybox/internal/viewmodel"
)

// EditorClosedMsg is emitted once the payment editor is done. Changed is
// false when the user backed out.
type EditorClosedMsg struct {
	Changed bool
	Status  string
}

type paymentFields struct {
	charged  int64
	target   int64
	amount   string
	date     string
	note     string
	category int64

	recurring  bool
	recurrence int
	endless    bool
	endDate    string
}

// EditorModel drives one ModifyPayment through a form.
type EditorModel struct {
	vm         *viewmodel.ModifyPayment
	money      *money.Formatter
	categories []*category.Category

	form   *huh.Form
	fields *paymentFields
	saving bool
	err    error
}

func NewEditorModel(vm *viewmodel.ModifyPayment, f *money.Formatter, categories []*category.Category) EditorModel {
	p := vm.Payment()

	fields := &paymentFields{
		charged:    p.ChargedAccountID,
		date:       FormatDate(p.Date),
		note:       p.Note,
		recurring:  vm.IsRecurring(),
		recurrence: vm.RecurrenceIndex(),
		endless:    vm.IsEndless(),
		endDate:    FormatDate(vm.EndDate()),
	}

	if p.Amount > 0 {
		fields.amount = vm.AmountString()
	}

	if p.TargetAccountID != nil {
		fields.target = *p.TargetAccountID
	}

	if p.CategoryID != nil {
		fields.category = *p.CategoryID
	}

	m := EditorModel{vm: vm, money: f, categories: categories, fields: fields}
	m.form = m.buildForm()

	return m
}

func (m EditorModel) Init() tea.Cmd {
	return m.form.Init()
}

func accountOptions(accounts []*account.Account, f *money.Formatter) []huh.Option[int64] {
	opts := make([]huh.Option[int64], 0, len(accounts))
	for _, a := range accounts {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", a.Name, f.Format(a.CurrentBalance)), a.ID))
	}

	return opts
}

func (m EditorModel) buildForm() *huh.Form {
	vm, fields := m.vm, m.fields

	categoryOpts := []huh.Option[int64]{huh.NewOption("None", int64(0))}
	for _, c := range m.categories {
		categoryOpts = append(categoryOpts, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title(vm.AccountHeader()).
				Options(accountOptions(vm.ChargedAccounts(), m.money)...).
				Value(&fields.charged).
				Validate(func(id int64) error {
					if id == 0 {
						return errors.New("select an account")
					}

					return nil
				}),
		).Title(vm.Title()),

		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Transfer to").
				OptionsFunc(func() []huh.Option[int64] {
					vm.SelectChargedAccount(fields.charged)
					return accountOptions(vm.TargetAccounts(), m.money)
				}, &fields.charged).
				Value(&fields.target),
		).WithHideFunc(func() bool { return !vm.IsTransfer() }),

		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Placeholder("0" + m.money.DecimalMark() + "00").
				Value(&fields.amount).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("enter an amount")
					}

					return vm.SetAmountString(s)
				}),

			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&fields.date).
				Validate(validDate),

			huh.NewInput().
				Title("Note").
				Value(&fields.note),
		),

		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Category").
				Options(categoryOpts...).
				Value(&fields.category),
		).WithHideFunc(vm.IsTransfer),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Recurring?").
				Value(&fields.recurring),
		),

		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Repeats").
				Options(recurrenceOptions(vm.RecurrenceList())...).
				Value(&fields.recurrence),

			huh.NewConfirm().
				Title("Endless?").
				Value(&fields.endless),
		).WithHideFunc(func() bool { return !fields.recurring }),

		huh.NewGroup(
			huh.NewInput().
				Title("Ends on").
				Placeholder("YYYY-MM-DD").
				Value(&fields.endDate).
				Validate(validDate),
		).WithHideFunc(func() bool { return !fields.recurring || fields.endless }),
	).WithWidth(50).WithShowHelp(false)
}

func recurrenceOptions(labels []string) []huh.Option[int] {
	opts := make([]huh.Option[int], len(labels))
	for i, l := range labels {
		opts[i] = huh.NewOption(l, i)
	}

	return opts
}

func validDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case editorSavedMsg:
		m.saving = false

		if msg.err != nil {
			// The view-model has already told the user; the form reopens as entered.
			m.err = msg.err
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return EditorClosedMsg{Changed: true, Status: "Saved."} }

	case editorCancelledMsg:
		return m, func() tea.Msg { return EditorClosedMsg{} }

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}

		if msg.Type == tea.KeyEsc {
			return m, m.cancelCmd()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.saving {
		m.saving = true
		return m, m.saveCmd()
	}

	return m, cmd
}

func (m EditorModel) View() string {
	body := m.form.View()
	if m.saving {
		body = faintStyle.Render("Saving...")
	}

	if line := statusLine("", m.err); line != "" {
		body = line + "\n\n" + body
	}

	return panelStyle.Width(56).Render(body + "\n\n" + faintStyle.Render("Esc: cancel"))
}

type editorSavedMsg struct {
	err error
}

type editorCancelledMsg struct{}

func (m EditorModel) saveCmd() tea.Cmd {
	vm, fields, categories := m.vm, *m.fields, m.categories

	return func() tea.Msg {
		ctx, cancel := interactiveCtx()
		defer cancel()

		vm.SelectChargedAccount(fields.charged)
		vm.SelectTargetAccount(fields.target)

		if err := vm.SetAmountString(fields.amount); err != nil {
			return editorSavedMsg{err: err}
		}

		if d, err := time.Parse(time.DateOnly, strings.TrimSpace(fields.date)); err == nil {
			vm.SetDate(d)
		}

		vm.SetNote(strings.TrimSpace(fields.note))

		vm.ResetCategory()

		for _, c := range categories {
			if c.ID == fields.category {
				vm.CategorySelector()(c)
			}
		}

		vm.SetRecurring(fields.recurring)

		if err := vm.SelectRecurrence(fields.recurrence); err != nil {
			return editorSavedMsg{err: err}
		}

		vm.SetEndless(fields.endless)

		if d, err := time.Parse(time.DateOnly, strings.TrimSpace(fields.endDate)); err == nil {
			vm.SetEndDate(d)
		}

		return editorSavedMsg{err: vm.Save(ctx)}
	}
}

func (m EditorModel) cancelCmd() tea.Cmd {
	vm := m.vm

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := vm.Cancel(ctx); err != nil {
			return editorSavedMsg{err: err}
		}

		return editorCancelledMsg{}
	}
}
