package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/category"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

// CategorySelector is handed to a category picker. It applies the picked
// category to the editor that produced it and does nothing once that editor
// has been closed.
type CategorySelector func(c *category.Category)

// ModifyPayment is the state of the add/edit payment screen.
type ModifyPayment struct {
	svc Services

	payment *payment.Payment
	isEdit  bool

	accounts        []*account.Account
	chargedAccounts []*account.Account
	targetAccounts  []*account.Account

	isRecurring bool
	recurrence  payment.Recurrence
	isEndless   bool
	endDate     time.Time

	categoryName string

	open    bool
	session int
}

func NewModifyPayment(svc Services) *ModifyPayment {
	return &ModifyPayment{svc: svc}
}

// Init opens the editor. id 0 starts a new payment of type typ; any other id
// loads that payment, whose own type wins.
func (vm *ModifyPayment) Init(ctx context.Context, typ payment.Type, id int64) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: %q", payment.ErrInvalidType, typ)
	}

	accounts, err := vm.svc.Accounts.List(ctx, account.ListFilter{})
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}

	vm.accounts = accounts
	vm.categoryName = ""
	vm.isRecurring = false
	vm.recurrence = payment.Monthly
	vm.isEndless = true
	vm.endDate = payment.DateOnly(vm.svc.now())

	if id == 0 {
		vm.isEdit = false
		vm.payment = &payment.Payment{Type: typ, Date: payment.DateOnly(vm.svc.now())}

		if def, err := account.PickDefault(accounts); err == nil {
			vm.payment.ChargedAccountID = def.ID
		}
	} else {
		if err := vm.load(ctx, id); err != nil {
			return err
		}
	}

	vm.refreshAccountLists()
	vm.open = true
	vm.session++

	return nil
}

func (vm *ModifyPayment) load(ctx context.Context, id int64) error {
	p, err := vm.svc.Payments.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading payment %d: %w", id, err)
	}

	vm.isEdit = true
	vm.payment = p

	rp, err := vm.svc.Payments.RecurringFor(ctx, p)
	switch {
	case err == nil:
		vm.isRecurring = true
		vm.recurrence = rp.Recurrence
		vm.isEndless = rp.IsEndless

		if rp.EndDate != nil {
			vm.endDate = *rp.EndDate
		}
	case errors.Is(err, payment.ErrRecurringNotFound):
	default:
		return fmt.Errorf("loading recurrence: %w", err)
	}

	return nil
}

// Payment exposes the payment being edited.
func (vm *ModifyPayment) Payment() *payment.Payment { return vm.payment }

func (vm *ModifyPayment) IsEdit() bool { return vm.isEdit }
func (vm *ModifyPayment) IsOpen() bool { return vm.open }
func (vm *ModifyPayment) IsTransfer() bool { return vm.payment.IsTransfer() }

func (vm *ModifyPayment) Title() string {
	verb := "Add"
	if vm.isEdit {
		verb = "Edit"
	}

	return verb + " " + vm.payment.Type.Label()
}

// AccountHeader labels the account picker: income lands on the account, so
// it is the target from the user's point of view.
func (vm *ModifyPayment) AccountHeader() string {
	if vm.payment.Type == payment.TypeIncome {
		return "Target account"
	}

	return "Charged account"
}

func (vm *ModifyPayment) SetDate(d time.Time) { vm.payment.Date = payment.DateOnly(d) }
func (vm *ModifyPayment) SetNote(note string) { vm.payment.Note = note }

func (vm *ModifyPayment) AmountString() string {
	return vm.svc.Money.Format(vm.payment.Amount)
}

// SetAmountString parses user input in the current locale. Negative amounts
// are rejected since the type carries the direction.
func (vm *ModifyPayment) SetAmountString(s string) error {
	cents, err := vm.svc.Money.Parse(s)
	if err != nil {
		return err
	}

	if cents < 0 {
		return fmt.Errorf("%w: %q", payment.ErrInvalidAmount, s)
	}

	vm.payment.Amount = cents

	return nil
}

func (vm *ModifyPayment) ChargedAccounts() []*account.Account {
	return slices.Clone(vm.chargedAccounts)
}

func (vm *ModifyPayment) TargetAccounts() []*account.Account {
	return slices.Clone(vm.targetAccounts)
}

// SelectChargedAccount picks the charged account; 0 clears it. The same
// account stops being a target candidate.
func (vm *ModifyPayment) SelectChargedAccount(id int64) {
	vm.payment.ChargedAccountID = id

	if t := vm.payment.TargetAccountID; t != nil && *t == id {
		vm.payment.TargetAccountID = nil
	}

	vm.refreshAccountLists()
}

// SelectTargetAccount picks the transfer target; 0 clears it. Ignored for
// other payment types.
func (vm *ModifyPayment) SelectTargetAccount(id int64) {
	if !vm.payment.IsTransfer() {
		return
	}

	if id == 0 {
		vm.payment.TargetAccountID = nil
	} else {
		vm.payment.TargetAccountID = &id
		if vm.payment.ChargedAccountID == id {
			vm.payment.ChargedAccountID = 0
		}
	}

	vm.refreshAccountLists()
}

// refreshAccountLists rebuilds both candidate lists from the full account
// list, each without the account chosen on the other side.
func (vm *ModifyPayment) refreshAccountLists() {
	var target int64
	if vm.payment.TargetAccountID != nil {
		target = *vm.payment.TargetAccountID
	}

	vm.chargedAccounts = vm.chargedAccounts[:0]
	vm.targetAccounts = vm.targetAccounts[:0]

	for _, a := range vm.accounts {
		if !vm.payment.IsTransfer() || a.ID != target {
			vm.chargedAccounts = append(vm.chargedAccounts, a)
		}

		if a.ID != vm.payment.ChargedAccountID {
			vm.targetAccounts = append(vm.targetAccounts, a)
		}
	}
}

func (vm *ModifyPayment) RecurrenceList() []string { return payment.RecurrenceList() }
func (vm *ModifyPayment) RecurrenceIndex() int { return vm.recurrence.Index() }

func (vm *ModifyPayment) SelectRecurrence(index int) error {
	r, err := payment.RecurrenceFromIndex(index)
	if err != nil {
		return err
	}

	vm.recurrence = r

	return nil
}

func (vm *ModifyPayment) IsRecurring() bool { return vm.isRecurring }
func (vm *ModifyPayment) SetRecurring(recurring bool) { vm.isRecurring = recurring }
func (vm *ModifyPayment) IsEndless() bool { return vm.isEndless }
func (vm *ModifyPayment) SetEndless(endless bool) { vm.isEndless = endless }
func (vm *ModifyPayment) EndDate() time.Time { return vm.endDate }
func (vm *ModifyPayment) SetEndDate(d time.Time) { vm.endDate = payment.DateOnly(d) }

func (vm *ModifyPayment) CategoryName() string { return vm.categoryName }

// CategorySelector returns the callback a category picker reports back to.
func (vm *ModifyPayment) CategorySelector() CategorySelector {
	session := vm.session

	return func(c *category.Category) {
		if !vm.open || vm.session != session || c == nil || vm.payment.IsTransfer() {
			return
		}

		id := c.ID
		vm.payment.CategoryID = &id
		vm.categoryName = c.Name
	}
}

func (vm *ModifyPayment) ResetCategory() {
	vm.payment.CategoryID = nil
	vm.categoryName = ""
}

func (vm *ModifyPayment) schedule() *payment.Schedule {
	if !vm.isRecurring {
		return nil
	}

	s := &payment.Schedule{Recurrence: vm.recurrence, IsEndless: vm.isEndless}
	if !vm.isEndless {
		end := vm.endDate
		s.EndDate = &end
	}

	return s
}

// Save validates the form, persists the payment with its schedule and closes
// the editor. A failed check is shown to the user and returned; the editor
// stays open and untouched.
func (vm *ModifyPayment) Save(ctx context.Context) error {
	if err := vm.check(ctx); err != nil {
		return err
	}

	if vm.payment.IsTransfer() {
		vm.payment.CategoryID = nil
	}

	if err := vm.svc.Payments.Save(ctx, vm.payment, vm.schedule()); err != nil {
		uerr := &UserError{Title: "Could not save payment", Message: "The payment was not saved", Err: err}
		show(ctx, vm.svc, uerr.Title, uerr.Error())

		return uerr
	}

	touch(ctx, vm.svc)
	vm.Close()

	return nil
}

func (vm *ModifyPayment) check(ctx context.Context) error {
	var title, msg string

	var err error

	p := vm.payment

	switch {
	case p.ChargedAccountID == 0:
		title, msg, err = "Account required", "Please select the account for this payment.", payment.ErrAccountRequired
	case p.IsTransfer() && p.TargetAccountID == nil:
		title, msg, err = "Target account required", "Please select the account to transfer to.", payment.ErrInvalidTransfer
	case p.Amount <= 0:
		title, msg, err = "Invalid amount", "The amount must be greater than zero.", payment.ErrInvalidAmount
	case vm.isRecurring && !vm.isEndless && !vm.endDate.After(payment.DateOnly(vm.svc.now())):
		title, msg, err = "Invalid end date", "The end date of a recurring payment must be after today.", payment.ErrInvalidEndDate
	default:
		return nil
	}

	show(ctx, vm.svc, title, msg)

	return err
}

// Delete asks for confirmation, then removes the payment and its schedule.
// It reports whether the payment was deleted.
func (vm *ModifyPayment) Delete(ctx context.Context) (bool, error) {
	if !vm.isEdit {
		return false, nil
	}

	ok, err := vm.svc.Dialog.ShowConfirm(ctx, "Delete payment", "Are you sure you want to delete this payment?")
	if err != nil || !ok {
		return false, err
	}

	if err := vm.svc.Payments.Delete(ctx, vm.payment); err != nil {
		return false, &UserError{Title: "Could not delete payment", Message: "The payment was not deleted", Err: err}
	}

	touch(ctx, vm.svc)
	vm.Close()

	return true, nil
}

// Cancel drops unsaved edits by reloading the stored payment, then closes.
func (vm *ModifyPayment) Cancel(ctx context.Context) error {
	if vm.isEdit {
		p, err := vm.svc.Payments.Get(ctx, vm.payment.ID)
		if err != nil && !errors.Is(err, payment.ErrNotFound) {
			return fmt.Errorf("reloading payment: %w", err)
		}

		if p != nil {
			vm.payment = p
		}
	}

	vm.Close()

	return nil
}

func (vm *ModifyPayment) Close() {
	vm.open = false
}
