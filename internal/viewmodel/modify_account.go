package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
)

// ModifyAccount is the state of the add/edit account screen.
type ModifyAccount struct {
	svc Services

	account     *account.Account
	isEdit      bool
	balanceText string
}

func NewModifyAccount(svc Services) *ModifyAccount {
	return &ModifyAccount{svc: svc}
}

// Init opens the editor on a new account (id 0) or an existing one.
func (vm *ModifyAccount) Init(ctx context.Context, id int64) error {
	if id == 0 {
		vm.account = &account.Account{}
		vm.isEdit = false
	} else {
		a, err := vm.svc.Accounts.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("loading account %d: %w", id, err)
		}

		vm.account = a
		vm.isEdit = true
	}

	vm.balanceText = vm.svc.Money.Format(vm.account.CurrentBalance)

	return nil
}

func (vm *ModifyAccount) Account() *account.Account { return vm.account }
func (vm *ModifyAccount) IsEdit() bool { return vm.isEdit }

func (vm *ModifyAccount) Title() string {
	if vm.isEdit {
		return "Edit Account"
	}

	return "Add Account"
}

func (vm *ModifyAccount) SetName(name string) { vm.account.Name = name }
func (vm *ModifyAccount) SetIBAN(iban string) { vm.account.IBAN = iban }
func (vm *ModifyAccount) SetNote(note string) { vm.account.Note = note }

// BalanceString is the balance as last formatted.
func (vm *ModifyAccount) BalanceString() string { return vm.balanceText }

// SetBalanceString parses the opening balance and reformats the text, the
// way the field looks after it loses focus. Existing accounts keep the
// balance their payments produced, so edits only change the text shown.
func (vm *ModifyAccount) SetBalanceString(s string) error {
	cents, err := vm.svc.Money.Parse(s)
	if err != nil {
		return err
	}

	if !vm.isEdit {
		vm.account.CurrentBalance = cents
	}

	vm.balanceText = vm.svc.Money.Format(vm.account.CurrentBalance)

	return nil
}

func (vm *ModifyAccount) Save(ctx context.Context) error {
	if strings.TrimSpace(vm.account.Name) == "" {
		if err := vm.svc.Dialog.ShowMessage(ctx, "Name required", "Please enter a name for the account."); err != nil {
			return err
		}

		return account.ErrNameRequired
	}

	if vm.isEdit {
		if err := vm.svc.Accounts.Update(ctx, vm.account); err != nil {
			return &UserError{Title: "Could not save account", Message: "The account was not saved", Err: err}
		}
	} else {
		a, err := vm.svc.Accounts.Create(ctx, account.CreateParams{
			Name:           vm.account.Name,
			IBAN:           vm.account.IBAN,
			Note:           vm.account.Note,
			InitialBalance: vm.account.CurrentBalance,
		})
		if err != nil {
			return &UserError{Title: "Could not save account", Message: "The account was not saved", Err: err}
		}

		vm.account = a
		vm.isEdit = true
	}

	touch(ctx, vm.svc)

	return nil
}

// Delete asks for confirmation first. Accounts that still have payments are
// refused with a message.
func (vm *ModifyAccount) Delete(ctx context.Context) (bool, error) {
	if !vm.isEdit {
		return false, nil
	}

	ok, err := vm.svc.Dialog.ShowConfirm(ctx, "Delete account", fmt.Sprintf("Are you sure you want to delete %q?", vm.account.Name))
	if err != nil || !ok {
		return false, err
	}

	if err := vm.svc.Accounts.Delete(ctx, vm.account.ID); err != nil {
		if errors.Is(err, account.ErrInUse) {
			show(ctx, vm.svc, "Account in use", "Delete or move the payments of this account first.")
		}

		return false, err
	}

	touch(ctx, vm.svc)

	return true, nil
}
