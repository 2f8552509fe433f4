package viewmodel

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

// AddTransaction is the entry point that opens a payment editor of a
// chosen type.
type AddTransaction struct {
	svc Services

	IsEdit   bool
	Type     payment.Type
	Accounts []*account.Account
}

func NewAddTransaction(svc Services) *AddTransaction {
	return &AddTransaction{svc: svc, Type: payment.TypeExpense}
}

func (a *AddTransaction) Load(ctx context.Context) error {
	accounts, err := a.svc.Accounts.List(ctx, account.ListFilter{})
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}

	a.Accounts = accounts

	return nil
}

// Types lists what can be added. Transfers need two accounts.
func (a *AddTransaction) Types() []payment.Type {
	types := []payment.Type{payment.TypeExpense, payment.TypeIncome}
	if len(a.Accounts) > 1 {
		types = append(types, payment.TypeTransfer)
	}

	return types
}

// Open starts an editor for a new payment of typ, or for payment id when id
// is not 0.
func (a *AddTransaction) Open(ctx context.Context, typ payment.Type, id int64) (*ModifyPayment, error) {
	vm := NewModifyPayment(a.svc)
	if err := vm.Init(ctx, typ, id); err != nil {
		return nil, err
	}

	a.IsEdit = vm.IsEdit()
	a.Type = vm.Payment().Type

	return vm, nil
}
