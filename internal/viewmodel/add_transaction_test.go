package viewmodel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
	"github.com/MrJamesThe3rd/moneybox/internal/viewmodel"
)

func TestAddTransaction_Types(t *testing.T) {
	svc, m := newServices(t)
	add := viewmodel.NewAddTransaction(svc)

	m.accounts.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*account.Account{{ID: 1}}, nil)
	require.NoError(t, add.Load(context.Background()))
	assert.Equal(t, []payment.Type{payment.TypeExpense, payment.TypeIncome}, add.Types())

	m.accounts.EXPECT().List(gomock.Any(), gomock.Any()).Return(threeAccounts(), nil)
	require.NoError(t, add.Load(context.Background()))
	assert.Contains(t, add.Types(), payment.TypeTransfer)
}

func TestAddTransaction_Open(t *testing.T) {
	svc, m := newServices(t)
	add := viewmodel.NewAddTransaction(svc)

	m.accounts.EXPECT().List(gomock.Any(), gomock.Any()).Return(threeAccounts(), nil)

	vm, err := add.Open(context.Background(), payment.TypeIncome, 0)
	require.NoError(t, err)

	assert.False(t, add.IsEdit)
	assert.Equal(t, payment.TypeIncome, add.Type)
	assert.Equal(t, "Add Income", vm.Title())

	_, err = add.Open(context.Background(), "gift", 0)
	assert.ErrorIs(t, err, payment.ErrInvalidType)
}
