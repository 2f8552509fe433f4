package viewmodel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/category"
	"github.com/MrJamesThe3rd/moneybox/internal/money"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
	"github.com/MrJamesThe3rd/moneybox/internal/viewmodel"
)

var today = time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

type mocks struct {
	payments *viewmodel.MockPaymentManager
	accounts *viewmodel.MockAccountService
	settings *viewmodel.MockUpdateMarker
	dialog   *viewmodel.MockDialog
}

func newServices(t *testing.T) (viewmodel.Services, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		payments: viewmodel.NewMockPaymentManager(ctrl),
		accounts: viewmodel.NewMockAccountService(ctrl),
		settings: viewmodel.NewMockUpdateMarker(ctrl),
		dialog:   viewmodel.NewMockDialog(ctrl),
	}

	svc := viewmodel.Services{
		Payments: m.payments,
		Accounts: m.accounts,
		Settings: m.settings,
		Dialog:   m.dialog,
		Money:    money.NewFormatter("en"),
		Now:      func() time.Time { return today },
	}

	return svc, m
}

func threeAccounts() []*account.Account {
	return []*account.Account{
		{ID: 1, Name: "Checking"},
		{ID: 2, Name: "Savings", IsDefault: true},
		{ID: 3, Name: "Cash"},
	}
}

func ids(accounts []*account.Account) []int64 {
	out := make([]int64, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.ID)
	}

	return out
}

func newEditor(t *testing.T, typ payment.Type) (*viewmodel.ModifyPayment, mocks) {
	t.Helper()

	svc, m := newServices(t)
	m.accounts.EXPECT().List(gomock.Any(), account.ListFilter{}).Return(threeAccounts(), nil)

	vm := viewmodel.NewModifyPayment(svc)
	require.NoError(t, vm.Init(context.Background(), typ, 0))

	return vm, m
}

func TestModifyPayment_InitNew(t *testing.T) {
	vm, _ := newEditor(t, payment.TypeExpense)

	p := vm.Payment()
	assert.Zero(t, p.ID)
	assert.Zero(t, p.Amount)
	assert.Equal(t, day(2026, 6, 10), p.Date)
	assert.Equal(t, int64(2), p.ChargedAccountID, "default account from settings")
	assert.True(t, vm.IsEndless())
	assert.False(t, vm.IsRecurring())
	assert.False(t, vm.IsEdit())
	assert.True(t, vm.IsOpen())
	assert.Equal(t, "Add Expense", vm.Title())
	assert.Equal(t, "Charged account", vm.AccountHeader())
}

func TestModifyPayment_InitNew_FirstAccountWithoutDefault(t *testing.T) {
	svc, m := newServices(t)
	m.accounts.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*account.Account{{ID: 5}, {ID: 6}}, nil)

	vm := viewmodel.NewModifyPayment(svc)
	require.NoError(t, vm.Init(context.Background(), payment.TypeIncome, 0))

	assert.Equal(t, int64(5), vm.Payment().ChargedAccountID)
	assert.Equal(t, "Target account", vm.AccountHeader())
}

func TestModifyPayment_InitEdit(t *testing.T) {
	svc, m := newServices(t)

	stored := &payment.Payment{
		ID: 9, Type: payment.TypeTransfer, Amount: 5000, ChargedAccountID: 1,
		TargetAccountID: ptr(int64(3)), RecurringPaymentID: ptr(int64(4)),
	}

	m.accounts.EXPECT().List(gomock.Any(), gomock.Any()).Return(threeAccounts(), nil)
	m.payments.EXPECT().Get(gomock.Any(), int64(9)).Return(stored, nil)
	m.payments.EXPECT().RecurringFor(gomock.Any(), stored).Return(&payment.RecurringPayment{
		ID: 4, Recurrence: payment.Biweekly, EndDate: ptr(day(2026, 12, 1)),
	}, nil)

	vm := viewmodel.NewModifyPayment(svc)
	require.NoError(t, vm.Init(context.Background(), payment.TypeExpense, 9))

	assert.True(t, vm.IsEdit())
	assert.Equal(t, "Edit Transfer", vm.Title())
	assert.True(t, vm.IsRecurring())
	assert.False(t, vm.IsEndless())
	assert.Equal(t, payment.Biweekly.Index(), vm.RecurrenceIndex())
	assert.Equal(t, day(2026, 12, 1), vm.EndDate())
	assert.Equal(t, "50.00", vm.AmountString())

	assert.Equal(t, []int64{1, 2}, ids(vm.ChargedAccounts()))
	assert.Equal(t, []int64{2, 3}, ids(vm.TargetAccounts()))
}

func TestModifyPayment_AccountExclusion(t *testing.T) {
	vm, _ := newEditor(t, payment.TypeTransfer)

	vm.SelectChargedAccount(1)
	vm.SelectTargetAccount(3)
	assert.Equal(t, []int64{1, 2}, ids(vm.ChargedAccounts()))
	assert.Equal(t, []int64{2, 3}, ids(vm.TargetAccounts()))

	// Picking the target as charged clears the target and frees it up again.
	vm.SelectChargedAccount(3)
	assert.Nil(t, vm.Payment().TargetAccountID)
	assert.Equal(t, []int64{1, 2, 3}, ids(vm.ChargedAccounts()))
	assert.Equal(t, []int64{1, 2}, ids(vm.TargetAccounts()))

	// Repeated switching never duplicates entries.
	for _, id := range []int64{1, 2, 1, 3} {
		vm.SelectTargetAccount(id)
		vm.SelectChargedAccount(4 - id)
	}

	assert.Len(t, vm.ChargedAccounts(), 2)
	assert.Len(t, vm.TargetAccounts(), 2)
	assert.ElementsMatch(t, []int64{1, 2, 3}, append(ids(vm.TargetAccounts()), vm.Payment().ChargedAccountID))
}

func TestModifyPayment_TargetIgnoredOutsideTransfers(t *testing.T) {
	vm, _ := newEditor(t, payment.TypeExpense)

	vm.SelectTargetAccount(3)
	assert.Nil(t, vm.Payment().TargetAccountID)
	assert.Len(t, vm.ChargedAccounts(), 3)
}

func TestModifyPayment_Amount(t *testing.T) {
	vm, _ := newEditor(t, payment.TypeExpense)

	require.NoError(t, vm.SetAmountString("1,234.5"))
	assert.Equal(t, int64(123450), vm.Payment().Amount)
	assert.Equal(t, "1,234.50", vm.AmountString())

	assert.ErrorIs(t, vm.SetAmountString("-3"), payment.ErrInvalidAmount)
	assert.ErrorIs(t, vm.SetAmountString("abc"), money.ErrInvalidAmount)
	assert.Equal(t, int64(123450), vm.Payment().Amount)
}

func TestModifyPayment_Recurrence(t *testing.T) {
	vm, _ := newEditor(t, payment.TypeExpense)

	labels := vm.RecurrenceList()
	require.Len(t, labels, 6)

	require.NoError(t, vm.SelectRecurrence(3))
	assert.Equal(t, "Monthly", labels[vm.RecurrenceIndex()])

	assert.ErrorIs(t, vm.SelectRecurrence(7), payment.ErrInvalidRecurrence)
	assert.Equal(t, 3, vm.RecurrenceIndex())
}

func TestModifyPayment_CategorySelector(t *testing.T) {
	vm, _ := newEditor(t, payment.TypeExpense)

	pick := vm.CategorySelector()
	pick(&category.Category{ID: 7, Name: "Food"})

	require.NotNil(t, vm.Payment().CategoryID)
	assert.Equal(t, int64(7), *vm.Payment().CategoryID)
	assert.Equal(t, "Food", vm.CategoryName())

	vm.ResetCategory()
	assert.Nil(t, vm.Payment().CategoryID)

	vm.Close()
	pick(&category.Category{ID: 8, Name: "Late"})
	assert.Nil(t, vm.Payment().CategoryID, "callbacks are ignored once the editor is closed")
}

func TestModifyPayment_Save(t *testing.T) {
	errDB := errors.New("db error")

	tests := []struct {
		name      string
		typ       payment.Type
		prepare   func(vm *viewmodel.ModifyPayment)
		setupMock func(m mocks)
		wantErr   error
		wantOpen  bool
	}{
		{
			name: "saves and marks the database updated",
			typ:  payment.TypeExpense,
			prepare: func(vm *viewmodel.ModifyPayment) {
				require.NoError(t, vm.SetAmountString("12.30"))
			},
			setupMock: func(m mocks) {
				gomock.InOrder(
					m.payments.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil),
					m.settings.EXPECT().MarkUpdated(gomock.Any(), today).Return(nil),
				)
			},
		},
		{
			name: "charged account required",
			typ:  payment.TypeExpense,
			prepare: func(vm *viewmodel.ModifyPayment) {
				require.NoError(t, vm.SetAmountString("1"))
				vm.SelectChargedAccount(0)
			},
			setupMock: func(m mocks) {
				m.dialog.EXPECT().ShowMessage(gomock.Any(), "Account required", gomock.Any()).Return(nil)
			},
			wantErr:  payment.ErrAccountRequired,
			wantOpen: true,
		},
		{
			name: "end date today is rejected",
			typ:  payment.TypeExpense,
			prepare: func(vm *viewmodel.ModifyPayment) {
				require.NoError(t, vm.SetAmountString("1"))
				vm.SetRecurring(true)
				vm.SetEndless(false)
				vm.SetEndDate(today)
			},
			setupMock: func(m mocks) {
				m.dialog.EXPECT().ShowMessage(gomock.Any(), "Invalid end date", gomock.Any()).Return(nil)
			},
			wantErr:  payment.ErrInvalidEndDate,
			wantOpen: true,
		},
		{
			name: "end date tomorrow is accepted",
			typ:  payment.TypeIncome,
			prepare: func(vm *viewmodel.ModifyPayment) {
				require.NoError(t, vm.SetAmountString("1"))
				vm.SetRecurring(true)
				vm.SetEndless(false)
				vm.SetEndDate(today.AddDate(0, 0, 1))
				require.NoError(t, vm.SelectRecurrence(payment.Weekly.Index()))
			},
			setupMock: func(m mocks) {
				m.payments.EXPECT().Save(gomock.Any(), gomock.Any(), &payment.Schedule{
					Recurrence: payment.Weekly,
					EndDate:    ptr(day(2026, 6, 11)),
				}).Return(nil)
				m.settings.EXPECT().MarkUpdated(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "transfer needs a target",
			typ:  payment.TypeTransfer,
			prepare: func(vm *viewmodel.ModifyPayment) {
				require.NoError(t, vm.SetAmountString("1"))
			},
			setupMock: func(m mocks) {
				m.dialog.EXPECT().ShowMessage(gomock.Any(), "Target account required", gomock.Any()).Return(nil)
			},
			wantErr:  payment.ErrInvalidTransfer,
			wantOpen: true,
		},
		{
			name:    "zero amount",
			typ:     payment.TypeExpense,
			prepare: func(*viewmodel.ModifyPayment) {},
			setupMock: func(m mocks) {
				m.dialog.EXPECT().ShowMessage(gomock.Any(), "Invalid amount", gomock.Any()).Return(nil)
			},
			wantErr:  payment.ErrInvalidAmount,
			wantOpen: true,
		},
		{
			name: "storage failure keeps the editor open",
			typ:  payment.TypeExpense,
			prepare: func(vm *viewmodel.ModifyPayment) {
				require.NoError(t, vm.SetAmountString("1"))
			},
			setupMock: func(m mocks) {
				m.payments.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errDB)
				m.dialog.EXPECT().ShowMessage(gomock.Any(), "Could not save payment", gomock.Any()).Return(nil)
			},
			wantErr:  errDB,
			wantOpen: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, m := newEditor(t, tt.typ)
			tt.prepare(vm)
			tt.setupMock(m)

			err := vm.Save(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantOpen, vm.IsOpen())
		})
	}
}

func TestModifyPayment_Save_UserError(t *testing.T) {
	vm, m := newEditor(t, payment.TypeExpense)
	require.NoError(t, vm.SetAmountString("1"))

	m.payments.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	m.dialog.EXPECT().ShowMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err := vm.Save(context.Background())

	var uerr *viewmodel.UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Could not save payment", uerr.Title)
}

func TestModifyPayment_Delete(t *testing.T) {
	svc, m := newServices(t)

	stored := &payment.Payment{ID: 9, Type: payment.TypeExpense, Amount: 100, ChargedAccountID: 1}

	m.accounts.EXPECT().List(gomock.Any(), gomock.Any()).Return(threeAccounts(), nil)
	m.payments.EXPECT().Get(gomock.Any(), int64(9)).Return(stored, nil)
	m.payments.EXPECT().RecurringFor(gomock.Any(), stored).Return(nil, payment.ErrRecurringNotFound)

	vm := viewmodel.NewModifyPayment(svc)
	require.NoError(t, vm.Init(context.Background(), payment.TypeExpense, 9))

	m.dialog.EXPECT().ShowConfirm(gomock.Any(), "Delete payment", gomock.Any()).Return(false, nil)

	deleted, err := vm.Delete(context.Background())
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.True(t, vm.IsOpen())

	gomock.InOrder(
		m.dialog.EXPECT().ShowConfirm(gomock.Any(), "Delete payment", gomock.Any()).Return(true, nil),
		m.payments.EXPECT().Delete(gomock.Any(), stored).Return(nil),
		m.settings.EXPECT().MarkUpdated(gomock.Any(), today).Return(nil),
	)

	deleted, err = vm.Delete(context.Background())
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, vm.IsOpen())
}

func TestModifyPayment_Cancel_DiscardsEdits(t *testing.T) {
	svc, m := newServices(t)

	m.accounts.EXPECT().List(gomock.Any(), gomock.Any()).Return(threeAccounts(), nil)
	m.payments.EXPECT().Get(gomock.Any(), int64(9)).
		Return(&payment.Payment{ID: 9, Type: payment.TypeExpense, Amount: 100, ChargedAccountID: 1}, nil)
	m.payments.EXPECT().RecurringFor(gomock.Any(), gomock.Any()).Return(nil, payment.ErrRecurringNotFound)

	vm := viewmodel.NewModifyPayment(svc)
	require.NoError(t, vm.Init(context.Background(), payment.TypeExpense, 9))

	require.NoError(t, vm.SetAmountString("999"))
	vm.SelectChargedAccount(3)

	m.payments.EXPECT().Get(gomock.Any(), int64(9)).
		Return(&payment.Payment{ID: 9, Type: payment.TypeExpense, Amount: 100, ChargedAccountID: 1}, nil)

	require.NoError(t, vm.Cancel(context.Background()))
	assert.False(t, vm.IsOpen())
	assert.Equal(t, int64(100), vm.Payment().Amount)
	assert.Equal(t, int64(1), vm.Payment().ChargedAccountID)
}
