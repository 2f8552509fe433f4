package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type mocks struct {
	repo      *payment.MockRepository
	tx        *payment.MockTx
	suggester *payment.MockCategorySuggester
}

func newManager(t *testing.T) (*payment.Manager, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:      payment.NewMockRepository(ctrl),
		tx:        payment.NewMockTx(ctrl),
		suggester: payment.NewMockCategorySuggester(ctrl),
	}

	mgr := payment.NewManager(m.repo,
		payment.WithClock(func() time.Time { return fixedNow }),
		payment.WithCategorySuggester(m.suggester))

	return mgr, m
}

// expectTx makes Begin hand out the mock transaction, which is always rolled
// back on exit (a no-op after commit).
func (m mocks) expectTx() {
	m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback().Return(nil).AnyTimes()
}

func TestManager_Save(t *testing.T) {
	errDB := errors.New("db error")

	type testCase struct {
		name      string
		payment   *payment.Payment
		schedule  *payment.Schedule
		setupMock func(m mocks)
		wantErr   error
		check     func(t *testing.T, p *payment.Payment)
	}

	tests := []testCase{
		{
			name:    "new expense debits the charged account",
			payment: &payment.Payment{Type: payment.TypeExpense, Amount: 1000, ChargedAccountID: 1, Date: fixedNow},
			setupMock: func(m mocks) {
				m.expectTx()
				gomock.InOrder(
					m.tx.EXPECT().SavePayment(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, p *payment.Payment) error {
							assert.Equal(t, day(2026, 3, 15), p.Date)
							p.ID = 5
							return nil
						}),
					m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(-1000)).Return(nil),
					m.tx.EXPECT().Commit().Return(nil),
				)
			},
			check: func(t *testing.T, p *payment.Payment) {
				assert.Equal(t, int64(5), p.ID)
				assert.False(t, p.IsRecurring())
			},
		},
		{
			name: "edit reverses the stored version before applying the new one",
			payment: &payment.Payment{
				ID: 5, Type: payment.TypeExpense, Amount: 1500, ChargedAccountID: 2, Date: fixedNow,
			},
			setupMock: func(m mocks) {
				m.expectTx()
				gomock.InOrder(
					m.tx.EXPECT().FindPayment(gomock.Any(), int64(5)).Return(&payment.Payment{
						ID: 5, Type: payment.TypeExpense, Amount: 1000, ChargedAccountID: 1,
					}, nil),
					m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(1000)).Return(nil),
					m.tx.EXPECT().SavePayment(gomock.Any(), gomock.Any()).Return(nil),
					m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(2), int64(-1500)).Return(nil),
					m.tx.EXPECT().Commit().Return(nil),
				)
			},
		},
		{
			name:     "new recurring payment creates and links its schedule",
			payment:  &payment.Payment{Type: payment.TypeIncome, Amount: 250000, ChargedAccountID: 1, Date: fixedNow},
			schedule: &payment.Schedule{Recurrence: payment.Monthly, IsEndless: true},
			setupMock: func(m mocks) {
				m.expectTx()
				gomock.InOrder(
					m.tx.EXPECT().SavePayment(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, p *payment.Payment) error {
							p.ID = 5
							return nil
						}),
					m.tx.EXPECT().SaveRecurring(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, rp *payment.RecurringPayment) error {
							assert.Equal(t, int64(5), rp.SourcePaymentID)
							assert.Equal(t, payment.Monthly, rp.Recurrence)
							rp.ID = 9
							return nil
						}),
					m.tx.EXPECT().LinkRecurring(gomock.Any(), int64(5), ptr(int64(9))).Return(nil),
					m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(250000)).Return(nil),
					m.tx.EXPECT().Commit().Return(nil),
				)
			},
			check: func(t *testing.T, p *payment.Payment) {
				require.True(t, p.IsRecurring())
				assert.Equal(t, int64(9), *p.RecurringPaymentID)
			},
		},
		{
			name:    "clearing the schedule deletes it",
			payment: &payment.Payment{ID: 5, Type: payment.TypeIncome, Amount: 100, ChargedAccountID: 1, Date: fixedNow},
			setupMock: func(m mocks) {
				m.expectTx()
				gomock.InOrder(
					m.tx.EXPECT().FindPayment(gomock.Any(), int64(5)).Return(&payment.Payment{
						ID: 5, Type: payment.TypeIncome, Amount: 100, ChargedAccountID: 1, RecurringPaymentID: ptr(int64(9)),
					}, nil),
					m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(-100)).Return(nil),
					m.tx.EXPECT().SavePayment(gomock.Any(), gomock.Any()).Return(nil),
					m.tx.EXPECT().DeleteRecurring(gomock.Any(), int64(9)).Return(nil),
					m.tx.EXPECT().LinkRecurring(gomock.Any(), int64(5), gomock.Nil()).Return(nil),
					m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(100)).Return(nil),
					m.tx.EXPECT().Commit().Return(nil),
				)
			},
			check: func(t *testing.T, p *payment.Payment) {
				assert.False(t, p.IsRecurring())
			},
		},
		{
			name:    "editing a recurring payment updates the existing schedule",
			payment: &payment.Payment{ID: 5, Type: payment.TypeExpense, Amount: 900, ChargedAccountID: 1, Date: fixedNow},
			schedule: &payment.Schedule{
				Recurrence: payment.Weekly, EndDate: ptr(day(2026, 12, 31)),
			},
			setupMock: func(m mocks) {
				m.expectTx()
				m.tx.EXPECT().FindPayment(gomock.Any(), int64(5)).Return(&payment.Payment{
					ID: 5, Type: payment.TypeExpense, Amount: 800, ChargedAccountID: 1, RecurringPaymentID: ptr(int64(9)),
				}, nil)
				m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(800)).Return(nil)
				m.tx.EXPECT().SavePayment(gomock.Any(), gomock.Any()).Return(nil)
				m.tx.EXPECT().FindRecurring(gomock.Any(), int64(9)).Return(&payment.RecurringPayment{
					ID: 9, SourcePaymentID: 5, Recurrence: payment.Monthly, IsEndless: true,
					LastExecution: ptr(day(2026, 3, 1)),
				}, nil)
				m.tx.EXPECT().SaveRecurring(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rp *payment.RecurringPayment) error {
						assert.Equal(t, int64(9), rp.ID)
						assert.Equal(t, payment.Weekly, rp.Recurrence)
						assert.False(t, rp.IsEndless)
						assert.Equal(t, int64(900), rp.Amount)
						assert.NotNil(t, rp.LastExecution)
						return nil
					})
				m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(-900)).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:      "invalid payment never opens a transaction",
			payment:   &payment.Payment{Type: payment.TypeExpense, Amount: 0, ChargedAccountID: 1},
			setupMock: func(mocks) {},
			wantErr:   payment.ErrInvalidAmount,
		},
		{
			name:      "end date must be after today",
			payment:   &payment.Payment{Type: payment.TypeExpense, Amount: 10, ChargedAccountID: 1},
			schedule:  &payment.Schedule{Recurrence: payment.Daily, EndDate: ptr(fixedNow)},
			setupMock: func(mocks) {},
			wantErr:   payment.ErrInvalidEndDate,
		},
		{
			name:    "failed save leaves a new payment unsaved",
			payment: &payment.Payment{Type: payment.TypeExpense, Amount: 10, ChargedAccountID: 1},
			setupMock: func(m mocks) {
				m.expectTx()
				m.tx.EXPECT().SavePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *payment.Payment) error {
						p.ID = 5
						return nil
					})
				m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(-10)).Return(errDB)
			},
			wantErr: errDB,
			check: func(t *testing.T, p *payment.Payment) {
				assert.Zero(t, p.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, m := newManager(t)
			tt.setupMock(m)

			err := mgr.Save(context.Background(), tt.payment, tt.schedule)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			if tt.check != nil {
				tt.check(t, tt.payment)
			}
		})
	}
}

func TestManager_Delete(t *testing.T) {
	mgr, m := newManager(t)
	m.expectTx()

	stored := &payment.Payment{
		ID: 5, Type: payment.TypeTransfer, Amount: 300, ChargedAccountID: 1,
		TargetAccountID: ptr(int64(2)), RecurringPaymentID: ptr(int64(9)),
	}

	gomock.InOrder(
		m.tx.EXPECT().FindPayment(gomock.Any(), int64(5)).Return(stored, nil),
		m.tx.EXPECT().DeleteRecurring(gomock.Any(), int64(9)).Return(payment.ErrRecurringNotFound),
		m.tx.EXPECT().DeletePayment(gomock.Any(), int64(5)).Return(nil),
		m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(300)).Return(nil),
		m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(2), int64(-300)).Return(nil),
		m.tx.EXPECT().Commit().Return(nil),
	)

	p := &payment.Payment{ID: 5, RecurringPaymentID: ptr(int64(9))}
	require.NoError(t, mgr.Delete(context.Background(), p))
	assert.False(t, p.IsRecurring())
}

func TestManager_RemovePaymentAmount_Override(t *testing.T) {
	mgr, m := newManager(t)
	m.expectTx()

	m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(7), int64(400)).Return(nil)
	m.tx.EXPECT().Commit().Return(nil)

	p := &payment.Payment{Type: payment.TypeExpense, Amount: 400, ChargedAccountID: 1}
	require.NoError(t, mgr.RemovePaymentAmount(context.Background(), p, &payment.AppliedAccounts{ChargedAccountID: 7}))
	assert.Equal(t, int64(1), p.ChargedAccountID, "the payment itself is untouched")
}

func TestManager_RemovePaymentAmount_TransferOverride(t *testing.T) {
	mgr, m := newManager(t)
	m.expectTx()

	m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(400)).Return(nil)
	m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(5), int64(-400)).Return(nil)
	m.tx.EXPECT().Commit().Return(nil)

	p := &payment.Payment{Type: payment.TypeTransfer, Amount: 400, ChargedAccountID: 3, TargetAccountID: ptr(int64(2))}
	applied := &payment.AppliedAccounts{ChargedAccountID: 1, TargetAccountID: ptr(int64(5))}
	require.NoError(t, mgr.RemovePaymentAmount(context.Background(), p, applied))
	assert.Equal(t, int64(2), *p.TargetAccountID)
}

func TestManager_AddPaymentAmount_Transfer(t *testing.T) {
	mgr, m := newManager(t)
	m.expectTx()

	m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(-400)).Return(nil)
	m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(2), int64(400)).Return(nil)
	m.tx.EXPECT().Commit().Return(nil)

	p := &payment.Payment{Type: payment.TypeTransfer, Amount: 400, ChargedAccountID: 1, TargetAccountID: ptr(int64(2))}
	require.NoError(t, mgr.AddPaymentAmount(context.Background(), p))
}

func TestManager_CheckRecurrenceOfPayment(t *testing.T) {
	mgr, m := newManager(t)

	ok, err := mgr.CheckRecurrenceOfPayment(context.Background(), &payment.Payment{ID: 1})
	require.NoError(t, err)
	assert.False(t, ok)

	m.repo.EXPECT().FindRecurringByID(gomock.Any(), int64(9)).Return(nil, payment.ErrRecurringNotFound)

	ok, err = mgr.CheckRecurrenceOfPayment(context.Background(), &payment.Payment{ID: 1, RecurringPaymentID: ptr(int64(9))})
	require.NoError(t, err)
	assert.False(t, ok)

	m.repo.EXPECT().FindRecurringByID(gomock.Any(), int64(9)).Return(&payment.RecurringPayment{ID: 9}, nil)

	ok, err = mgr.CheckRecurrenceOfPayment(context.Background(), &payment.Payment{ID: 1, RecurringPaymentID: ptr(int64(9))})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager_RemoveRecurringForPayment(t *testing.T) {
	mgr, m := newManager(t)
	m.expectTx()

	m.tx.EXPECT().DeleteRecurring(gomock.Any(), int64(9)).Return(nil)
	m.tx.EXPECT().LinkRecurring(gomock.Any(), int64(5), gomock.Nil()).Return(nil)
	m.tx.EXPECT().Commit().Return(nil)

	p := &payment.Payment{ID: 5, RecurringPaymentID: ptr(int64(9))}
	require.NoError(t, mgr.RemoveRecurringForPayment(context.Background(), p))
	assert.Nil(t, p.RecurringPaymentID)
}

func TestManager_Import(t *testing.T) {
	mgr, m := newManager(t)
	m.expectTx()

	params := []payment.ImportParams{
		{Type: payment.TypeExpense, Amount: 450, Date: day(2026, 3, 1), Note: "UBER TRIP"},
		{Type: payment.TypeIncome, Amount: 100000, Date: day(2026, 3, 2), Note: "SALARY"},
	}

	m.tx.EXPECT().FindDuplicates(gomock.Any(), int64(1), params).Return([]*payment.Payment{
		{Type: payment.TypeIncome, Amount: 100000, Date: day(2026, 3, 2), Note: "SALARY"},
	}, nil)
	m.suggester.EXPECT().SuggestID(gomock.Any(), "UBER TRIP").Return(ptr(int64(3)), nil)
	m.suggester.EXPECT().SuggestID(gomock.Any(), "SALARY").Return(nil, nil)
	m.tx.EXPECT().SavePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *payment.Payment) error {
			assert.Equal(t, int64(1), p.ChargedAccountID)
			require.NotNil(t, p.CategoryID)
			assert.Equal(t, int64(3), *p.CategoryID)
			p.ID = 11
			return nil
		})
	m.tx.EXPECT().AdjustBalance(gomock.Any(), int64(1), int64(-450)).Return(nil)
	m.tx.EXPECT().Commit().Return(nil)

	res, err := mgr.Import(context.Background(), 1, params)
	require.NoError(t, err)
	require.Len(t, res.Imported, 1)
	assert.Equal(t, int64(11), res.Imported[0].ID)
	assert.Equal(t, []payment.ImportParams{params[1]}, res.Duplicates)
}
