package payment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

func ptr[T any](v T) *T {
	return &v
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPayment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       payment.Payment
		wantErr error
	}{
		{
			name: "expense",
			p:    payment.Payment{Type: payment.TypeExpense, Amount: 100, ChargedAccountID: 1},
		},
		{
			name: "transfer",
			p:    payment.Payment{Type: payment.TypeTransfer, Amount: 100, ChargedAccountID: 1, TargetAccountID: ptr(int64(2))},
		},
		{
			name:    "unknown type",
			p:       payment.Payment{Type: "gift", Amount: 100, ChargedAccountID: 1},
			wantErr: payment.ErrInvalidType,
		},
		{
			name:    "missing account",
			p:       payment.Payment{Type: payment.TypeIncome, Amount: 100},
			wantErr: payment.ErrAccountRequired,
		},
		{
			name:    "zero amount",
			p:       payment.Payment{Type: payment.TypeIncome, ChargedAccountID: 1},
			wantErr: payment.ErrInvalidAmount,
		},
		{
			name:    "target on expense",
			p:       payment.Payment{Type: payment.TypeExpense, Amount: 1, ChargedAccountID: 1, TargetAccountID: ptr(int64(2))},
			wantErr: payment.ErrTargetNotAllowed,
		},
		{
			name:    "transfer without target",
			p:       payment.Payment{Type: payment.TypeTransfer, Amount: 1, ChargedAccountID: 1},
			wantErr: payment.ErrInvalidTransfer,
		},
		{
			name:    "transfer to itself",
			p:       payment.Payment{Type: payment.TypeTransfer, Amount: 1, ChargedAccountID: 1, TargetAccountID: ptr(int64(1))},
			wantErr: payment.ErrInvalidTransfer,
		},
		{
			name: "transfer with category",
			p: payment.Payment{
				Type: payment.TypeTransfer, Amount: 1, ChargedAccountID: 1,
				TargetAccountID: ptr(int64(2)), CategoryID: ptr(int64(3)),
			},
			wantErr: payment.ErrInvalidTransfer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPayment_Effect(t *testing.T) {
	tests := []struct {
		name string
		p    payment.Payment
		want []payment.Delta
	}{
		{
			name: "expense debits the charged account",
			p:    payment.Payment{Type: payment.TypeExpense, Amount: 1250, ChargedAccountID: 1},
			want: []payment.Delta{{AccountID: 1, Amount: -1250}},
		},
		{
			name: "income credits the charged account",
			p:    payment.Payment{Type: payment.TypeIncome, Amount: 1250, ChargedAccountID: 1},
			want: []payment.Delta{{AccountID: 1, Amount: 1250}},
		},
		{
			name: "transfer moves money between accounts",
			p:    payment.Payment{Type: payment.TypeTransfer, Amount: 500, ChargedAccountID: 1, TargetAccountID: ptr(int64(2))},
			want: []payment.Delta{{AccountID: 1, Amount: -500}, {AccountID: 2, Amount: 500}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Effect()
			assert.Equal(t, tt.want, got)

			var net int64
			for _, d := range append(got, payment.Reverse(got)...) {
				net += d.Amount
			}

			assert.Zero(t, net, "applying then reversing leaves balances unchanged")
		})
	}
}

func TestPayment_IsCleared(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

	assert.True(t, (&payment.Payment{Date: day(2026, 5, 10)}).IsCleared(now))
	assert.True(t, (&payment.Payment{Date: day(2026, 5, 1)}).IsCleared(now))
	assert.False(t, (&payment.Payment{Date: day(2026, 5, 11)}).IsCleared(now))
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, 2, 3, 23, 59, 59, 1, time.UTC)
	assert.Equal(t, day(2026, 2, 3), payment.DateOnly(in))
}

func TestNewImportParams(t *testing.T) {
	at := time.Date(2026, 2, 13, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		signed int64
		want   payment.ImportParams
		wantOK bool
	}{
		{
			name:   "money out is an expense",
			signed: -60813,
			want:   payment.ImportParams{Type: payment.TypeExpense, Amount: 60813, Date: day(2026, 2, 13), Note: "TSU"},
			wantOK: true,
		},
		{
			name:   "money in is income",
			signed: 432406,
			want:   payment.ImportParams{Type: payment.TypeIncome, Amount: 432406, Date: day(2026, 2, 13), Note: "TSU"},
			wantOK: true,
		},
		{
			name: "zero books nothing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := payment.NewImportParams(at, "TSU", tt.signed)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
