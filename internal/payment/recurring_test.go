package payment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

func TestSchedule_Validate(t *testing.T) {
	now := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		s       payment.Schedule
		wantErr error
	}{
		{
			name: "endless",
			s:    payment.Schedule{Recurrence: payment.Monthly, IsEndless: true},
		},
		{
			name: "ends tomorrow",
			s:    payment.Schedule{Recurrence: payment.Monthly, EndDate: ptr(day(2026, 4, 11))},
		},
		{
			name:    "ends today",
			s:       payment.Schedule{Recurrence: payment.Monthly, EndDate: ptr(day(2026, 4, 10))},
			wantErr: payment.ErrInvalidEndDate,
		},
		{
			name:    "ended yesterday",
			s:       payment.Schedule{Recurrence: payment.Monthly, EndDate: ptr(day(2026, 4, 9))},
			wantErr: payment.ErrInvalidEndDate,
		},
		{
			name:    "no end date",
			s:       payment.Schedule{Recurrence: payment.Monthly},
			wantErr: payment.ErrInvalidEndDate,
		},
		{
			name:    "unknown recurrence",
			s:       payment.Schedule{Recurrence: 9, IsEndless: true},
			wantErr: payment.ErrInvalidRecurrence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate(now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRecurring_CopiesTemplate(t *testing.T) {
	p := &payment.Payment{
		ID:               7,
		Type:             payment.TypeTransfer,
		Amount:           2000,
		Date:             time.Date(2026, 1, 31, 14, 0, 0, 0, time.UTC),
		Note:             "rent",
		ChargedAccountID: 1,
		TargetAccountID:  ptr(int64(2)),
	}

	rp := payment.NewRecurring(p, payment.Schedule{Recurrence: payment.Monthly, IsEndless: true, EndDate: ptr(day(2027, 1, 1))})

	assert.Equal(t, int64(7), rp.SourcePaymentID)
	assert.Equal(t, day(2026, 1, 31), rp.StartDate)
	assert.Nil(t, rp.EndDate, "endless schedules drop the end date")
	assert.Equal(t, "rent", rp.Note)

	*p.TargetAccountID = 3
	assert.Equal(t, int64(2), *rp.TargetAccountID, "target is copied, not shared")

	occ := rp.NewPayment(day(2026, 2, 28))
	assert.Zero(t, occ.ID)
	assert.Nil(t, occ.RecurringPaymentID)
	assert.Equal(t, payment.TypeTransfer, occ.Type)
	assert.Equal(t, int64(2000), occ.Amount)
}

func TestRecurringPayment_DueDates(t *testing.T) {
	tests := []struct {
		name  string
		rp    payment.RecurringPayment
		now   time.Time
		limit int
		want  []time.Time
	}{
		{
			name:  "nothing due before the first occurrence",
			rp:    payment.RecurringPayment{Recurrence: payment.Monthly, StartDate: day(2026, 1, 31), IsEndless: true},
			now:   day(2026, 2, 27),
			limit: 10,
		},
		{
			name:  "monthly catch up keeps the anchor day",
			rp:    payment.RecurringPayment{Recurrence: payment.Monthly, StartDate: day(2026, 1, 31), IsEndless: true},
			now:   day(2026, 4, 30),
			limit: 10,
			want:  []time.Time{day(2026, 2, 28), day(2026, 3, 31), day(2026, 4, 30)},
		},
		{
			name: "resumes after last execution",
			rp: payment.RecurringPayment{
				Recurrence: payment.Weekly, StartDate: day(2026, 1, 1), IsEndless: true,
				LastExecution: ptr(day(2026, 1, 15)),
			},
			now:   day(2026, 1, 29),
			limit: 10,
			want:  []time.Time{day(2026, 1, 22), day(2026, 1, 29)},
		},
		{
			name: "source moved past the last execution",
			rp: payment.RecurringPayment{
				Recurrence: payment.Monthly, StartDate: day(2026, 4, 10), IsEndless: true,
				LastExecution: ptr(day(2026, 3, 15)),
			},
			now:   day(2026, 5, 20),
			limit: 10,
			want:  []time.Time{day(2026, 5, 10)},
		},
		{
			name: "source moved past the last execution, nothing due yet",
			rp: payment.RecurringPayment{
				Recurrence: payment.Monthly, StartDate: day(2026, 4, 10), IsEndless: true,
				LastExecution: ptr(day(2026, 3, 15)),
			},
			now:   day(2026, 4, 20),
			limit: 10,
		},
		{
			name: "stops at the end date",
			rp: payment.RecurringPayment{
				Recurrence: payment.Daily, StartDate: day(2026, 1, 1),
				EndDate: ptr(day(2026, 1, 3)),
			},
			now:   day(2026, 1, 10),
			limit: 10,
			want:  []time.Time{day(2026, 1, 2), day(2026, 1, 3)},
		},
		{
			name:  "honours the limit",
			rp:    payment.RecurringPayment{Recurrence: payment.Daily, StartDate: day(2026, 1, 1), IsEndless: true},
			now:   day(2026, 12, 31),
			limit: 2,
			want:  []time.Time{day(2026, 1, 2), day(2026, 1, 3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rp.DueDates(tt.now, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) > 0, tt.rp.IsDue(tt.now))
		})
	}
}

func TestRecurringPayment_NextOccurrence(t *testing.T) {
	rp := payment.RecurringPayment{
		Recurrence: payment.Yearly, StartDate: day(2025, 3, 1),
		EndDate: ptr(day(2026, 1, 1)),
	}

	next, ok := rp.NextOccurrence()
	require.False(t, ok)
	assert.Equal(t, day(2026, 3, 1), next)

	rp.EndDate = nil
	rp.IsEndless = true

	_, ok = rp.NextOccurrence()
	assert.True(t, ok)
}

func TestRecurringPayment_UpdateMovesSourcePastExecution(t *testing.T) {
	p := &payment.Payment{ID: 3, Type: payment.TypeExpense, Amount: 900, Date: day(2026, 1, 15), ChargedAccountID: 1}
	rp := payment.NewRecurring(p, payment.Schedule{Recurrence: payment.Monthly, IsEndless: true})
	rp.LastExecution = ptr(day(2026, 3, 15))

	p.Date = day(2026, 4, 10)
	rp.Update(p, rp.Schedule())

	for _, d := range rp.DueDates(day(2026, 6, 30), 10) {
		assert.True(t, d.After(p.Date), "occurrence %s repeats the source payment", d.Format(time.DateOnly))
	}

	next, ok := rp.NextOccurrence()
	require.True(t, ok)
	assert.Equal(t, day(2026, 5, 10), next)
}
