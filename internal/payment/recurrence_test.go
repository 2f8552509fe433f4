package payment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

func TestRecurrenceList(t *testing.T) {
	list := payment.RecurrenceList()
	require.Len(t, list, 6)

	for i, label := range list {
		r, err := payment.RecurrenceFromIndex(i)
		require.NoError(t, err)
		assert.Equal(t, i, r.Index())
		assert.Equal(t, label, r.String())
	}

	assert.Equal(t, "Monthly", list[payment.Monthly.Index()])

	_, err := payment.RecurrenceFromIndex(6)
	assert.ErrorIs(t, err, payment.ErrInvalidRecurrence)

	_, err = payment.RecurrenceFromIndex(-1)
	assert.ErrorIs(t, err, payment.ErrInvalidRecurrence)
}

func TestRecurrence_Next(t *testing.T) {
	tests := []struct {
		name   string
		r      payment.Recurrence
		anchor time.Time
		from   time.Time
		want   time.Time
	}{
		{"daily", payment.Daily, day(2026, 1, 1), day(2026, 1, 31), day(2026, 2, 1)},
		{"weekday from friday", payment.DailyWithoutWeekend, day(2026, 1, 2), day(2026, 1, 2), day(2026, 1, 5)},
		{"weekday from tuesday", payment.DailyWithoutWeekend, day(2026, 1, 6), day(2026, 1, 6), day(2026, 1, 7)},
		{"weekly", payment.Weekly, day(2026, 1, 1), day(2026, 1, 1), day(2026, 1, 8)},
		{"biweekly", payment.Biweekly, day(2026, 1, 1), day(2026, 1, 1), day(2026, 1, 15)},
		{"monthly", payment.Monthly, day(2026, 1, 15), day(2026, 1, 15), day(2026, 2, 15)},
		{"monthly clamps to february", payment.Monthly, day(2026, 1, 31), day(2026, 1, 31), day(2026, 2, 28)},
		{"monthly recovers the anchor day", payment.Monthly, day(2026, 1, 31), day(2026, 2, 28), day(2026, 3, 31)},
		{"monthly over new year", payment.Monthly, day(2025, 12, 10), day(2025, 12, 10), day(2026, 1, 10)},
		{"yearly", payment.Yearly, day(2025, 6, 1), day(2025, 6, 1), day(2026, 6, 1)},
		{"yearly leap day", payment.Yearly, day(2024, 2, 29), day(2024, 2, 29), day(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Next(tt.anchor, tt.from))
		})
	}
}

func TestRecurrence_First(t *testing.T) {
	// 2026-01-03 is a Saturday.
	assert.Equal(t, day(2026, 1, 5), payment.DailyWithoutWeekend.First(day(2026, 1, 3)))
	assert.Equal(t, day(2026, 1, 3), payment.Daily.First(time.Date(2026, 1, 3, 18, 0, 0, 0, time.UTC)))
}
