package payment

import (
	"fmt"
	"time"
)

// Recurrence is the cadence of a recurring payment. Its numeric value is
// stored and doubles as the index into RecurrenceList.
type Recurrence int

const (
	Daily Recurrence = iota
	DailyWithoutWeekend
	Weekly
	Monthly
	Yearly
	Biweekly
)

var recurrenceLabels = [...]string{
	Daily:               "Daily",
	DailyWithoutWeekend: "Daily (without weekend)",
	Weekly:              "Weekly",
	Monthly:             "Monthly",
	Yearly:              "Yearly",
	Biweekly:            "Biweekly",
}

// RecurrenceList returns the labels in index order.
func RecurrenceList() []string {
	return append([]string(nil), recurrenceLabels[:]...)
}

func RecurrenceFromIndex(i int) (Recurrence, error) {
	r := Recurrence(i)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: index %d", ErrInvalidRecurrence, i)
	}

	return r, nil
}

func (r Recurrence) Index() int {
	return int(r)
}

func (r Recurrence) Valid() bool {
	return r >= Daily && int(r) < len(recurrenceLabels)
}

func (r Recurrence) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Recurrence(%d)", int(r))
	}

	return recurrenceLabels[r]
}

// First returns the first occurrence on or after start.
func (r Recurrence) First(start time.Time) time.Time {
	d := DateOnly(start)
	if r == DailyWithoutWeekend {
		d = skipWeekend(d)
	}

	return d
}

// Next returns the occurrence following from. Monthly and yearly schedules
// keep the day of anchor, clamped to the length of the month.
func (r Recurrence) Next(anchor, from time.Time) time.Time {
	from = DateOnly(from)

	switch r {
	case Daily:
		return from.AddDate(0, 0, 1)
	case DailyWithoutWeekend:
		return skipWeekend(from.AddDate(0, 0, 1))
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Biweekly:
		return from.AddDate(0, 0, 14)
	case Monthly:
		y, m, _ := from.Date()
		return clampedDate(y, m+1, anchor.Day())
	case Yearly:
		return clampedDate(from.Year()+1, anchor.Month(), anchor.Day())
	}

	return from
}

func skipWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}

	return d
}

// clampedDate builds y-m-day, using the month's last day when day overflows it.
func clampedDate(y int, m time.Month, day int) time.Time {
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()

	return first.AddDate(0, 0, min(day, last)-1)
}
