package payment

import (
	"time"
)

// Schedule is what a user picks when marking a payment as recurring.
type Schedule struct {
	Recurrence Recurrence
	IsEndless  bool
	EndDate    *time.Time
}

// Validate requires an end date strictly after today unless the schedule is endless.
func (s Schedule) Validate(now time.Time) error {
	if !s.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}

	if s.IsEndless {
		return nil
	}

	if s.EndDate == nil || !DateOnly(*s.EndDate).After(DateOnly(now)) {
		return ErrInvalidEndDate
	}

	return nil
}

// RecurringPayment generates copies of its source payment on a schedule.
type RecurringPayment struct {
	ID               int64
	SourcePaymentID  int64
	Recurrence       Recurrence
	StartDate        time.Time
	EndDate          *time.Time // nil when endless
	IsEndless        bool
	Type             Type
	Amount           int64
	Note             string
	ChargedAccountID int64
	TargetAccountID  *int64
	CategoryID       *int64
	LastExecution    *time.Time
	CreatedAt        time.Time
}

// NewRecurring builds a schedule owned by p. p must already have an ID.
func NewRecurring(p *Payment, s Schedule) *RecurringPayment {
	rp := &RecurringPayment{}
	rp.Update(p, s)

	return rp
}

// Update copies the payment template and schedule onto rp, keeping its
// identity and execution history.
func (rp *RecurringPayment) Update(p *Payment, s Schedule) {
	rp.SourcePaymentID = p.ID
	rp.Recurrence = s.Recurrence
	rp.StartDate = DateOnly(p.Date)
	rp.IsEndless = s.IsEndless
	rp.EndDate = nil

	if !s.IsEndless && s.EndDate != nil {
		end := DateOnly(*s.EndDate)
		rp.EndDate = &end
	}

	rp.Type = p.Type
	rp.Amount = p.Amount
	rp.Note = p.Note
	rp.ChargedAccountID = p.ChargedAccountID
	rp.TargetAccountID = copyID(p.TargetAccountID)
	rp.CategoryID = copyID(p.CategoryID)
}

func (rp *RecurringPayment) Schedule() Schedule {
	return Schedule{Recurrence: rp.Recurrence, IsEndless: rp.IsEndless, EndDate: rp.EndDate}
}

// NewPayment creates the occurrence for date. It is not linked back to the
// schedule: only the source payment owns it.
func (rp *RecurringPayment) NewPayment(date time.Time) *Payment {
	return &Payment{
		Type:             rp.Type,
		Amount:           rp.Amount,
		Date:             DateOnly(date),
		Note:             rp.Note,
		ChargedAccountID: rp.ChargedAccountID,
		TargetAccountID:  copyID(rp.TargetAccountID),
		CategoryID:       copyID(rp.CategoryID),
	}
}

// DueDates lists, oldest first, the occurrences after the later of the last
// execution and the start date (which the source payment covers) up to today. At
// most limit dates are returned.
func (rp *RecurringPayment) DueDates(now time.Time, limit int) []time.Time {
	today := DateOnly(now)
	cursor := rp.cursor()

	var dates []time.Time

	for len(dates) < limit {
		next := rp.Recurrence.Next(rp.StartDate, cursor)
		if next.After(today) || rp.ended(next) {
			break
		}

		dates = append(dates, next)
		cursor = next
	}

	return dates
}

func (rp *RecurringPayment) IsDue(now time.Time) bool {
	return len(rp.DueDates(now, 1)) > 0
}

// NextOccurrence is the first date after the last execution, whether or not
// it has been reached yet. The second result is false when the schedule ended.
func (rp *RecurringPayment) NextOccurrence() (time.Time, bool) {
	next := rp.Recurrence.Next(rp.StartDate, rp.cursor())

	return next, !rp.ended(next)
}

// cursor is the date the next occurrence follows. A source payment moved
// past the last execution covers everything up to its own date.
func (rp *RecurringPayment) cursor() time.Time {
	start := DateOnly(rp.StartDate)
	if rp.LastExecution == nil {
		return start
	}

	last := DateOnly(*rp.LastExecution)
	if start.After(last) {
		return start
	}

	return last
}

func (rp *RecurringPayment) ended(d time.Time) bool {
	return !rp.IsEndless && rp.EndDate != nil && d.After(DateOnly(*rp.EndDate))
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}

	v := *id

	return &v
}
