package payment

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("payment not found")
	ErrRecurringNotFound = errors.New("recurring payment not found")
	ErrAccountRequired   = errors.New("charged account is required")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidType       = errors.New("invalid payment type")
	ErrInvalidTransfer   = errors.New("invalid transfer")
	ErrTargetNotAllowed  = errors.New("only transfers have a target account")
	ErrInvalidEndDate    = errors.New("end date must be after today")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrUnknownReference  = errors.New("account or category does not exist")
)

// Type is the kind of money movement a payment represents.
type Type string

const (
	TypeExpense  Type = "expense"
	TypeIncome   Type = "income"
	TypeTransfer Type = "transfer"
)

func (t Type) Valid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer:
		return true
	}

	return false
}

// Label is the capitalised name shown to users.
func (t Type) Label() string {
	switch t {
	case TypeExpense:
		return "Expense"
	case TypeIncome:
		return "Income"
	case TypeTransfer:
		return "Transfer"
	}

	return string(t)
}

// Payment is a single movement of money. Amount is always positive; the
// direction comes from Type.
type Payment struct {
	ID                 int64
	Type               Type
	Amount             int64 // Amount in cents
	Date               time.Time
	Note               string
	ChargedAccountID   int64
	TargetAccountID    *int64 // Transfers only
	CategoryID         *int64
	RecurringPaymentID *int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Delta is a signed change to one account's balance.
type Delta struct {
	AccountID int64
	Amount    int64
}

func (p *Payment) Validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, p.Type)
	}

	if p.ChargedAccountID == 0 {
		return ErrAccountRequired
	}

	if p.Amount <= 0 {
		return ErrInvalidAmount
	}

	if p.Type != TypeTransfer {
		if p.TargetAccountID != nil {
			return ErrTargetNotAllowed
		}

		return nil
	}

	switch {
	case p.TargetAccountID == nil || *p.TargetAccountID == 0:
		return fmt.Errorf("%w: target account is required", ErrInvalidTransfer)
	case *p.TargetAccountID == p.ChargedAccountID:
		return fmt.Errorf("%w: charged and target account must differ", ErrInvalidTransfer)
	case p.CategoryID != nil:
		return fmt.Errorf("%w: transfers cannot have a category", ErrInvalidTransfer)
	}

	return nil
}

// Effect returns the balance changes applying the payment causes, charged
// account first.
func (p *Payment) Effect() []Delta {
	switch p.Type {
	case TypeExpense:
		return []Delta{{AccountID: p.ChargedAccountID, Amount: -p.Amount}}
	case TypeIncome:
		return []Delta{{AccountID: p.ChargedAccountID, Amount: p.Amount}}
	case TypeTransfer:
		deltas := []Delta{{AccountID: p.ChargedAccountID, Amount: -p.Amount}}
		if p.TargetAccountID != nil {
			deltas = append(deltas, Delta{AccountID: *p.TargetAccountID, Amount: p.Amount})
		}

		return deltas
	}

	return nil
}

func (p *Payment) IsTransfer() bool {
	return p.Type == TypeTransfer
}

func (p *Payment) IsRecurring() bool {
	return p.RecurringPaymentID != nil
}

// IsCleared reports whether the payment date has been reached.
func (p *Payment) IsCleared(now time.Time) bool {
	return !DateOnly(p.Date).After(DateOnly(now))
}

// Reverse negates every delta.
func Reverse(deltas []Delta) []Delta {
	out := make([]Delta, len(deltas))
	for i, d := range deltas {
		out[i] = Delta{AccountID: d.AccountID, Amount: -d.Amount}
	}

	return out
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
