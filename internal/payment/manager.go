package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

//go:generate mockgen -source=manager.go -destination=repository_mock.go -package=payment
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	GetList(ctx context.Context, filter ListFilter) ([]*Payment, error)
	FindByID(ctx context.Context, id int64) (*Payment, error)
	GetRecurringList(ctx context.Context, filter RecurringFilter) ([]*RecurringPayment, error)
	FindRecurringByID(ctx context.Context, id int64) (*RecurringPayment, error)
}

// Tx is one unit of work. Payments, their schedules and the balances they
// touch are written through the same Tx so they commit or roll back together.
type Tx interface {
	FindPayment(ctx context.Context, id int64) (*Payment, error)
	SavePayment(ctx context.Context, p *Payment) error
	DeletePayment(ctx context.Context, id int64) error
	LinkRecurring(ctx context.Context, paymentID int64, recurringID *int64) error

	FindRecurring(ctx context.Context, id int64) (*RecurringPayment, error)
	SaveRecurring(ctx context.Context, rp *RecurringPayment) error
	DeleteRecurring(ctx context.Context, id int64) error

	AdjustBalance(ctx context.Context, accountID, delta int64) error
	FindDuplicates(ctx context.Context, accountID int64, params []ImportParams) ([]*Payment, error)

	Commit() error
	Rollback() error
}

// CategorySuggester guesses a category for a payment note.
type CategorySuggester interface {
	SuggestID(ctx context.Context, text string) (*int64, error)
}

type ListFilter struct {
	AccountID  *int64 // Matches charged or target account
	Type       *Type
	CategoryID *int64
	StartDate  *time.Time
	EndDate    *time.Time
}

type RecurringFilter struct {
	AccountID  *int64
	Recurrence *Recurrence
}

// ImportParams is one movement read from a bank export.
type ImportParams struct {
	Type   Type
	Amount int64
	Date   time.Time
	Note   string
}

// NewImportParams turns a statement movement into import params. signed is
// the movement in cents as the bank shows it: money leaving the account is
// negative and becomes an expense, money arriving becomes income. A zero
// movement books nothing and reports false.
func NewImportParams(date time.Time, note string, signed int64) (ImportParams, bool) {
	ip := ImportParams{Date: DateOnly(date), Note: note}

	switch {
	case signed < 0:
		ip.Type, ip.Amount = TypeExpense, -signed
	case signed > 0:
		ip.Type, ip.Amount = TypeIncome, signed
	default:
		return ImportParams{}, false
	}

	return ip, true
}

type ImportResult struct {
	Imported   []*Payment
	Duplicates []ImportParams
}

// Manager keeps account balances in step with the payments that exist.
type Manager struct {
	repo      Repository
	suggester CategorySuggester
	now       func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithCategorySuggester(s CategorySuggester) Option {
	return func(m *Manager) { m.suggester = s }
}

func NewManager(repo Repository, opts ...Option) *Manager {
	m := &Manager{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) List(ctx context.Context, filter ListFilter) ([]*Payment, error) {
	return m.repo.GetList(ctx, filter)
}

func (m *Manager) Get(ctx context.Context, id int64) (*Payment, error) {
	return m.repo.FindByID(ctx, id)
}

func (m *Manager) ListRecurring(ctx context.Context, filter RecurringFilter) ([]*RecurringPayment, error) {
	return m.repo.GetRecurringList(ctx, filter)
}

// RecurringFor returns the schedule owned by p, or ErrRecurringNotFound.
func (m *Manager) RecurringFor(ctx context.Context, p *Payment) (*RecurringPayment, error) {
	if p.RecurringPaymentID == nil {
		return nil, ErrRecurringNotFound
	}

	return m.repo.FindRecurringByID(ctx, *p.RecurringPaymentID)
}

// Save creates or updates p and reconciles its schedule: a non-nil schedule
// creates or updates it, a nil one removes any existing schedule. When p is
// being edited, the stored version's amount is reversed against the accounts
// it was stored with before the new amount is applied.
func (m *Manager) Save(ctx context.Context, p *Payment, schedule *Schedule) (err error) {
	isNew, link := p.ID == 0, p.RecurringPaymentID

	defer func() {
		if err != nil {
			if isNew {
				p.ID = 0
			}

			p.RecurringPaymentID = link
		}
	}()

	p.Date = DateOnly(p.Date)

	if err := p.Validate(); err != nil {
		return err
	}

	if schedule != nil {
		if err := schedule.Validate(m.now()); err != nil {
			return err
		}
	}

	tx, err := m.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	if p.ID != 0 {
		original, err := tx.FindPayment(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("loading original payment: %w", err)
		}

		if err := adjust(ctx, tx, Reverse(original.Effect())); err != nil {
			return fmt.Errorf("reversing original amount: %w", err)
		}

		p.RecurringPaymentID = original.RecurringPaymentID
	}

	if err := tx.SavePayment(ctx, p); err != nil {
		return fmt.Errorf("saving payment: %w", err)
	}

	if err := m.reconcileRecurring(ctx, tx, p, schedule); err != nil {
		return err
	}

	if err := adjust(ctx, tx, p.Effect()); err != nil {
		return fmt.Errorf("applying amount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing payment: %w", err)
	}

	slog.Debug("payment saved", "payment_id", p.ID, "type", p.Type, "amount", p.Amount, "recurring", p.IsRecurring())

	return nil
}

func (m *Manager) reconcileRecurring(ctx context.Context, tx Tx, p *Payment, schedule *Schedule) error {
	if schedule == nil {
		if p.RecurringPaymentID == nil {
			return nil
		}

		if err := deleteRecurring(ctx, tx, *p.RecurringPaymentID); err != nil {
			return err
		}

		if err := tx.LinkRecurring(ctx, p.ID, nil); err != nil {
			return fmt.Errorf("unlinking recurring payment: %w", err)
		}

		p.RecurringPaymentID = nil

		return nil
	}

	var rp *RecurringPayment

	if p.RecurringPaymentID != nil {
		existing, err := tx.FindRecurring(ctx, *p.RecurringPaymentID)
		switch {
		case err == nil:
			rp = existing
		case !errors.Is(err, ErrRecurringNotFound):
			return fmt.Errorf("loading recurring payment: %w", err)
		}
	}

	if rp == nil {
		rp = NewRecurring(p, *schedule)
	} else {
		rp.Update(p, *schedule)
	}

	if err := tx.SaveRecurring(ctx, rp); err != nil {
		return fmt.Errorf("saving recurring payment: %w", err)
	}

	if p.RecurringPaymentID == nil || *p.RecurringPaymentID != rp.ID {
		id := rp.ID
		if err := tx.LinkRecurring(ctx, p.ID, &id); err != nil {
			return fmt.Errorf("linking recurring payment: %w", err)
		}

		p.RecurringPaymentID = &id
	}

	return nil
}

// Delete removes p and its schedule and reverses the stored amount.
func (m *Manager) Delete(ctx context.Context, p *Payment) error {
	tx, err := m.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	original, err := tx.FindPayment(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("loading payment: %w", err)
	}

	if original.RecurringPaymentID != nil {
		if err := deleteRecurring(ctx, tx, *original.RecurringPaymentID); err != nil {
			return err
		}
	}

	if err := tx.DeletePayment(ctx, original.ID); err != nil {
		return fmt.Errorf("deleting payment: %w", err)
	}

	if err := adjust(ctx, tx, Reverse(original.Effect())); err != nil {
		return fmt.Errorf("reversing amount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	p.RecurringPaymentID = nil

	return nil
}

// AddPaymentAmount applies p to its accounts: expenses debit the charged
// account, income credits it, transfers move the amount to the target.
func (m *Manager) AddPaymentAmount(ctx context.Context, p *Payment) error {
	return m.adjustInTx(ctx, p.Effect())
}

// AppliedAccounts names the accounts a payment was applied to, when they
// differ from the ones it points at now.
type AppliedAccounts struct {
	ChargedAccountID int64
	TargetAccountID  *int64 // nil keeps the payment's target
}

// RemovePaymentAmount reverses AddPaymentAmount. A non-nil applied replaces
// the payment's accounts, for when it has been pointed elsewhere since it was
// applied.
func (m *Manager) RemovePaymentAmount(ctx context.Context, p *Payment, applied *AppliedAccounts) error {
	reversed := *p
	if applied != nil {
		reversed.ChargedAccountID = applied.ChargedAccountID
		if applied.TargetAccountID != nil {
			reversed.TargetAccountID = applied.TargetAccountID
		}
	}

	return m.adjustInTx(ctx, Reverse(reversed.Effect()))
}

func (m *Manager) adjustInTx(ctx context.Context, deltas []Delta) error {
	tx, err := m.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning balance update: %w", err)
	}
	defer tx.Rollback()

	if err := adjust(ctx, tx, deltas); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing balance update: %w", err)
	}

	return nil
}

// CheckRecurrenceOfPayment reports whether p is linked to a schedule that still exists.
func (m *Manager) CheckRecurrenceOfPayment(ctx context.Context, p *Payment) (bool, error) {
	if _, err := m.RecurringFor(ctx, p); err != nil {
		if errors.Is(err, ErrRecurringNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("checking recurrence: %w", err)
	}

	return true, nil
}

// RemoveRecurringForPayment deletes the schedule owned by p and clears the link.
func (m *Manager) RemoveRecurringForPayment(ctx context.Context, p *Payment) error {
	if p.RecurringPaymentID == nil {
		return nil
	}

	tx, err := m.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning recurring removal: %w", err)
	}
	defer tx.Rollback()

	if err := deleteRecurring(ctx, tx, *p.RecurringPaymentID); err != nil {
		return err
	}

	if err := tx.LinkRecurring(ctx, p.ID, nil); err != nil {
		return fmt.Errorf("unlinking recurring payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing recurring removal: %w", err)
	}

	p.RecurringPaymentID = nil

	return nil
}

// Import creates payments on accountID for every movement that is not
// already recorded with the same date, amount, type and note.
func (m *Manager) Import(ctx context.Context, accountID int64, params []ImportParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	// Suggestions read through the repository's own connection, so they are
	// gathered before the transaction takes it.
	categories := make([]*int64, len(params))
	for i, ip := range params {
		categories[i] = m.suggestCategory(ctx, ip.Note)
	}

	tx, err := m.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	existing, err := tx.FindDuplicates(ctx, accountID, params)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	type dupKey struct {
		Date   string
		Amount int64
		Type   Type
		Note   string
	}

	seen := make(map[dupKey]struct{}, len(existing))
	for _, e := range existing {
		seen[dupKey{Date: e.Date.Format(time.DateOnly), Amount: e.Amount, Type: e.Type, Note: e.Note}] = struct{}{}
	}

	result := &ImportResult{}

	for i, ip := range params {
		k := dupKey{Date: DateOnly(ip.Date).Format(time.DateOnly), Amount: ip.Amount, Type: ip.Type, Note: ip.Note}
		if _, found := seen[k]; found {
			result.Duplicates = append(result.Duplicates, ip)
			continue
		}

		p := &Payment{
			Type:             ip.Type,
			Amount:           ip.Amount,
			Date:             DateOnly(ip.Date),
			Note:             ip.Note,
			ChargedAccountID: accountID,
			CategoryID:       categories[i],
		}

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("importing %s %q: %w", k.Date, ip.Note, err)
		}

		if err := tx.SavePayment(ctx, p); err != nil {
			return nil, fmt.Errorf("saving imported payment: %w", err)
		}

		if err := adjust(ctx, tx, p.Effect()); err != nil {
			return nil, fmt.Errorf("applying imported amount: %w", err)
		}

		result.Imported = append(result.Imported, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}

	return result, nil
}

func (m *Manager) suggestCategory(ctx context.Context, note string) *int64 {
	if m.suggester == nil || note == "" {
		return nil
	}

	id, err := m.suggester.SuggestID(ctx, note)
	if err != nil {
		slog.Warn("suggesting category", "note", note, "error", err)
		return nil
	}

	return id
}

func adjust(ctx context.Context, tx Tx, deltas []Delta) error {
	for _, d := range deltas {
		if err := tx.AdjustBalance(ctx, d.AccountID, d.Amount); err != nil {
			return fmt.Errorf("account %d: %w", d.AccountID, err)
		}
	}

	return nil
}

func deleteRecurring(ctx context.Context, tx Tx, id int64) error {
	if err := tx.DeleteRecurring(ctx, id); err != nil && !errors.Is(err, ErrRecurringNotFound) {
		return fmt.Errorf("deleting recurring payment: %w", err)
	}

	return nil
}
