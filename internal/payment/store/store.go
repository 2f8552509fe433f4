package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	accountstore "github.com/MrJamesThe3rd/moneybox/internal/account/store"
	"github.com/MrJamesThe3rd/moneybox/internal/database"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

// Store reads payments and schedules and opens units of work over them.
type Store struct {
	db *sql.DB
	q  queries
}

func New(db *sql.DB) *Store {
	return &Store{db: db, q: queries{db: db}}
}

// queries holds every statement so they run the same on *sql.DB and *sql.Tx.
type queries struct {
	db database.Querier
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) Begin(ctx context.Context) (payment.Tx, error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &tx{
		tx:       sqlTx,
		q:        queries{db: sqlTx},
		accounts: accountstore.New(sqlTx),
	}, nil
}

func (s *Store) GetList(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	return s.q.listPayments(ctx, filter)
}

func (s *Store) FindByID(ctx context.Context, id int64) (*payment.Payment, error) {
	return s.q.findPayment(ctx, id)
}

func (s *Store) GetRecurringList(ctx context.Context, filter payment.RecurringFilter) ([]*payment.RecurringPayment, error) {
	return s.q.listRecurring(ctx, filter)
}

func (s *Store) FindRecurringByID(ctx context.Context, id int64) (*payment.RecurringPayment, error) {
	return s.q.findRecurring(ctx, id)
}

type tx struct {
	tx       *sql.Tx
	q        queries
	accounts *accountstore.Store
}

func (t *tx) Commit() error { return t.tx.Commit() }

// Rollback after Commit is a no-op so callers can always defer it.
func (t *tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (t *tx) FindPayment(ctx context.Context, id int64) (*payment.Payment, error) {
	return t.q.findPayment(ctx, id)
}

func (t *tx) SavePayment(ctx context.Context, p *payment.Payment) error {
	return t.q.savePayment(ctx, p)
}

func (t *tx) DeletePayment(ctx context.Context, id int64) error {
	return t.q.deletePayment(ctx, id)
}

func (t *tx) LinkRecurring(ctx context.Context, paymentID int64, recurringID *int64) error {
	return t.q.linkRecurring(ctx, paymentID, recurringID)
}

func (t *tx) FindRecurring(ctx context.Context, id int64) (*payment.RecurringPayment, error) {
	return t.q.findRecurring(ctx, id)
}

func (t *tx) SaveRecurring(ctx context.Context, rp *payment.RecurringPayment) error {
	return t.q.saveRecurring(ctx, rp)
}

func (t *tx) DeleteRecurring(ctx context.Context, id int64) error {
	return t.q.deleteRecurring(ctx, id)
}

func (t *tx) AdjustBalance(ctx context.Context, accountID, delta int64) error {
	if err := t.accounts.AdjustBalance(ctx, accountID, delta); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return fmt.Errorf("%w: %d", account.ErrNotFound, accountID)
		}

		return err
	}

	return nil
}

func (t *tx) FindDuplicates(ctx context.Context, accountID int64, params []payment.ImportParams) ([]*payment.Payment, error) {
	return t.q.findDuplicates(ctx, accountID, params)
}

func rowsAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return notFound
	}

	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	u := t.UTC()

	return &u
}
