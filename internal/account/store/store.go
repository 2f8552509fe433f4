package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/database"
)

type Store struct {
	db database.Querier
}

// New works on a *sql.DB or, inside a unit of work, on a *sql.Tx.
func New(db database.Querier) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectAccountColumns = `id, name, iban, note, current_balance, created_at, updated_at`

func scanAccount(s scanner) (*account.Account, error) {
	var a account.Account
	if err := s.Scan(&a.ID, &a.Name, &a.IBAN, &a.Note, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *Store) GetList(ctx context.Context, filter account.ListFilter) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts`

	var args []any

	if filter.NameContains != "" {
		query += ` WHERE LOWER(name) LIKE '%' || LOWER($1) || '%'`

		args = append(args, filter.NameContains)
	}

	query += ` ORDER BY name ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

// Save inserts when the account has no ID yet, taking its balance as the
// opening balance. Updates leave the balance alone.
func (s *Store) Save(ctx context.Context, a *account.Account) error {
	now := time.Now().UTC()

	if a.ID == 0 {
		query := `
			INSERT INTO accounts (name, iban, note, current_balance, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING id
		`

		if err := s.db.QueryRowContext(ctx, query, a.Name, a.IBAN, a.Note, a.CurrentBalance, now).Scan(&a.ID); err != nil {
			return fmt.Errorf("creating account: %w", err)
		}

		a.CreatedAt = now
		a.UpdatedAt = now

		return nil
	}

	query := `
		UPDATE accounts
		SET name = $1, iban = $2, note = $3, updated_at = $4
		WHERE id = $5
	`

	res, err := s.db.ExecContext(ctx, query, a.Name, a.IBAN, a.Note, now, a.ID)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	if err := expectOneRow(res); err != nil {
		return err
	}

	a.UpdatedAt = now

	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	return expectOneRow(res)
}

func (s *Store) CountPayments(ctx context.Context, id int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM payments
		WHERE charged_account_id = $1 OR target_account_id = $1
	`

	var n int
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting payments: %w", err)
	}

	return n, nil
}

// AdjustBalance adds delta cents to the account's current balance.
func (s *Store) AdjustBalance(ctx context.Context, id, delta int64) error {
	query := `
		UPDATE accounts
		SET current_balance = current_balance + $1, updated_at = $2
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, delta, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("adjusting balance: %w", err)
	}

	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return account.ErrNotFound
	}

	return nil
}
