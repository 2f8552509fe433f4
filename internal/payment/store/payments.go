package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/database"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

const selectPaymentColumns = `
	id, type, amount, date, note, charged_account_id, target_account_id,
	category_id, recurring_payment_id, created_at, updated_at
`

// scanPayment expects the columns of selectPaymentColumns, in order.
func scanPayment(s scanner) (*payment.Payment, error) {
	var p payment.Payment

	var typeStr string

	if err := s.Scan(
		&p.ID, &typeStr, &p.Amount, &p.Date, &p.Note, &p.ChargedAccountID, &p.TargetAccountID,
		&p.CategoryID, &p.RecurringPaymentID, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Type = payment.Type(typeStr)
	p.Date = p.Date.UTC()

	return &p, nil
}

func (q queries) findPayment(ctx context.Context, id int64) (*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(q.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	return p, nil
}

func (q queries) listPayments(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND (charged_account_id = $%d OR target_account_id = $%d)", argIdx, argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, string(*filter.Type))
		argIdx++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, payment.DateOnly(*filter.StartDate))
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, payment.DateOnly(*filter.EndDate))
	}

	query += " ORDER BY date DESC, id DESC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return payments, nil
}

// savePayment inserts when p has no ID, assigning the generated one back.
func (q queries) savePayment(ctx context.Context, p *payment.Payment) error {
	now := time.Now().UTC()
	date := payment.DateOnly(p.Date)

	if p.ID == 0 {
		query := `
			INSERT INTO payments (type, amount, date, note, charged_account_id, target_account_id,
				category_id, recurring_payment_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
			RETURNING id
		`

		err := q.db.QueryRowContext(ctx, query,
			string(p.Type),
			p.Amount,
			date,
			p.Note,
			p.ChargedAccountID,
			p.TargetAccountID,
			p.CategoryID,
			p.RecurringPaymentID,
			now,
		).Scan(&p.ID)
		if err != nil {
			return referenceError("creating payment", err)
		}

		p.CreatedAt = now
		p.UpdatedAt = now

		return nil
	}

	query := `
		UPDATE payments
		SET type = $1, amount = $2, date = $3, note = $4, charged_account_id = $5, target_account_id = $6,
			category_id = $7, recurring_payment_id = $8, updated_at = $9
		WHERE id = $10
	`

	res, err := q.db.ExecContext(ctx, query,
		string(p.Type),
		p.Amount,
		date,
		p.Note,
		p.ChargedAccountID,
		p.TargetAccountID,
		p.CategoryID,
		p.RecurringPaymentID,
		now,
		p.ID,
	)
	if err != nil {
		return referenceError("updating payment", err)
	}

	if err := rowsAffected(res, payment.ErrNotFound); err != nil {
		return err
	}

	p.UpdatedAt = now

	return nil
}

func (q queries) deletePayment(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting payment: %w", err)
	}

	return rowsAffected(res, payment.ErrNotFound)
}

func (q queries) linkRecurring(ctx context.Context, paymentID int64, recurringID *int64) error {
	query := `UPDATE payments SET recurring_payment_id = $1, updated_at = $2 WHERE id = $3`

	res, err := q.db.ExecContext(ctx, query, recurringID, time.Now().UTC(), paymentID)
	if err != nil {
		return fmt.Errorf("linking recurring payment: %w", err)
	}

	return rowsAffected(res, payment.ErrNotFound)
}

// findDuplicates returns the account's payments matching an incoming
// movement on date, amount, type and note.
func (q queries) findDuplicates(ctx context.Context, accountID int64, params []payment.ImportParams) ([]*payment.Payment, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date   string
		Amount int64
		Type   payment.Type
		Note   string
	}

	minDate := payment.DateOnly(params[0].Date)
	maxDate := minDate
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		d := payment.DateOnly(p.Date)
		if d.Before(minDate) {
			minDate = d
		}

		if d.After(maxDate) {
			maxDate = d
		}

		keySet[lookupKey{Date: d.Format(time.DateOnly), Amount: p.Amount, Type: p.Type, Note: p.Note}] = struct{}{}
	}

	query := `SELECT ` + selectPaymentColumns + `
		FROM payments
		WHERE charged_account_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	rows, err := q.db.QueryContext(ctx, query, accountID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*payment.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		k := lookupKey{Date: p.Date.Format(time.DateOnly), Amount: p.Amount, Type: p.Type, Note: p.Note}
		if _, found := keySet[k]; found {
			duplicates = append(duplicates, p)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

// referenceError tags writes rejected because an account or category they
// point at does not exist.
func referenceError(op string, err error) error {
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, payment.ErrUnknownReference, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
