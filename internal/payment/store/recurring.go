package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

const selectRecurringColumns = `
	id, source_payment_id, recurrence, start_date, end_date, is_endless, type, amount, note,
	charged_account_id, target_account_id, category_id, last_execution, created_at
`

func scanRecurring(s scanner) (*payment.RecurringPayment, error) {
	var rp payment.RecurringPayment

	var (
		recurrence int
		typeStr    string
	)

	if err := s.Scan(
		&rp.ID, &rp.SourcePaymentID, &recurrence, &rp.StartDate, &rp.EndDate, &rp.IsEndless, &typeStr,
		&rp.Amount, &rp.Note, &rp.ChargedAccountID, &rp.TargetAccountID, &rp.CategoryID,
		&rp.LastExecution, &rp.CreatedAt,
	); err != nil {
		return nil, err
	}

	rp.Recurrence = payment.Recurrence(recurrence)
	rp.Type = payment.Type(typeStr)
	rp.StartDate = rp.StartDate.UTC()
	rp.EndDate = utcPtr(rp.EndDate)
	rp.LastExecution = utcPtr(rp.LastExecution)

	return &rp, nil
}

func (q queries) findRecurring(ctx context.Context, id int64) (*payment.RecurringPayment, error) {
	query := `SELECT ` + selectRecurringColumns + ` FROM recurring_payments WHERE id = $1`

	rp, err := scanRecurring(q.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrRecurringNotFound
		}

		return nil, fmt.Errorf("getting recurring payment: %w", err)
	}

	return rp, nil
}

func (q queries) listRecurring(ctx context.Context, filter payment.RecurringFilter) ([]*payment.RecurringPayment, error) {
	query := `SELECT ` + selectRecurringColumns + ` FROM recurring_payments WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND (charged_account_id = $%d OR target_account_id = $%d)", argIdx, argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Recurrence != nil {
		query += fmt.Sprintf(" AND recurrence = $%d", argIdx)

		args = append(args, int(*filter.Recurrence))
	}

	query += " ORDER BY start_date ASC, id ASC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recurring payments: %w", err)
	}
	defer rows.Close()

	var list []*payment.RecurringPayment

	for rows.Next() {
		rp, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring payment: %w", err)
		}

		list = append(list, rp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recurring payments: %w", err)
	}

	return list, nil
}

func (q queries) saveRecurring(ctx context.Context, rp *payment.RecurringPayment) error {
	if rp.ID == 0 {
		now := time.Now().UTC()

		query := `
			INSERT INTO recurring_payments (source_payment_id, recurrence, start_date, end_date, is_endless,
				type, amount, note, charged_account_id, target_account_id, category_id, last_execution, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id
		`

		err := q.db.QueryRowContext(ctx, query,
			rp.SourcePaymentID,
			int(rp.Recurrence),
			rp.StartDate.UTC(),
			utcPtr(rp.EndDate),
			rp.IsEndless,
			string(rp.Type),
			rp.Amount,
			rp.Note,
			rp.ChargedAccountID,
			rp.TargetAccountID,
			rp.CategoryID,
			utcPtr(rp.LastExecution),
			now,
		).Scan(&rp.ID)
		if err != nil {
			return fmt.Errorf("creating recurring payment: %w", err)
		}

		rp.CreatedAt = now

		return nil
	}

	query := `
		UPDATE recurring_payments
		SET source_payment_id = $1, recurrence = $2, start_date = $3, end_date = $4, is_endless = $5,
			type = $6, amount = $7, note = $8, charged_account_id = $9, target_account_id = $10,
			category_id = $11, last_execution = $12
		WHERE id = $13
	`

	res, err := q.db.ExecContext(ctx, query,
		rp.SourcePaymentID,
		int(rp.Recurrence),
		rp.StartDate.UTC(),
		utcPtr(rp.EndDate),
		rp.IsEndless,
		string(rp.Type),
		rp.Amount,
		rp.Note,
		rp.ChargedAccountID,
		rp.TargetAccountID,
		rp.CategoryID,
		utcPtr(rp.LastExecution),
		rp.ID,
	)
	if err != nil {
		return fmt.Errorf("updating recurring payment: %w", err)
	}

	return rowsAffected(res, payment.ErrRecurringNotFound)
}

func (q queries) deleteRecurring(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM recurring_payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting recurring payment: %w", err)
	}

	return rowsAffected(res, payment.ErrRecurringNotFound)
}
