package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/category"
	"github.com/MrJamesThe3rd/moneybox/internal/database"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) GetList(ctx context.Context, filter category.ListFilter) ([]*category.Category, error) {
	query := `SELECT id, name, notes, created_at FROM categories`

	var args []any

	if filter.NameContains != "" {
		query += ` WHERE LOWER(name) LIKE '%' || LOWER($1) || '%'`

		args = append(args, filter.NameContains)
	}

	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var list []*category.Category

	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		list = append(list, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return list, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (*category.Category, error) {
	var c category.Category

	err := s.db.QueryRowContext(ctx, `SELECT id, name, notes, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Notes, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return &c, nil
}

func (s *Store) Save(ctx context.Context, c *category.Category) error {
	if c.ID == 0 {
		now := time.Now().UTC()

		query := `INSERT INTO categories (name, notes, created_at) VALUES ($1, $2, $3) RETURNING id`
		if err := s.db.QueryRowContext(ctx, query, c.Name, c.Notes, now).Scan(&c.ID); err != nil {
			return fmt.Errorf("creating category: %w", err)
		}

		c.CreatedAt = now

		return nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE categories SET name = $1, notes = $2 WHERE id = $3`, c.Name, c.Notes, c.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	return expectOneRow(res, category.ErrNotFound)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	return expectOneRow(res, category.ErrNotFound)
}

func (s *Store) FindRule(ctx context.Context, text string) (*category.Rule, error) {
	query := `
		SELECT id, pattern, category_id, created_at
		FROM category_rules
		WHERE LOWER($1) LIKE '%' || LOWER(pattern) || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var r category.Rule

	err := s.db.QueryRowContext(ctx, query, text).Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrRuleNotFound
		}

		return nil, fmt.Errorf("finding rule: %w", err)
	}

	return &r, nil
}

func (s *Store) SaveRule(ctx context.Context, r *category.Rule) error {
	now := time.Now().UTC()

	query := `
		INSERT INTO category_rules (pattern, category_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (pattern) DO UPDATE SET category_id = EXCLUDED.category_id, created_at = EXCLUDED.created_at
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, r.Pattern, r.CategoryID, now).Scan(&r.ID); err != nil {
		return fmt.Errorf("saving rule: %w", err)
	}

	r.CreatedAt = now

	return nil
}

func (s *Store) ListRules(ctx context.Context) ([]*category.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, pattern, category_id, created_at FROM category_rules ORDER BY pattern ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*category.Rule

	for rows.Next() {
		var r category.Rule
		if err := rows.Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return rules, nil
}

func (s *Store) DeleteRule(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM category_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	return expectOneRow(res, category.ErrRuleNotFound)
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return notFound
	}

	return nil
}
