package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybox/internal/category"
	"github.com/MrJamesThe3rd/moneybox/internal/category/store"
	"github.com/MrJamesThe3rd/moneybox/internal/database/dbtest"
)

func TestStore_Categories(t *testing.T) {
	ctx := context.Background()
	s := store.New(dbtest.New(t))

	c := &category.Category{Name: "Food"}
	require.NoError(t, s.Save(ctx, c))
	require.NotZero(t, c.ID)

	c.Notes = "groceries and restaurants"
	require.NoError(t, s.Save(ctx, c))

	got, err := s.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "groceries and restaurants", got.Notes)

	list, err := s.GetList(ctx, category.ListFilter{NameContains: "foo"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, c.ID))
	assert.ErrorIs(t, s.Delete(ctx, c.ID), category.ErrNotFound)
}

func TestStore_FindRule_LongestPatternWins(t *testing.T) {
	ctx := context.Background()
	s := store.New(dbtest.New(t))

	transport := &category.Category{Name: "Transport"}
	food := &category.Category{Name: "Food"}
	require.NoError(t, s.Save(ctx, transport))
	require.NoError(t, s.Save(ctx, food))

	require.NoError(t, s.SaveRule(ctx, &category.Rule{Pattern: "uber", CategoryID: transport.ID}))
	require.NoError(t, s.SaveRule(ctx, &category.Rule{Pattern: "uber eats", CategoryID: food.ID}))

	r, err := s.FindRule(ctx, "UBER EATS LISBOA")
	require.NoError(t, err)
	assert.Equal(t, food.ID, r.CategoryID)

	r, err = s.FindRule(ctx, "Uber *trip")
	require.NoError(t, err)
	assert.Equal(t, transport.ID, r.CategoryID)

	_, err = s.FindRule(ctx, "pingo doce")
	assert.ErrorIs(t, err, category.ErrRuleNotFound)

	// Saving the same pattern again repoints the rule.
	require.NoError(t, s.SaveRule(ctx, &category.Rule{Pattern: "uber", CategoryID: food.ID}))

	rules, err := s.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, food.ID, rules[0].CategoryID)

	// Deleting a category drops its rules.
	require.NoError(t, s.Delete(ctx, food.ID))

	rules, err = s.ListRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}
