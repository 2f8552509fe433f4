package category

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("category not found")
	ErrRuleNotFound    = errors.New("category rule not found")
	ErrNameRequired    = errors.New("category name is required")
	ErrPatternRequired = errors.New("rule pattern is required")
)

type Category struct {
	ID        int64
	Name      string
	Notes     string
	CreatedAt time.Time
}

// Rule assigns CategoryID to any payment note containing Pattern, ignoring case.
type Rule struct {
	ID         int64
	Pattern    string
	CategoryID int64
	CreatedAt  time.Time
}
