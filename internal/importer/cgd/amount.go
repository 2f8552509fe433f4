package cgd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var portugueseAmount = strings.NewReplacer(".", "", ",", ".")

// statementCents reads an amount written the Portuguese way ("-1.234,56",
// optionally suffixed with the currency) into cents. A blank cell is zero.
func statementCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "EUR"))
	if s == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(portugueseAmount.Replace(s))
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}

	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimals", s)
	}

	return cents.IntPart(), nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
