// Package money formats and parses amounts stored as integer cents.
package money

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// Formatter renders cents using a locale's digit grouping and decimal mark.
type Formatter struct {
	printer *message.Printer
	decimal string
	group   string
}

// NewFormatter builds a formatter for a BCP 47 locale such as "en" or "pt-PT".
// Unknown locales fall back to English.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	p := message.NewPrinter(tag)

	// 1234567.5 renders every separator the locale uses.
	sample := []rune(p.Sprintf("%.2f", 1234567.5))

	f := &Formatter{printer: p, decimal: "."}
	if len(sample) >= 3 {
		f.decimal = string(sample[len(sample)-3])
	}

	if len(sample) > 1 && sample[1] != '2' {
		f.group = string(sample[1])
	}

	return f
}

// Format renders cents with two decimals and grouping, e.g. 123456 -> "1,234.56".
func (f *Formatter) Format(cents int64) string {
	return f.printer.Sprintf("%.2f", decimal.New(cents, -2).InexactFloat64())
}

// FormatPlain renders cents with the locale decimal mark and no grouping,
// which is what an input field shows while it is being edited.
func (f *Formatter) FormatPlain(cents int64) string {
	s := decimal.New(cents, -2).StringFixed(2)
	return strings.Replace(s, ".", f.decimal, 1)
}

// Parse reads an amount typed by a user into cents. Group separators are
// ignored and at most two decimals are accepted.
func (f *Formatter) Parse(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, nil
	}

	if f.group != "" {
		clean = strings.ReplaceAll(clean, f.group, "")
	}

	// Locales grouping with a (narrow) no-break space get typed with plain spaces.
	if r, _ := utf8.DecodeRuneInString(f.group); unicode.IsSpace(r) || r == '\u202f' {
		clean = strings.ReplaceAll(clean, " ", "")
	}

	clean = strings.Replace(clean, f.decimal, ".", 1)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	cents := d.Mul(hundred)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than two decimals", ErrInvalidAmount, s)
	}

	return cents.IntPart(), nil
}

// DecimalMark returns the locale's decimal separator.
func (f *Formatter) DecimalMark() string {
	return f.decimal
}
