package cgd

import (
	"errors"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

// layout is one CGD export flavour, recognised by the headers of its
// movements table.
type layout struct {
	name   string
	date   string
	note   string
	amount amountColumns
}

// amountColumns reads the movement of a row in cents, negative when money
// left the account.
type amountColumns interface {
	headers() []string
	signed(rec record) (int64, error)
}

// signedColumn holds the movement in one column ("-588,74").
type signedColumn string

func (c signedColumn) headers() []string { return []string{string(c)} }

func (c signedColumn) signed(rec record) (int64, error) {
	return statementCents(rec.get(string(c)))
}

// debitCredit splits the movement over two unsigned columns, as card
// statements do.
type debitCredit struct {
	debit, credit string
}

func (c debitCredit) headers() []string { return []string{c.debit, c.credit} }

func (c debitCredit) signed(rec record) (int64, error) {
	out, err := statementCents(rec.get(c.debit))
	if err != nil {
		return 0, err
	}

	in, err := statementCents(rec.get(c.credit))
	if err != nil {
		return 0, err
	}

	return abs(in) - abs(out), nil
}

// layouts are tried in order; a header row matching several picks the first.
var layouts = []layout{
	{name: "cartão", date: "Data", note: "Descrição", amount: debitCredit{debit: "Débito", credit: "Crédito"}},
	{name: "extrato", date: "Data mov.", note: "Descrição", amount: signedColumn("Movimento")},
	{name: "conta", date: "Data mov.", note: "Descrição", amount: signedColumn("Montante")},
}

func (l layout) headers() []string {
	return append([]string{l.date, l.note}, l.amount.headers()...)
}

var errMissingNote = errors.New("missing description")

// movement reads one row of the table. Rows without a date (page footers,
// totals) and zero movements are skipped with ok false.
func (l layout) movement(rec record) (payment.ImportParams, bool, error) {
	date, ok := parseDate(rec.get(l.date))
	if !ok {
		return payment.ImportParams{}, false, nil
	}

	note := collapseSpaces(rec.get(l.note))
	if note == "" {
		return payment.ImportParams{}, false, errMissingNote
	}

	cents, err := l.amount.signed(rec)
	if err != nil {
		return payment.ImportParams{}, false, err
	}

	ip, ok := payment.NewImportParams(date, note, cents)

	return ip, ok, nil
}

var dateLayouts = []string{"02-01-2006", "02/01/2006", time.DateOnly}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, f := range dateLayouts {
		if t, err := time.Parse(f, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
