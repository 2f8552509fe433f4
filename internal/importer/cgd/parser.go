package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

var errNoLayout = errors.New("no known CGD statement header (conta, extrato or cartão)")

// Parser reads Caixa Geral de Depósitos CSV exports, already decoded to
// UTF-8. Exports open with account details; the movements table starts at
// the first row whose headers match a layout.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]payment.ImportParams, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	for i, row := range rows {
		index := headerIndex(row)

		for _, l := range layouts {
			if index.has(l.headers()) {
				return l.movements(index, rows[i+1:], i+2)
			}
		}
	}

	return nil, errNoLayout
}

// movements reads rows; firstLine is the 1-based line of rows[0].
func (l layout) movements(index headers, rows [][]string, firstLine int) ([]payment.ImportParams, error) {
	var out []payment.ImportParams

	for i, cells := range rows {
		ip, ok, err := l.movement(record{cells: cells, index: index})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", firstLine+i, err)
		}

		if ok {
			out = append(out, ip)
		}
	}

	return out, nil
}

// headers maps a trimmed header name to its column.
type headers map[string]int

func headerIndex(row []string) headers {
	h := make(headers, len(row))

	for i, cell := range row {
		if name := strings.TrimSpace(cell); name != "" {
			h[name] = i
		}
	}

	return h
}

func (h headers) has(names []string) bool {
	for _, name := range names {
		if _, ok := h[name]; !ok {
			return false
		}
	}

	return true
}

type record struct {
	cells []string
	index headers
}

// get returns the trimmed cell under header, or "" when the row is short.
func (r record) get(header string) string {
	i, ok := r.index[header]
	if !ok || i >= len(r.cells) {
		return ""
	}

	return strings.TrimSpace(r.cells[i])
}

// collapseSpaces squeezes the column padding card terminals put in names.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
