package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

var (
	ErrUnknownBank      = errors.New("unknown bank")
	ErrInvalidStatement = errors.New("invalid statement")
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

// Banks lists the supported statement formats in display order.
func Banks() []Bank {
	return []Bank{BankCGD}
}

// Parser turns a UTF-8 bank statement into payments ready to be imported.
type Parser interface {
	Parse(r io.Reader) ([]payment.ImportParams, error)
}
