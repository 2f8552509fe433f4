package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/moneybox/internal/importer/cgd"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

//go:generate mockgen -source=service.go -destination=importer_mock.go -package=importer

// PaymentImporter stores parsed statement lines against an account.
type PaymentImporter interface {
	Import(ctx context.Context, accountID int64, params []payment.ImportParams) (*payment.ImportResult, error)
}

type Service struct {
	parsers  map[Bank]Parser
	payments PaymentImporter
}

func NewService(payments PaymentImporter) *Service {
	return &Service{
		parsers: map[Bank]Parser{
			BankCGD: cgd.NewParser(),
		},
		payments: payments,
	}
}

// Parse decodes a statement and returns its movements without storing them.
func (s *Service) Parse(bank Bank, r io.Reader) ([]payment.ImportParams, error) {
	parser, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	utf8r, charset, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: detect encoding: %w", ErrInvalidStatement, err)
	}

	slog.Debug("decoding statement", "bank", bank, "charset", charset)

	params, err := parser.Parse(utf8r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s statement: %w", ErrInvalidStatement, bank, err)
	}

	return params, nil
}

// Import parses a statement and books its movements on accountID.
func (s *Service) Import(ctx context.Context, bank Bank, accountID int64, r io.Reader) (*payment.ImportResult, error) {
	params, err := s.Parse(bank, r)
	if err != nil {
		return nil, err
	}

	result, err := s.payments.Import(ctx, accountID, params)
	if err != nil {
		return nil, fmt.Errorf("import statement: %w", err)
	}

	slog.Info("statement imported", "bank", bank, "account_id", accountID,
		"imported", len(result.Imported), "duplicates", len(result.Duplicates))

	return result, nil
}
