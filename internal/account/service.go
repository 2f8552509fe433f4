package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	GetList(ctx context.Context, filter ListFilter) ([]*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	Save(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id int64) error
	CountPayments(ctx context.Context, id int64) (int, error)
}

// Settings stores which account new payments are charged to by default.
type Settings interface {
	DefaultAccountID(ctx context.Context) (int64, error)
	SetDefaultAccountID(ctx context.Context, id int64) error
}

type ListFilter struct {
	NameContains string
}

type CreateParams struct {
	Name           string
	IBAN           string
	Note           string
	InitialBalance int64
}

type Service struct {
	repo     Repository
	settings Settings
}

func NewService(repo Repository, settings Settings) *Service {
	return &Service{repo: repo, settings: settings}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Account, error) {
	a := &Account{
		Name:           strings.TrimSpace(params.Name),
		IBAN:           strings.TrimSpace(params.IBAN),
		Note:           params.Note,
		CurrentBalance: params.InitialBalance,
	}
	if a.Name == "" {
		return nil, ErrNameRequired
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return a, nil
}

// Update persists name, IBAN and note. The balance is never written here.
func (s *Service) Update(ctx context.Context, a *Account) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return ErrNameRequired
	}

	if a.ID == 0 {
		return ErrNotFound
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.CountPayments(ctx, id)
	if err != nil {
		return fmt.Errorf("counting payments: %w", err)
	}

	if n > 0 {
		return ErrInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	defaultID, err := s.settings.DefaultAccountID(ctx)
	if err != nil {
		slog.Warn("reading default account after delete", "account_id", id, "error", err)
		return nil
	}

	if defaultID == id {
		if err := s.settings.SetDefaultAccountID(ctx, -1); err != nil {
			return fmt.Errorf("clearing default account: %w", err)
		}
	}

	return nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Account, error) {
	accounts, err := s.repo.GetList(ctx, filter)
	if err != nil {
		return nil, err
	}

	defaultID, err := s.settings.DefaultAccountID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading default account: %w", err)
	}

	for _, a := range accounts {
		a.IsDefault = a.ID == defaultID
	}

	return accounts, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	defaultID, err := s.settings.DefaultAccountID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading default account: %w", err)
	}

	a.IsDefault = a.ID == defaultID

	return a, nil
}

// Default returns the account configured as default, or the first account
// when none is configured or the configured one no longer exists.
func (s *Service) Default(ctx context.Context) (*Account, error) {
	accounts, err := s.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}

	return PickDefault(accounts)
}

// PickDefault applies the default account rule to an already loaded list.
func PickDefault(accounts []*Account) (*Account, error) {
	if len(accounts) == 0 {
		return nil, ErrNotFound
	}

	for _, a := range accounts {
		if a.IsDefault {
			return a, nil
		}
	}

	return accounts[0], nil
}

func (s *Service) SetDefault(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}

		return fmt.Errorf("finding account: %w", err)
	}

	return s.settings.SetDefaultAccountID(ctx, id)
}
