package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

var ErrNotFound = errors.New("setting not found")

const (
	KeyDefaultAccount     = "default_account_id"
	KeyLastDatabaseUpdate = "last_database_update"
)

// NoDefaultAccount is stored when no account is the default.
const NoDefaultAccount int64 = -1

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=settings
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Publisher announces that the database changed, e.g. so a backup can run.
type Publisher interface {
	PublishDatabaseUpdated(ctx context.Context, at time.Time) error
}

type Service struct {
	repo      Repository
	publisher Publisher
}

func NewService(repo Repository, publisher Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// DefaultAccountID returns NoDefaultAccount when nothing is configured.
func (s *Service) DefaultAccountID(ctx context.Context) (int64, error) {
	v, err := s.repo.Get(ctx, KeyDefaultAccount)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return NoDefaultAccount, nil
		}

		return 0, fmt.Errorf("reading default account: %w", err)
	}

	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("ignoring malformed default account setting", "value", v)
		return NoDefaultAccount, nil
	}

	return id, nil
}

func (s *Service) SetDefaultAccountID(ctx context.Context, id int64) error {
	if err := s.repo.Set(ctx, KeyDefaultAccount, strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("writing default account: %w", err)
	}

	return nil
}

// LastDatabaseUpdate returns the zero time when the database was never marked.
func (s *Service) LastDatabaseUpdate(ctx context.Context) (time.Time, error) {
	v, err := s.repo.Get(ctx, KeyLastDatabaseUpdate)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return time.Time{}, nil
		}

		return time.Time{}, fmt.Errorf("reading last database update: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing last database update %q: %w", v, err)
	}

	return at, nil
}

// MarkUpdated records the time of the latest change and then announces it.
// A failed announcement is logged; the change itself is already stored.
func (s *Service) MarkUpdated(ctx context.Context, at time.Time) error {
	if err := s.SetLastDatabaseUpdate(ctx, at); err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}

	if err := s.publisher.PublishDatabaseUpdated(ctx, at); err != nil {
		slog.Warn("publishing database update", "error", err)
	}

	return nil
}

// SetLastDatabaseUpdate stores the time without announcing it, for when the
// database was replaced by a copy that is already backed up.
func (s *Service) SetLastDatabaseUpdate(ctx context.Context, at time.Time) error {
	if err := s.repo.Set(ctx, KeyLastDatabaseUpdate, at.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("writing last database update: %w", err)
	}

	return nil
}
