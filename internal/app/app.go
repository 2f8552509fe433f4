// Package app opens the database and wires the services every binary uses.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	accountStore "github.com/MrJamesThe3rd/moneybox/internal/account/store"
	"github.com/MrJamesThe3rd/moneybox/internal/backup"
	"github.com/MrJamesThe3rd/moneybox/internal/backup/drive"
	"github.com/MrJamesThe3rd/moneybox/internal/backup/local"
	"github.com/MrJamesThe3rd/moneybox/internal/category"
	categoryStore "github.com/MrJamesThe3rd/moneybox/internal/category/store"
	"github.com/MrJamesThe3rd/moneybox/internal/config"
	"github.com/MrJamesThe3rd/moneybox/internal/database"
	"github.com/MrJamesThe3rd/moneybox/internal/events"
	"github.com/MrJamesThe3rd/moneybox/internal/importer"
	"github.com/MrJamesThe3rd/moneybox/internal/money"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/moneybox/internal/payment/store"
	"github.com/MrJamesThe3rd/moneybox/internal/settings"
	settingsStore "github.com/MrJamesThe3rd/moneybox/internal/settings/store"
)

type App struct {
	Config *config.Config
	DB     *sql.DB

	Settings   *settings.Service
	Accounts   *account.Service
	Categories *category.Service
	Payments   *payment.Manager
	Processor  *payment.Processor
	Importer   *importer.Service
	Money      *money.Formatter

	// Backup is nil when BACKUP_PROVIDER is none.
	Backup *backup.Manager
	// Events is nil when no broker is configured.
	Events *events.Client

	remote backup.Remote
}

// New migrates and opens the configured database and builds the services
// on top of it. A broker that cannot be reached only disables publishing.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Money: money.NewFormatter(cfg.App.Locale)}

	remote, err := newRemote(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.remote = remote

	if cfg.AMQP.URL != "" {
		client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			slog.Warn("failed to connect to broker, change events disabled", "error", err)
		} else {
			a.Events = client
		}
	}

	if err := a.open(); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func newRemote(ctx context.Context, cfg *config.Config) (backup.Remote, error) {
	switch cfg.Backup.Provider {
	case config.BackupLocal:
		return local.New(cfg.Backup.LocalDir), nil
	case config.BackupDrive:
		r, err := drive.New(ctx, cfg.Backup.DriveFolderID, cfg.Backup.CredentialsFile, cfg.Backup.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("connecting to google drive: %w", err)
		}

		return r, nil
	}

	return nil, nil
}

func (a *App) open() error {
	driver, dsn := a.Config.DB.Driver, a.Config.ConnectionString()

	if err := database.Migrate(driver, dsn); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(driver, dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	a.DB = db

	var publisher settings.Publisher = events.Noop{}
	if a.Events != nil {
		publisher = a.Events
	}

	a.Settings = settings.NewService(settingsStore.New(db), publisher)
	a.Accounts = account.NewService(accountStore.New(db), a.Settings)
	a.Categories = category.NewService(categoryStore.New(db))
	a.Payments = payment.NewManager(paymentStore.New(db), payment.WithCategorySuggester(a.Categories))
	a.Processor = payment.NewProcessor(a.Payments)
	a.Importer = importer.NewService(a.Payments)

	a.Backup = nil
	if a.remote != nil {
		a.Backup = backup.NewManager(db, a.Config.DB.SQLitePath, a.remote, a.Settings)
	}

	return nil
}

// RestoreBackup replaces the database with the remote copy when that copy is
// newer, then reopens it. Every service is rebuilt, so callers must read the
// fields of a again afterwards.
func (a *App) RestoreBackup(ctx context.Context) (bool, error) {
	if a.Backup == nil {
		return false, backup.ErrDisabled
	}

	status, err := a.Backup.Status(ctx)
	if err != nil {
		return false, err
	}

	restored, err := a.Backup.RestoreBackupIfNewer(ctx)
	if errors.Is(err, backup.ErrDatabaseClosed) {
		if openErr := a.open(); openErr != nil {
			return false, errors.Join(err, fmt.Errorf("reopening database: %w", openErr))
		}

		return false, err
	}

	if err != nil || !restored {
		return false, err
	}

	if err := a.open(); err != nil {
		return true, fmt.Errorf("reopening restored database: %w", err)
	}

	// The copy carries the uploader's timestamp, which is older than the
	// upload itself.
	if err := a.Settings.SetLastDatabaseUpdate(ctx, status.RemoteUpdatedAt); err != nil {
		return true, err
	}

	return true, nil
}

func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}

	if a.Events != nil {
		errs = append(errs, a.Events.Close())
	}

	return errors.Join(errs...)
}
