package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/moneybox/internal/app"
	"github.com/MrJamesThe3rd/moneybox/internal/config"
	"github.com/MrJamesThe3rd/moneybox/internal/events"
	"github.com/MrJamesThe3rd/moneybox/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	if err := logging.Setup(os.Stdout, cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	slog.Info("starting worker",
		"recurring_interval", cfg.Recurring.Interval,
		"backup_provider", cfg.Backup.Provider,
		"events", a.Events != nil)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return processRecurring(ctx, a, cfg.Recurring.Interval)
	})

	switch {
	case a.Events != nil && a.Backup != nil:
		g.Go(func() error {
			return a.Events.ConsumeDatabaseUpdated(ctx, func(ctx context.Context, msg *events.DatabaseUpdated) error {
				slog.DebugContext(ctx, "database updated", "message_id", msg.ID, "at", msg.At)

				_, err := a.Backup.UploadBackupIfNewer(ctx)

				return err
			})
		})
	case a.Backup != nil:
		slog.Info("no broker configured, backups are uploaded after each recurring run")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}

	slog.Info("worker stopped")
}

// processRecurring runs the processor once at startup and then on every
// tick. New payments mark the database as updated; without a broker nobody
// hears about that, so the backup is uploaded here instead.
func processRecurring(ctx context.Context, a *app.App, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func(now time.Time) {
		created, err := a.Processor.ProcessDue(ctx, now)
		if err != nil {
			slog.ErrorContext(ctx, "recurring processing failed", "error", err)
			return
		}

		slog.InfoContext(ctx, "recurring processing complete",
			"created", created,
			"next_check", now.Add(interval).Format(time.TimeOnly))

		if created == 0 {
			return
		}

		if err := a.Settings.MarkUpdated(ctx, now); err != nil {
			slog.ErrorContext(ctx, "failed to mark database update", "error", err)
			return
		}

		if a.Events == nil && a.Backup != nil {
			if _, err := a.Backup.UploadBackupIfNewer(ctx); err != nil {
				slog.ErrorContext(ctx, "backup upload failed", "error", err)
			}
		}
	}

	run(time.Now())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			run(now)
		}
	}
}
