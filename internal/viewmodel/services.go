package viewmodel

import (
	"context"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/money"
)

// Services bundles what the view-models need. Now defaults to time.Now.
type Services struct {
	Payments PaymentManager
	Accounts AccountService
	Settings UpdateMarker
	Dialog   Dialog
	Money    *money.Formatter
	Now      func() time.Time
}

func (s Services) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}

	return s.Now()
}

// touch records the time of the change. Failures are only logged.
func touch(ctx context.Context, svc Services) {
	if svc.Settings == nil {
		return
	}

	if err := svc.Settings.MarkUpdated(ctx, svc.now()); err != nil {
		slog.Warn("marking database updated", "error", err)
	}
}

func show(ctx context.Context, svc Services, title, msg string) {
	if err := svc.Dialog.ShowMessage(ctx, title, msg); err != nil {
		slog.Warn("showing dialog", "title", title, "error", err)
	}
}
