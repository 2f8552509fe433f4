// Package viewmodel holds the editing state behind the payment and account
// screens. It talks to the domain through small interfaces so any front end
// (the TUI today) can drive it.
package viewmodel

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

//go:generate mockgen -source=viewmodel.go -destination=viewmodel_mock.go -package=viewmodel

// Dialog asks the user something and waits for the answer.
type Dialog interface {
	ShowMessage(ctx context.Context, title, message string) error
	ShowConfirm(ctx context.Context, title, message string) (bool, error)
}

type PaymentManager interface {
	Get(ctx context.Context, id int64) (*payment.Payment, error)
	RecurringFor(ctx context.Context, p *payment.Payment) (*payment.RecurringPayment, error)
	Save(ctx context.Context, p *payment.Payment, schedule *payment.Schedule) error
	Delete(ctx context.Context, p *payment.Payment) error
}

type AccountService interface {
	List(ctx context.Context, filter account.ListFilter) ([]*account.Account, error)
	Get(ctx context.Context, id int64) (*account.Account, error)
	Create(ctx context.Context, params account.CreateParams) (*account.Account, error)
	Update(ctx context.Context, a *account.Account) error
	Delete(ctx context.Context, id int64) error
}

// UpdateMarker records that the user changed something worth backing up.
type UpdateMarker interface {
	MarkUpdated(ctx context.Context, at time.Time) error
}
