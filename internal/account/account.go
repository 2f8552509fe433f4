package account

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("account not found")
	ErrNameRequired = errors.New("account name is required")
	ErrInUse        = errors.New("account is referenced by payments")
)

// Account holds money. CurrentBalance only changes through payments once the
// account exists.
type Account struct {
	ID             int64
	Name           string
	IBAN           string
	Note           string
	CurrentBalance int64 // Amount in cents
	IsDefault      bool  // Derived from settings, not stored
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
