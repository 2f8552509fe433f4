package account

import (
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
)

type accountResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	IBAN           string    `json:"iban,omitempty"`
	Note           string    `json:"note,omitempty"`
	CurrentBalance int64     `json:"current_balance"`
	IsDefault      bool      `json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Name:           a.Name,
		IBAN:           a.IBAN,
		Note:           a.Note,
		CurrentBalance: a.CurrentBalance,
		IsDefault:      a.IsDefault,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toResponseList(accounts []*account.Account) []accountResponse {
	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toResponse(a))
	}

	return resp
}
