package payment

import (
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

type paymentResponse struct {
	ID                 int64        `json:"id"`
	Type               payment.Type `json:"type"`
	Amount             int64        `json:"amount"`
	Date               time.Time    `json:"date"`
	Note               string       `json:"note,omitempty"`
	ChargedAccountID   int64        `json:"charged_account_id"`
	TargetAccountID    *int64       `json:"target_account_id,omitempty"`
	CategoryID         *int64       `json:"category_id,omitempty"`
	RecurringPaymentID *int64       `json:"recurring_payment_id,omitempty"`
	IsCleared          bool         `json:"is_cleared"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func toResponse(p *payment.Payment) paymentResponse {
	return paymentResponse{
		ID:                 p.ID,
		Type:               p.Type,
		Amount:             p.Amount,
		Date:               p.Date,
		Note:               p.Note,
		ChargedAccountID:   p.ChargedAccountID,
		TargetAccountID:    p.TargetAccountID,
		CategoryID:         p.CategoryID,
		RecurringPaymentID: p.RecurringPaymentID,
		IsCleared:          p.IsCleared(time.Now()),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toResponseList(payments []*payment.Payment) []paymentResponse {
	resp := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, toResponse(p))
	}

	return resp
}
