package recurring

import (
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

type recurringResponse struct {
	ID               int64        `json:"id"`
	SourcePaymentID  int64        `json:"source_payment_id"`
	Recurrence       int          `json:"recurrence"`
	RecurrenceLabel  string       `json:"recurrence_label"`
	StartDate        time.Time    `json:"start_date"`
	EndDate          *time.Time   `json:"end_date,omitempty"`
	IsEndless        bool         `json:"is_endless"`
	Type             payment.Type `json:"type"`
	Amount           int64        `json:"amount"`
	Note             string       `json:"note,omitempty"`
	ChargedAccountID int64        `json:"charged_account_id"`
	TargetAccountID  *int64       `json:"target_account_id,omitempty"`
	CategoryID       *int64       `json:"category_id,omitempty"`
	LastExecution    *time.Time   `json:"last_execution,omitempty"`
	NextOccurrence   *time.Time   `json:"next_occurrence,omitempty"`
}

func toResponse(rp *payment.RecurringPayment) recurringResponse {
	resp := recurringResponse{
		ID:               rp.ID,
		SourcePaymentID:  rp.SourcePaymentID,
		Recurrence:       rp.Recurrence.Index(),
		RecurrenceLabel:  rp.Recurrence.String(),
		StartDate:        rp.StartDate,
		EndDate:          rp.EndDate,
		IsEndless:        rp.IsEndless,
		Type:             rp.Type,
		Amount:           rp.Amount,
		Note:             rp.Note,
		ChargedAccountID: rp.ChargedAccountID,
		TargetAccountID:  rp.TargetAccountID,
		CategoryID:       rp.CategoryID,
		LastExecution:    rp.LastExecution,
	}

	if next, ok := rp.NextOccurrence(); ok {
		resp.NextOccurrence = new(next)
	}

	return resp
}

func toResponseList(schedules []*payment.RecurringPayment) []recurringResponse {
	resp := make([]recurringResponse, 0, len(schedules))
	for _, rp := range schedules {
		resp = append(resp, toResponse(rp))
	}

	return resp
}
