package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/moneybox/internal/http/render"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

// Processor creates the payments that recurring schedules owe.
type Processor interface {
	ProcessDue(ctx context.Context, now time.Time) (int, error)
}

type Handler struct {
	manager   *payment.Manager
	processor Processor
}

func NewHandler(manager *payment.Manager, processor Processor) *Handler {
	return &Handler{manager: manager, processor: processor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/process", h.process)
}

type processResponse struct {
	Created int `json:"created"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accountID, err := render.QueryID(r, "account_id")
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	schedules, err := h.manager.ListRecurring(r.Context(), payment.RecurringFilter{AccountID: accountID})
	if err != nil {
		render.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(schedules))
}

func (h *Handler) process(w http.ResponseWriter, r *http.Request) {
	created, err := h.processor.ProcessDue(r.Context(), time.Now())
	if err != nil {
		render.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	render.JSON(w, http.StatusOK, processResponse{Created: created})
}
