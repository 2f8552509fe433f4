package payment

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/http/render"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

type Handler struct {
	manager *payment.Manager
}

func NewHandler(manager *payment.Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/recurring", h.checkRecurring)
	r.Delete("/{id}/recurring", h.removeRecurring)
}

type recurrenceRequest struct {
	Index   int        `json:"index"`
	Endless bool       `json:"endless"`
	EndDate *time.Time `json:"end_date"`
}

// paymentRequest is the full state of a payment. Omitting recurrence on an
// update stops the payment from recurring.
type paymentRequest struct {
	Type             payment.Type       `json:"type"`
	Amount           int64              `json:"amount"`
	Date             time.Time          `json:"date"`
	Note             string             `json:"note"`
	ChargedAccountID int64              `json:"charged_account_id"`
	TargetAccountID  *int64             `json:"target_account_id"`
	CategoryID       *int64             `json:"category_id"`
	Recurrence       *recurrenceRequest `json:"recurrence"`
}

func (req paymentRequest) apply(p *payment.Payment) {
	p.Type = req.Type
	p.Amount = req.Amount
	p.Date = req.Date
	p.Note = req.Note
	p.ChargedAccountID = req.ChargedAccountID
	p.TargetAccountID = req.TargetAccountID
	p.CategoryID = req.CategoryID

	if p.Date.IsZero() {
		p.Date = time.Now()
	}
}

func (req paymentRequest) schedule() (*payment.Schedule, error) {
	if req.Recurrence == nil {
		return nil, nil
	}

	rec, err := payment.RecurrenceFromIndex(req.Recurrence.Index)
	if err != nil {
		return nil, err
	}

	return &payment.Schedule{
		Recurrence: rec,
		IsEndless:  req.Recurrence.Endless,
		EndDate:    req.Recurrence.EndDate,
	}, nil
}

type recurringCheckResponse struct {
	Recurring          bool   `json:"recurring"`
	RecurringPaymentID *int64 `json:"recurring_payment_id,omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := payment.ListFilter{}

	var err error

	if filter.AccountID, err = render.QueryID(r, "account_id"); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if filter.CategoryID, err = render.QueryID(r, "category_id"); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if filter.StartDate, err = render.QueryDate(r, "start_date"); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if filter.EndDate, err = render.QueryDate(r, "end_date"); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.Type = new(payment.Type(s))
	}

	payments, err := h.manager.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(payments))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	schedule, err := req.schedule()
	if err != nil {
		render.Error(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	p := &payment.Payment{}
	req.apply(p)

	if err := h.manager.Save(r.Context(), p, schedule); err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	schedule, err := req.schedule()
	if err != nil {
		render.Error(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	req.apply(p)

	if err := h.manager.Save(r.Context(), p, schedule); err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.manager.Delete(r.Context(), p); err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) checkRecurring(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	recurring, err := h.manager.CheckRecurrenceOfPayment(r.Context(), p)
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	resp := recurringCheckResponse{Recurring: recurring}
	if recurring {
		resp.RecurringPaymentID = p.RecurringPaymentID
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) removeRecurring(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.manager.RemoveRecurringForPayment(r.Context(), p); err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*payment.Payment, bool) {
	id, err := render.ID(r)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return nil, false
	}

	p, err := h.manager.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return nil, false
	}

	return p, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, payment.ErrNotFound), errors.Is(err, payment.ErrRecurringNotFound):
		return http.StatusNotFound
	case errors.Is(err, payment.ErrAccountRequired),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidType),
		errors.Is(err, payment.ErrInvalidTransfer),
		errors.Is(err, payment.ErrTargetNotAllowed),
		errors.Is(err, payment.ErrInvalidEndDate),
		errors.Is(err, payment.ErrInvalidRecurrence),
		errors.Is(err, payment.ErrUnknownReference),
		errors.Is(err, account.ErrNotFound):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}
