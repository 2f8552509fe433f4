package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/http/render"
)

type Handler struct {
	svc *account.Service
}

func NewHandler(svc *account.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/default", h.getDefault)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Put("/{id}/default", h.setDefault)
}

type createAccountRequest struct {
	Name           string `json:"name"`
	IBAN           string `json:"iban"`
	Note           string `json:"note"`
	InitialBalance int64  `json:"initial_balance"`
}

type updateAccountRequest struct {
	Name string `json:"name"`
	IBAN string `json:"iban"`
	Note string `json:"note"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.List(r.Context(), account.ListFilter{NameContains: r.URL.Query().Get("name")})
	if err != nil {
		render.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(accounts))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	a, err := h.svc.Create(r.Context(), account.CreateParams{
		Name:           req.Name,
		IBAN:           req.IBAN,
		Note:           req.Note,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) getDefault(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Default(r.Context())
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	var req updateAccountRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	a.Name = req.Name
	a.IBAN = req.IBAN
	a.Note = req.Note

	if err := h.svc.Update(r.Context(), a); err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setDefault(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if err := h.svc.SetDefault(r.Context(), id); err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, account.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrNameRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, account.ErrInUse):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}
