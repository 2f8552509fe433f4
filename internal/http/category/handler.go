package category

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/moneybox/internal/category"
	"github.com/MrJamesThe3rd/moneybox/internal/http/render"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/suggest", h.suggest)
	r.Get("/rules", h.listRules)
	r.Post("/rules", h.learn)
	r.Delete("/rules/{id}", h.deleteRule)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type categoryRequest struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

type ruleRequest struct {
	Pattern    string `json:"pattern"`
	CategoryID int64  `json:"category_id"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context(), category.ListFilter{NameContains: r.URL.Query().Get("name")})
	if err != nil {
		render.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(categories))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	c, err := h.svc.Create(r.Context(), req.Name, req.Notes)
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	var req categoryRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	c.Name = req.Name
	c.Notes = req.Notes

	if err := h.svc.Update(r.Context(), c); err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
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

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Suggest(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	if c == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.Rules(r.Context())
	if err != nil {
		render.Error(w, r, http.StatusInternalServerError, err)
		return
	}

	render.JSON(w, http.StatusOK, toRuleResponseList(rules))
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	rule, err := h.svc.Learn(r.Context(), req.Pattern, req.CategoryID)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, category.ErrNotFound) {
			status = http.StatusUnprocessableEntity
		}

		render.Error(w, r, status, err)

		return
	}

	render.JSON(w, http.StatusCreated, toRuleResponse(rule))
}

func (h *Handler) deleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := render.ID(r)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, err)
		return
	}

	if err := h.svc.DeleteRule(r.Context(), id); err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, category.ErrNotFound), errors.Is(err, category.ErrRuleNotFound):
		return http.StatusNotFound
	case errors.Is(err, category.ErrNameRequired), errors.Is(err, category.ErrPatternRequired):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}
