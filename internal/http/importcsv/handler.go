package importcsv

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/moneybox/internal/account"
	"github.com/MrJamesThe3rd/moneybox/internal/http/render"
	"github.com/MrJamesThe3rd/moneybox/internal/importer"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/banks", h.banks)
	r.Post("/", h.importCSV)
}

type importedPayment struct {
	ID         int64        `json:"id"`
	Type       payment.Type `json:"type"`
	Amount     int64        `json:"amount"`
	Date       time.Time    `json:"date"`
	Note       string       `json:"note,omitempty"`
	CategoryID *int64       `json:"category_id,omitempty"`
}

type duplicate struct {
	Type   payment.Type `json:"type"`
	Amount int64        `json:"amount"`
	Date   time.Time    `json:"date"`
	Note   string       `json:"note,omitempty"`
}

type importResponse struct {
	Imported   []importedPayment `json:"imported"`
	Duplicates []duplicate       `json:"duplicates"`
}

func (h *Handler) banks(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, http.StatusOK, importer.Banks())
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		http.Error(w, "bank field is required", http.StatusBadRequest)
		return
	}

	accountID, err := strconv.ParseInt(r.FormValue("account_id"), 10, 64)
	if err != nil || accountID <= 0 {
		http.Error(w, "account_id field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), bank, accountID, file)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, account.ErrNotFound):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, importer.ErrUnknownBank), errors.Is(err, importer.ErrInvalidStatement):
			status = http.StatusBadRequest
		}

		render.Error(w, r, status, err)

		return
	}

	render.JSON(w, http.StatusCreated, toResponse(result))
}

func toResponse(result *payment.ImportResult) importResponse {
	resp := importResponse{
		Imported:   make([]importedPayment, 0, len(result.Imported)),
		Duplicates: make([]duplicate, 0, len(result.Duplicates)),
	}

	for _, p := range result.Imported {
		resp.Imported = append(resp.Imported, importedPayment{
			ID:         p.ID,
			Type:       p.Type,
			Amount:     p.Amount,
			Date:       p.Date,
			Note:       p.Note,
			CategoryID: p.CategoryID,
		})
	}

	for _, d := range result.Duplicates {
		resp.Duplicates = append(resp.Duplicates, duplicate{Type: d.Type, Amount: d.Amount, Date: d.Date, Note: d.Note})
	}

	return resp
}
