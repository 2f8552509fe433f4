package backup

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/moneybox/internal/backup"
	"github.com/MrJamesThe3rd/moneybox/internal/http/render"
)

// Handler exposes the backup state. Restoring replaces the database file
// under the running process, so it is only offered at startup and in the TUI.
type Handler struct {
	manager *backup.Manager
}

// NewHandler accepts a nil manager when backups are not configured.
func NewHandler(manager *backup.Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.status)
	r.Post("/upload", h.upload)
}

type statusResponse struct {
	LocalUpdatedAt  time.Time  `json:"local_updated_at"`
	RemoteUpdatedAt *time.Time `json:"remote_updated_at,omitempty"`
	LocalIsNewer    bool       `json:"local_is_newer"`
}

type uploadResponse struct {
	Uploaded bool `json:"uploaded"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.manager.Status(r.Context())
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	resp := statusResponse{LocalUpdatedAt: status.LocalUpdatedAt, LocalIsNewer: status.LocalIsNewer()}
	if !status.RemoteUpdatedAt.IsZero() {
		resp.RemoteUpdatedAt = new(status.RemoteUpdatedAt)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	uploaded, err := h.manager.UploadBackupIfNewer(r.Context())
	if err != nil {
		render.Error(w, r, statusFor(err), err)
		return
	}

	render.JSON(w, http.StatusOK, uploadResponse{Uploaded: uploaded})
}

func statusFor(err error) int {
	if errors.Is(err, backup.ErrDisabled) {
		return http.StatusNotFound
	}

	return http.StatusBadGateway
}
