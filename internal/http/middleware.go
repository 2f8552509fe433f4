package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// markUpdated stamps the last database update after every write request
// that succeeded. Backup uploads are not writes to the database.
func markUpdated(marker UpdateMarker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if !isWrite(r) || ww.Status() >= http.StatusBadRequest {
				return
			}

			if err := marker.MarkUpdated(r.Context(), time.Now()); err != nil {
				slog.WarnContext(r.Context(), "failed to mark database update", "path", r.URL.Path, "error", err)
			}
		})
	}
}

func isWrite(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return !strings.HasPrefix(r.URL.Path, "/api/v1/backup")
	}

	return false
}
