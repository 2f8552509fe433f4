package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/moneybox/internal/http/account"
	"github.com/MrJamesThe3rd/moneybox/internal/http/backup"
	"github.com/MrJamesThe3rd/moneybox/internal/http/category"
	"github.com/MrJamesThe3rd/moneybox/internal/http/importcsv"
	"github.com/MrJamesThe3rd/moneybox/internal/http/payment"
	"github.com/MrJamesThe3rd/moneybox/internal/http/recurring"
)

// UpdateMarker records that the database changed.
type UpdateMarker interface {
	MarkUpdated(ctx context.Context, at time.Time) error
}

type Options struct {
	CORSOrigins []string
	// JWTSecret enables bearer authentication on /api/v1 when set.
	JWTSecret string
	Timeout   time.Duration
	// Settings is told about every successful write. May be nil.
	Settings UpdateMarker
}

func New(
	opts Options,
	accountsV1 *account.Handler,
	paymentsV1 *payment.Handler,
	recurringV1 *recurring.Handler,
	categoriesV1 *category.Handler,
	importV1 *importcsv.Handler,
	backupV1 *backup.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(Authenticate([]byte(opts.JWTSecret)))
		}

		if opts.Settings != nil {
			r.Use(markUpdated(opts.Settings))
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			accountsV1.Routes(r)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			paymentsV1.Routes(r)
		})

		r.Route("/recurring", recurringV1.Routes)

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categoriesV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/backup", backupV1.Routes)
	})

	return router
}
