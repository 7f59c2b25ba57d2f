package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/ledgersync/internal/http/auth"
	"github.com/MrJamesThe3rd/ledgersync/internal/http/export"
	"github.com/MrJamesThe3rd/ledgersync/internal/http/item"
	"github.com/MrJamesThe3rd/ledgersync/internal/http/reconcile"
	"github.com/MrJamesThe3rd/ledgersync/internal/http/transaction"
)

type Options struct {
	AllowedOrigins []string
	Auth           *auth.Authenticator
}

func New(
	opts Options,
	syncV1 *reconcile.Handler,
	transactionsV1 *transaction.Handler,
	itemsV1 *item.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth.Middleware)
		}

		r.Route("/sync", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			syncV1.Routes(r)
		})

		r.Route("/transactions", transactionsV1.Routes)
		r.Route("/items", itemsV1.Routes)
		r.Route("/export", exportV1.Routes)
	})

	return router
}
