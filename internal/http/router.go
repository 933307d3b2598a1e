package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/financia/internal/http/auth"
	"github.com/MrJamesThe3rd/financia/internal/http/chat"
	"github.com/MrJamesThe3rd/financia/internal/http/export"
	"github.com/MrJamesThe3rd/financia/internal/http/importcsv"
	"github.com/MrJamesThe3rd/financia/internal/http/investment"
	"github.com/MrJamesThe3rd/financia/internal/http/matching"
	"github.com/MrJamesThe3rd/financia/internal/http/records"
	"github.com/MrJamesThe3rd/financia/internal/http/summary"
	"github.com/MrJamesThe3rd/financia/internal/http/tax"
	"github.com/MrJamesThe3rd/financia/internal/http/transaction"
)

// Handlers groups the v1 API handlers.
type Handlers struct {
	Auth         *auth.Handler
	Transactions *transaction.Handler
	Investments  *investment.Handler
	Taxes        *tax.Handler
	Records      *records.Handler
	Summary      *summary.Handler
	Chat         *chat.Handler
	Import       *importcsv.Handler
	Matching     *matching.Handler
	Export       *export.Handler
}

func New(v1 Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", v1.Auth.Routes)

		r.Group(func(r chi.Router) {
			r.Use(v1.Auth.Authenticate)

			r.Route("/me", v1.Auth.AccountRoutes)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Transactions.Routes(r)
			})

			r.Route("/investments", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Investments.Routes(r)
			})

			r.Route("/taxes", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Taxes.Routes(r)
			})

			r.Route("/records", v1.Records.Routes)
			r.Route("/summary", v1.Summary.Routes)

			r.Route("/chat", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				v1.Chat.Routes(r)
			})

			r.Route("/import", v1.Import.Routes)

			r.Route("/rules", func(r chi.Router) {
				v1.Matching.Routes(r)
			})

			r.Route("/export", v1.Export.Routes)
		})
	})

	return router
}
