package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bathingculture/books/internal/auth"
	authHandler "github.com/bathingculture/books/internal/http/auth"
	"github.com/bathingculture/books/internal/http/capital"
	"github.com/bathingculture/books/internal/http/checkin"
	"github.com/bathingculture/books/internal/http/counterparty"
	"github.com/bathingculture/books/internal/http/distribution"
	"github.com/bathingculture/books/internal/http/transaction"
)

func New(
	tokens *auth.Tokens,
	users auth.UserGetter,
	authV1 *authHandler.Handler,
	checkinsV1 *checkin.Handler,
	transactionsV1 *transaction.Handler,
	counterpartyV1 *counterparty.Handler,
	capitalV1 *capital.Handler,
	distributionV1 *distribution.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens, users))

			authV1.AuthedRoutes(r)

			r.Route("/checkins", checkinsV1.Routes)
			r.Route("/transactions", transactionsV1.Routes)
			r.Route("/counterparty-map", counterpartyV1.Routes)
			r.Route("/capital-accounts", capitalV1.Routes)

			distributionV1.Routes(r)
		})
	})

	return router
}
