// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"points-ledger/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	transactionHandler *handler.TransactionHandler,
	accountHandler *handler.AccountHandler,
	presenceHandler *handler.PresenceHandler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Accounts
		r.Post("/register", accountHandler.Register)
		r.Post("/login", accountHandler.Login)
		r.Get("/users", accountHandler.FindUsers)

		// Transaction requests and review
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", transactionHandler.Create)
			r.Get("/", transactionHandler.List)
			r.Patch("/{id}", transactionHandler.Review)
		})
		r.Get("/users/{userID}/transactions", transactionHandler.ListByUser)

		// Withdraw setup
		r.Post("/setWithdrawPwd", accountHandler.SetWithdrawPassword)
		r.Post("/checkWithdrawPwd", accountHandler.CheckWithdrawPassword)
		r.Post("/addWithdrawMethod", accountHandler.AddWithdrawMethod)
		r.Get("/checkWithdrawReady", accountHandler.CheckWithdrawReady)
		r.Get("/getWithdrawAccounts", accountHandler.GetWithdrawAccounts)

		// Presence
		r.Get("/onlineUsers", presenceHandler.OnlineUsers)
		r.Post("/logout", presenceHandler.Logout)
	})

	return r
}
