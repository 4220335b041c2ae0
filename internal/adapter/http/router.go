package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goodsteward/ledger/internal/adapter/http/handler"
	"github.com/goodsteward/ledger/internal/adapter/http/middleware"
	"github.com/goodsteward/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	TransactionHandler    *handler.TransactionHandler
	BillHandler           *handler.BillHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Put("/{id}", cfg.AccountHandler.Update)
			r.Get("/{id}/balance/verify", cfg.AccountHandler.VerifyBalance)
			r.Post("/{id}/balance/repair", cfg.AccountHandler.RepairBalance)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}", cfg.TransactionHandler.Edit)
			r.Post("/{id}/void", cfg.TransactionHandler.Void)
			r.Get("/{id}/history", cfg.TransactionHandler.History)
			r.Get("/{id}/integrity", cfg.TransactionHandler.CheckIntegrity)
		})

		// Bills
		r.Route("/bills", func(r chi.Router) {
			r.Post("/", cfg.BillHandler.Create)
			r.Get("/{id}", cfg.BillHandler.Get)
			r.Post("/{id}/payments", cfg.BillHandler.AddPayment)
		})

		// Bank statements and reconciliation
		r.Route("/statements", func(r chi.Router) {
			r.Post("/", cfg.ReconciliationHandler.Import)
			r.Get("/{id}", cfg.ReconciliationHandler.Get)
			r.Get("/{id}/lines", cfg.ReconciliationHandler.ListLines)
			r.Post("/{id}/match", cfg.ReconciliationHandler.AutoMatch)
			r.Post("/{id}/complete", cfg.ReconciliationHandler.Complete)
		})

		r.Route("/lines", func(r chi.Router) {
			r.Post("/{id}/match", cfg.ReconciliationHandler.ManualMatch)
			r.Post("/{id}/skip", cfg.ReconciliationHandler.SkipLine)
		})
	})

	return r
}
