package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/goodsteward/ledger/internal/adapter/http"
	"github.com/goodsteward/ledger/internal/adapter/http/handler"
	"github.com/goodsteward/ledger/internal/adapter/periods"
	postgresRepo "github.com/goodsteward/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/goodsteward/ledger/internal/adapter/repository/redis"
	"github.com/goodsteward/ledger/internal/infrastructure/config"
	"github.com/goodsteward/ledger/internal/infrastructure/logger"
	"github.com/goodsteward/ledger/internal/infrastructure/metrics"
	"github.com/goodsteward/ledger/internal/infrastructure/postgres"
	"github.com/goodsteward/ledger/internal/infrastructure/redis"
	"github.com/goodsteward/ledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.DefaultContextLogger = &log.Logger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Fiscal-period guard
	periodGuard, err := periods.ParseGuard(cfg.PeriodClosedThrough)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure period guard")
	}

	// Metrics
	m := metrics.New(prometheus.DefaultRegisterer)
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	billRepo := postgresRepo.NewBillRepository(pool)
	stmtRepo := postgresRepo.NewStatementRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log.Logger)

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, txnRepo)
	billUC := usecase.NewBillUseCase(txManager, billRepo, idGen)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, txnRepo, idGen, cache)
	transactionUC := usecase.NewTransactionUseCase(txManager, txnRepo, billRepo, ledgerUC, billUC, periodGuard, idGen)
	reconUC := usecase.NewReconciliationUseCase(txManager, stmtRepo, txnRepo, transactionUC, idGen)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC, ledgerUC, m)
	transactionHandler := handler.NewTransactionHandler(transactionUC, ledgerUC, retrier, m)
	billHandler := handler.NewBillHandler(billUC, m)
	reconHandler := handler.NewReconciliationHandler(reconUC, m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        accountHandler,
		TransactionHandler:    transactionHandler,
		BillHandler:           billHandler,
		ReconciliationHandler: reconHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
