package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/p2pledger/transferd/internal/adapter/http"
	"github.com/p2pledger/transferd/internal/adapter/http/handler"
	"github.com/p2pledger/transferd/internal/adapter/http/middleware"
	postgresRepo "github.com/p2pledger/transferd/internal/adapter/repository/postgres"
	redisRepo "github.com/p2pledger/transferd/internal/adapter/repository/redis"
	"github.com/p2pledger/transferd/internal/infrastructure/auth"
	"github.com/p2pledger/transferd/internal/infrastructure/config"
	"github.com/p2pledger/transferd/internal/infrastructure/logger"
	"github.com/p2pledger/transferd/internal/infrastructure/metrics"
	"github.com/p2pledger/transferd/internal/infrastructure/postgres"
	"github.com/p2pledger/transferd/internal/infrastructure/redis"
	"github.com/p2pledger/transferd/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories and supporting services
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	numGen := postgresRepo.NewAccountNumberGenerator()
	retrier := postgresRepo.NewRetrier()

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, txnRepo, userRepo, idGen, numGen, retrier)
	userUC := usecase.NewUserUseCase(userRepo)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	appMetrics := metrics.New()

	// Handlers
	userHandler := handler.NewUserHandler(userUC, jwtManager, appMetrics)
	accountHandler := handler.NewAccountHandler(ledgerUC, appMetrics)
	transferHandler := handler.NewTransferHandler(ledgerUC, appMetrics)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		UserHandler:      userHandler,
		AccountHandler:   accountHandler,
		TransferHandler:  transferHandler,
		HealthHandler:    healthHandler,
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		RequestLogger:    middleware.NewLoggingMiddleware(appLogger),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
