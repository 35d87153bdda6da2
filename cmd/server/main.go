package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/lexpractice/lexledger/internal/adapter/http"
	"github.com/lexpractice/lexledger/internal/adapter/http/handler"
	"github.com/lexpractice/lexledger/internal/adapter/http/middleware"
	postgresRepo "github.com/lexpractice/lexledger/internal/adapter/repository/postgres"
	redisRepo "github.com/lexpractice/lexledger/internal/adapter/repository/redis"
	"github.com/lexpractice/lexledger/internal/domain"
	"github.com/lexpractice/lexledger/internal/infrastructure/auth"
	"github.com/lexpractice/lexledger/internal/infrastructure/config"
	"github.com/lexpractice/lexledger/internal/infrastructure/logger"
	"github.com/lexpractice/lexledger/internal/infrastructure/metrics"
	"github.com/lexpractice/lexledger/internal/infrastructure/postgres"
	"github.com/lexpractice/lexledger/internal/infrastructure/redis"
	"github.com/lexpractice/lexledger/internal/infrastructure/taxtable"
	"github.com/lexpractice/lexledger/internal/usecase"
)

const (
	rateLimitCleanupInterval = time.Minute
	rateLimitIdleTimeout     = 10 * time.Minute
	poolStatsInterval        = 15 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "lexledger",
	})
	logger.Install(appLogger)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL, waiting for it to come up
	var pool *pgxpool.Pool
	err = postgresRepo.NewRetrier(appLogger).Retry(ctx, func() error {
		var connErr error
		pool, connErr = postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		return connErr
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPoolSize)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	schedule, err := loadTaxSchedule(cfg.TaxSchedulePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load tax schedule")
	}
	log.Info().Str("schedule", schedule.Name).Msg("tax schedule loaded")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	matterRepo := postgresRepo.NewMatterRepository(pool)
	clientRepo := postgresRepo.NewClientRepository(pool)
	timeRepo := postgresRepo.NewTimeEntryRepository(pool)
	trustRepo := postgresRepo.NewTrustEntryRepository(pool)
	payrollRepo := postgresRepo.NewPayrollRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	userUC := usecase.NewUserUseCase(userRepo, auditRepo, idGen)
	clientUC := usecase.NewClientUseCase(clientRepo, idGen)
	matterUC := usecase.NewMatterUseCase(matterRepo, clientRepo, timeRepo, trustRepo, userRepo, auditRepo, idGen, appLogger)
	trustUC := usecase.NewTrustUseCase(txManager, matterRepo, trustRepo, auditRepo, idGen, m, appLogger)
	payrollUC := usecase.NewPayrollUseCase(txManager, payrollRepo, userRepo, auditRepo, idGen,
		domain.NewPayCalculator(schedule), m, appLogger)

	if err := bootstrapAdmin(ctx, userRepo, userUC, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword, appLogger); err != nil {
		log.Fatal().Err(err).Msg("failed to create bootstrap administrator")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
	go rateLimiter.RunCleanup(ctx, rateLimitCleanupInterval, rateLimitIdleTimeout)
	go watchPool(ctx, pool, m, poolStatsInterval)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager),
		MatterHandler:    handler.NewMatterHandler(matterUC),
		ClientHandler:    handler.NewClientHandler(clientUC),
		TrustHandler:     handler.NewTrustHandler(trustUC),
		PayrollHandler:   handler.NewPayrollHandler(payrollUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		Authenticator:    middleware.NewAuthenticator(jwtManager, userRepo, m, appLogger),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		CORSOrigins:      cfg.CORSOrigins,
		Logger:           appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// loadTaxSchedule returns the schedule at path, or the built-in one when path
// is empty.
func loadTaxSchedule(path string) (*domain.TaxSchedule, error) {
	if path == "" {
		return domain.DefaultTaxSchedule(), nil
	}
	return taxtable.LoadFile(path)
}

// bootstrapAdmin creates the first administrator unless a user with email
// already exists. Empty email disables it.
func bootstrapAdmin(ctx context.Context, users usecase.UserRepository, userUC *usecase.UserUseCase, email, password string, l zerolog.Logger) error {
	if email == "" {
		return nil
	}

	_, err := users.GetByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return err
	}

	admin, err := userUC.Register(ctx, usecase.RegisterInput{
		Email:    email,
		Name:     "Administrator",
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return err
	}

	l.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("bootstrap administrator created")
	return nil
}

// watchPool publishes the number of acquired connections until ctx ends.
func watchPool(ctx context.Context, pool *pgxpool.Pool, m *metrics.Metrics, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.DBConnections.Set(float64(pool.Stat().AcquiredConns()))
		}
	}
}
