package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/SscSPs/purchase_service_app/internal/adapters/database/pgsql"
	"github.com/SscSPs/purchase_service_app/internal/adapters/rates"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/SscSPs/purchase_service_app/internal/core/events"
	"github.com/SscSPs/purchase_service_app/internal/core/mediator"
	"github.com/SscSPs/purchase_service_app/internal/core/purchases"
	"github.com/SscSPs/purchase_service_app/internal/core/services"
	"github.com/SscSPs/purchase_service_app/internal/handlers"
	"github.com/SscSPs/purchase_service_app/internal/middleware"
	"github.com/SscSPs/purchase_service_app/internal/platform/config"
	"github.com/SscSPs/purchase_service_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Purchase Service API
// @version 1.0
// @description Records purchases and reports them converted into a requested currency.

// @host localhost:8080
// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Rate lookup chain: HTTP client wrapped by the TTL cache.
	treasuryClient := rates.NewTreasuryClient(cfg.RatesAPIURL, cfg.RatesHTTPTimeout, logger)
	rateSource := rates.NewCachingRateSource(treasuryClient, cfg.RatesCacheTTL)
	conversionService := services.NewCurrencyConversionService(rateSource)

	purchaseRepo := pgsql.NewPurchaseRepository(dbPool)

	// Event dispatcher with the default PurchaseCreated subscriber.
	eventDispatcher := events.NewDispatcher(logger)
	purchaseCreatedHandler := purchases.NewPurchaseCreatedHandler(logger)
	events.Subscribe(eventDispatcher, purchaseCreatedHandler.Handle)

	// Request pipeline: sanitization, logging, side effects, then handlers.
	sanitization := mediator.NewSanitizationBehavior(logger)
	mediator.RegisterSanitizer[purchases.CreatePurchaseCommand](sanitization, purchases.CreatePurchaseSanitizer{})

	dispatcher := mediator.New(
		sanitization,
		mediator.NewLoggingBehavior(logger),
		mediator.NewSideEffectBehavior(logger, eventDispatcher),
	)
	mediator.Register[purchases.CreatePurchaseCommand, purchases.CreatePurchaseResult](
		dispatcher, purchases.NewCreatePurchaseHandler(purchaseRepo))
	mediator.Register[purchases.GetPurchaseQuery, domain.ConversionResult](
		dispatcher, purchases.NewGetPurchaseHandler(purchaseRepo, conversionService))

	// Per-IP rate limiting with an in-memory store.
	rateLimit, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	rateLimiter := limiter.New(memory.NewStore(), rateLimit)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.StructuredLoggingMiddleware(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	r.Use(cors.New(corsConfig))

	handlers.RegisterRoutes(r, cfg, dispatcher, rateLimiter)

	logger.Info("Starting server", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
