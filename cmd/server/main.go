package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appfinance "github.com/wms/backend/internal/application/finance"
	"github.com/wms/backend/internal/infrastructure/cache"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting WMS finance backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	methodRepo := persistence.NewGormPaymentMethodRepository(db.DB)

	// Initialize result cache for the dashboard
	resultCache, err := newResultCache(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize result cache", zap.Error(err))
	}
	defer func() {
		if err := resultCache.Close(); err != nil {
			log.Error("Error closing result cache", zap.Error(err))
		}
	}()

	// Initialize application services
	reconService := appfinance.NewReconciliationService(
		invoiceRepo,
		paymentRepo,
		expenseRepo,
		accountRepo,
		methodRepo,
		log,
	)
	dashboardService := appfinance.NewDashboardService(reconService, resultCache, cfg.Dashboard.CacheTTL, log)

	// Initialize handlers
	financeHandler := handler.NewFinanceHandler(dashboardService)
	systemHandler := handler.NewSystemHandler(db, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log

	engine := router.New(router.Dependencies{
		Finance: financeHandler,
		System:  systemHandler,
		Logger:  log,
		CORS:    corsConfig,
		Tenant:  tenantConfig,
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// closableResultCache is what both cache backends provide: the dashboard
// read/write contract plus a shutdown hook.
type closableResultCache interface {
	appfinance.ResultCache
	Close() error
}

// newResultCache builds the dashboard result cache for the configured backend.
func newResultCache(cfg *config.Config, log *zap.Logger) (closableResultCache, error) {
	switch cfg.Dashboard.CacheBackend {
	case "redis":
		log.Info("Using Redis result cache", zap.String("addr", cfg.Redis.Addr()))
		return cache.NewRedisResultCache(cache.RedisOptions{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		log.Info("Using in-memory result cache")
		return cache.NewInMemoryResultCache(), nil
	}
}
