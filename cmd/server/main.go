package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"litigation_dashboard_go/config"
	"litigation_dashboard_go/db"
	"litigation_dashboard_go/handlers"
	"litigation_dashboard_go/logging"
	"litigation_dashboard_go/middleware"
	"litigation_dashboard_go/models"
	"litigation_dashboard_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	database, err := db.Open(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	})
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close(database)

	// Run migrations
	if err := db.AutoMigrate(database, models.All()...); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	catalog, err := services.LoadCompanyCatalog(cfg.CompanyCatalogPath)
	if err != nil {
		logger.Fatal("failed to load company catalog", zap.Error(err))
	}

	importer := services.NewDecisionImporter(database,
		services.WithCompanyCatalog(catalog),
		services.WithMaxRows(cfg.MaxImportRows),
		services.WithLogger(logger.Named("import")),
	)
	dashboard := services.NewDashboardService(database, logger.Named("dashboard"))

	if cfg.SeedDemoData {
		if _, err := services.SeedDemoData(context.Background(), database, importer, logger.Named("seed")); err != nil {
			logger.Error("failed to seed demo data", zap.Error(err))
		}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Debug = !cfg.IsProduction()

	// Middleware
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(echomiddleware.BodyLimit("20M"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	importLimiter := middleware.NewImportRateLimiter(cfg.ImportRateLimit)
	defer importLimiter.Close()

	api := handlers.NewAPI(database, dashboard, importer, logger.Named("api"))
	api.Register(e, importLimiter.Middleware())

	// Start server
	go func() {
		logger.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("environment", cfg.Environment))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
