// cmd/server/main.go
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

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/techstore-backend/internal/config"
	"github.com/javajoker/techstore-backend/internal/database"
	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/router"
	"github.com/javajoker/techstore-backend/internal/services"
)

const sessionSweepInterval = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	setupLogging(cfg)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Order archive is optional
	var orders services.OrderRepository
	if cfg.Database.Enabled {
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}
		orders = services.NewGormOrderRepository(db)
	}

	storageService, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}

	// Load the catalog; on failure the service starts empty and
	// POST /v1/catalog/reload retries.
	catalogService := services.NewCatalogService(services.NewDummyJSONSource(cfg.Catalog), cfg.Catalog.Categories)
	if err := catalogService.LoadWithRetry(ctx, cfg.Catalog.LoadAttempts, cfg.Catalog.RetryDelay); err != nil {
		logrus.WithError(err).Error("Catalog unavailable, starting with an empty catalog")
	}

	settings := services.StorefrontSettings{
		Multiplier:      decimal.NewFromFloat(cfg.Store.CurrencyMultiplier),
		MerchantName:    cfg.Store.MerchantName,
		CurrencySymbol:  cfg.Store.CurrencySymbol,
		SettlementDelay: cfg.Store.SettlementDelay,
		SeedOrders:      cfg.Store.SeedOrders,
	}

	notificationService := services.NewNotificationService()
	sessionService := services.NewSessionService(services.StorefrontDeps{
		Catalog:   catalogService,
		Payments:  services.NewPaymentService(storageService),
		Scheduler: services.TimerScheduler{},
		Notifier:  notificationService,
		Orders:    orders,
		Settings:  settings,
	}, notificationService, time.Duration(cfg.Session.TTLHours)*time.Hour)
	go sessionService.RunJanitor(ctx, sessionSweepInterval)

	// Initialize router
	r := router.Initialize(cfg, router.Services{
		Catalog:       catalogService,
		Sessions:      sessionService,
		Notifications: notificationService,
		Geocoder:      services.NewGeocodingService(cfg.Geocoding),
		Settings:      settings,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	logrus.SetOutput(os.Stdout)
	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
