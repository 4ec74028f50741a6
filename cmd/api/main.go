package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/pawtrait-ai/backend/internal/api/handlers"
	"github.com/pawtrait-ai/backend/internal/api/router"
	"github.com/pawtrait-ai/backend/internal/config"
	"github.com/pawtrait-ai/backend/internal/pkg/logger"
	"github.com/pawtrait-ai/backend/internal/pkg/validator"
	"github.com/pawtrait-ai/backend/internal/repository/postgres"
	"github.com/pawtrait-ai/backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	visitorRepo := postgres.NewVisitorRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	trialRepo := postgres.NewTrialRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	settingRepo := postgres.NewSettingRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Services
	eventSvc := services.NewEventService(eventRepo, log)
	visitorSvc := services.NewVisitorService(visitorRepo, log)
	trialSvc := services.NewTrialService(trialRepo, log)
	settingSvc := services.NewSettingService(settingRepo, visitorRepo, eventSvc, log)
	analyticsSvc := services.NewAnalyticsService(analyticsRepo, log)

	// TODO: replace with the gateway SDK call once gateway credentials are
	// provisioned; until then orders are issued in test mode.
	createGatewayOrder := func(ctx context.Context, amount int64, currency, receipt string) (string, error) {
		if cfg.Payment.KeyID == "" || cfg.Payment.KeySecret == "" {
			return "", fmt.Errorf("payment gateway is not configured")
		}
		return "order_" + uuid.NewString(), nil
	}
	orderSvc := services.NewOrderService(orderRepo, eventSvc, cfg.Payment, createGatewayOrder, log)

	v := validator.New()

	handler := router.New(cfg, log, router.Handlers{
		Health:    handlers.NewHealthHandler(db, log),
		Tracking:  handlers.NewTrackingHandler(visitorSvc, eventSvc, v, log),
		Status:    handlers.NewStatusHandler(settingSvc, log),
		Settings:  handlers.NewSettingsHandler(settingSvc, log),
		Analytics: handlers.NewAnalyticsHandler(analyticsSvc, log),
		Visitors:  handlers.NewVisitorsHandler(visitorSvc, log),
		Orders:    handlers.NewOrdersHandler(orderSvc, log),
		Trial:     handlers.NewTrialHandler(trialSvc, v, log),
		Payment:   handlers.NewPaymentHandler(orderSvc, v, log),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Info("Server stopped")
}
