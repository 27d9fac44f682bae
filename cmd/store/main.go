package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artilheiro/store-backend/internal/application/services"
	"github.com/artilheiro/store-backend/internal/config"
	"github.com/artilheiro/store-backend/internal/events"
	"github.com/artilheiro/store-backend/internal/infrastructure/mercadopago"
	"github.com/artilheiro/store-backend/internal/infrastructure/persistence/postgres"
	"github.com/artilheiro/store-backend/internal/infrastructure/storage"
	"github.com/artilheiro/store-backend/internal/interfaces/rest/handlers"
	"github.com/artilheiro/store-backend/internal/interfaces/rest/middleware"
	"github.com/artilheiro/store-backend/internal/observability"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting store backend",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	orderRepo := postgres.NewOrderRepository(db)
	productRepo := postgres.NewProductRepository(db)

	gateway := mercadopago.NewClient(cfg.MercadoPago)
	uploader := storage.NewSupabaseClient(cfg.Storage)
	metrics := observability.NewMetrics()

	publisher := events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic, logger)
	defer publisher.Close()

	orderService := services.NewOrderService(orderRepo, productRepo, logger)
	paymentService := services.NewPaymentService(orderRepo, gateway, publisher, metrics, logger)
	reconcileService := services.NewReconcileService(orderRepo, gateway, publisher, metrics, logger)
	productService := services.NewProductService(productRepo, logger)

	h := handlers.NewHandlers(
		orderService,
		paymentService,
		reconcileService,
		productService,
		uploader,
		metrics,
		cfg.MercadoPago,
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
