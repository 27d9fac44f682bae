// Package handlers wires the HTTP surface to the application services.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/artilheiro/store-backend/internal/application/services"
	"github.com/artilheiro/store-backend/internal/config"
	"github.com/artilheiro/store-backend/internal/infrastructure/storage"
	"github.com/artilheiro/store-backend/internal/observability"
)

type Handlers struct {
	orderService   *services.OrderService
	paymentService *services.PaymentService
	reconcile      *services.ReconcileService
	productService *services.ProductService
	uploader       *storage.SupabaseClient
	metrics        *observability.Metrics
	mpConfig       config.MercadoPagoConfig
	logger         *slog.Logger
}

func NewHandlers(
	orderService *services.OrderService,
	paymentService *services.PaymentService,
	reconcile *services.ReconcileService,
	productService *services.ProductService,
	uploader *storage.SupabaseClient,
	metrics *observability.Metrics,
	mpConfig config.MercadoPagoConfig,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		orderService:   orderService,
		paymentService: paymentService,
		reconcile:      reconcile,
		productService: productService,
		uploader:       uploader,
		metrics:        metrics,
		mpConfig:       mpConfig,
		logger:         logger,
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders/lookup", h.LookupOrder)
	mux.HandleFunc("GET /api/orders/admin", h.ListOrders)
	mux.HandleFunc("PATCH /api/orders/{id}", h.UpdateOrder)
	mux.HandleFunc("POST /api/orders/{orderNumber}/payments", h.CreatePayment)
	mux.HandleFunc("GET /api/orders/{orderNumber}/sync-payment", h.SyncPayment)
	mux.HandleFunc("POST /api/orders/webhook/mercadopago", h.WebhookPost)
	mux.HandleFunc("GET /api/orders/webhook/mercadopago", h.WebhookGet)

	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("POST /api/products", h.CreateProduct)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("PATCH /api/products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.DeleteProduct)
	mux.HandleFunc("POST /api/products/images", h.UploadProductImage)

	mux.HandleFunc("GET /api/config", h.GetConfig)
	mux.Handle("GET /metrics", h.metrics.Handler())
}
