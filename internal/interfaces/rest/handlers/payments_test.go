package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/application/services"
	"github.com/artilheiro/store-backend/internal/config"
	"github.com/artilheiro/store-backend/internal/domain"
	"github.com/artilheiro/store-backend/internal/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	orders  *services.MockOrderRepository
	gateway *services.MockPaymentGateway
	mux     *http.ServeMux
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	orders := services.NewMockOrderRepository()
	products := services.NewMockProductRepository()
	gateway := services.NewMockPaymentGateway()
	events := services.NewMockEventPublisher()
	metrics := observability.NewMetrics()

	h := NewHandlers(
		services.NewOrderService(orders, products, logger),
		services.NewPaymentService(orders, gateway, events, metrics, logger),
		services.NewReconcileService(orders, gateway, events, metrics, logger),
		services.NewProductService(products, logger),
		nil,
		metrics,
		config.MercadoPagoConfig{PublicKey: "TEST-public-key"},
		logger,
	)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return &apiFixture{orders: orders, gateway: gateway, mux: mux}
}

func TestCreateOrderEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	body := `{
		"customerName": "João Silva",
		"email": "joao@example.com",
		"cpf": "123.456.789-09",
		"address": {"cep": "01310-100", "street": "Av. Paulista", "number": "1000", "city": "São Paulo", "state": "SP"},
		"items": [{"productId": "sku-1", "size": "M", "quantity": 2, "unitPriceCents": 9990}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderNumber string `json:"orderNumber"`
			TotalCents  int64  `json:"totalCents"`
			Status      string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Regexp(t, `^ART-\d{4}-\d{4}$`, resp.Data.OrderNumber)
	assert.Equal(t, int64(19980), resp.Data.TotalCents)
	assert.Equal(t, "PENDING_PAYMENT", resp.Data.Status)
}

func TestCreateOrderEndpoint_InvalidBody(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"items": []}`))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, application.ErrCodeInvalidArgument, resp.Error.Code)
}

func TestSyncPaymentEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.orders.Create(context.Background(), &domain.Order{
		ID:          uuid.New(),
		OrderNumber: "ART-2026-0001",
		Status:      domain.StatusPendingPayment,
	}))
	f.gateway.GetPaymentFn = func(ctx context.Context, paymentID int64) (*application.GatewayPayment, error) {
		return &application.GatewayPayment{ID: paymentID, Status: "approved", ExternalReference: "ART-2026-0001"}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ART-2026-0001/sync-payment?paymentId=555", nil)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Updated     bool   `json:"updated"`
			OrderNumber string `json:"orderNumber"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Updated)
	assert.Equal(t, "ART-2026-0001", resp.Data.OrderNumber)

	// second sync is a no-op, not an error
	w = httptest.NewRecorder()
	f.mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/ART-2026-0001/sync-payment?paymentId=555", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Updated)
}

func TestSyncPaymentEndpoint_MissingPaymentID(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ART-2026-0001/sync-payment", nil)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncPaymentEndpoint_OrderNotFound(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ART-2026-9999/sync-payment?paymentId=555", nil)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetConfigEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			MercadoPagoPublicKey string `json:"mercadoPagoPublicKey"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "TEST-public-key", resp.Data.MercadoPagoPublicKey)
}
