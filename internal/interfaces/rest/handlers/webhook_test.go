package handlers

import (
	"context"
	"errors"
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

type webhookFixture struct {
	handlers *Handlers
	orders   *services.MockOrderRepository
	gateway  *services.MockPaymentGateway
	mux      *http.ServeMux
}

func newWebhookFixture(t *testing.T, webhookSecret string) *webhookFixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	orders := services.NewMockOrderRepository()
	gateway := services.NewMockPaymentGateway()
	events := services.NewMockEventPublisher()
	metrics := observability.NewMetrics()

	reconcile := services.NewReconcileService(orders, gateway, events, metrics, logger)
	mpCfg := config.MercadoPagoConfig{WebhookSecret: webhookSecret}

	h := NewHandlers(nil, nil, reconcile, nil, nil, metrics, mpCfg, logger)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	return &webhookFixture{handlers: h, orders: orders, gateway: gateway, mux: mux}
}

func (f *webhookFixture) addPendingOrder(t *testing.T, number string) {
	t.Helper()
	require.NoError(t, f.orders.Create(context.Background(), &domain.Order{
		ID:          uuid.New(),
		OrderNumber: number,
		Status:      domain.StatusPendingPayment,
	}))
}

func (f *webhookFixture) approveFor(number string) {
	f.gateway.GetPaymentFn = func(ctx context.Context, paymentID int64) (*application.GatewayPayment, error) {
		return &application.GatewayPayment{
			ID:                paymentID,
			Status:            "approved",
			ExternalReference: number,
		}, nil
	}
}

func TestWebhookPost_TransitionsOrder(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.addPendingOrder(t, "ART-2026-0001")
	f.approveFor("ART-2026-0001")

	body := `{"type":"payment","data":{"id":"123456789"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook/mercadopago", strings.NewReader(body))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusReceived, f.orders.Get("ART-2026-0001").Status)
}

func TestWebhookGet_LegacyQueryParams(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.addPendingOrder(t, "ART-2026-0001")
	f.approveFor("ART-2026-0001")

	req := httptest.NewRequest(http.MethodGet, "/api/orders/webhook/mercadopago?topic=payment&id=123456789", nil)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusReceived, f.orders.Get("ART-2026-0001").Status)
}

func TestWebhookPost_ValidSignatureAccepted(t *testing.T) {
	f := newWebhookFixture(t, "s3cr3t")
	f.addPendingOrder(t, "ART-2026-0001")
	f.approveFor("ART-2026-0001")

	body := `{"type":"payment","data":{"id":"123456789"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook/mercadopago?data.id=123456789", strings.NewReader(body))
	req.Header.Set("x-request-id", "abc-123")
	req.Header.Set("x-signature", "ts=1704908010,v1=b1b16c66817d3d82afcc2d2ba335485c2abc27de4cb75c0d057306220cf58b4a")
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusReceived, f.orders.Get("ART-2026-0001").Status)
}

func TestWebhookPost_BadSignatureRejectedWith401(t *testing.T) {
	f := newWebhookFixture(t, "s3cr3t")
	f.addPendingOrder(t, "ART-2026-0001")
	f.approveFor("ART-2026-0001")

	body := `{"type":"payment","data":{"id":"123456789"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook/mercadopago?data.id=123456789", strings.NewReader(body))
	req.Header.Set("x-request-id", "abc-123")
	req.Header.Set("x-signature", "ts=1704908010,v1=deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, domain.StatusPendingPayment, f.orders.Get("ART-2026-0001").Status)
	assert.Zero(t, f.gateway.GetCalls)
}

func TestWebhookPost_MissingSignatureHeaderRejected(t *testing.T) {
	f := newWebhookFixture(t, "s3cr3t")

	body := `{"type":"payment","data":{"id":"123456789"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook/mercadopago", strings.NewReader(body))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookPost_GatewayFailureStillAcknowledged(t *testing.T) {
	f := newWebhookFixture(t, "")
	f.addPendingOrder(t, "ART-2026-0001")
	f.gateway.GetPaymentFn = func(ctx context.Context, paymentID int64) (*application.GatewayPayment, error) {
		return nil, errors.New("provider down")
	}

	body := `{"type":"payment","data":{"id":"123456789"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook/mercadopago", strings.NewReader(body))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusPendingPayment, f.orders.Get("ART-2026-0001").Status)
}

func TestWebhookPost_NonPaymentTopicAcknowledgedWithoutFetch(t *testing.T) {
	f := newWebhookFixture(t, "")

	body := `{"type":"merchant_order","data":{"id":"123456789"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook/mercadopago", strings.NewReader(body))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, f.gateway.GetCalls)
}

func TestWebhookPost_MalformedBodyAcknowledged(t *testing.T) {
	f := newWebhookFixture(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/orders/webhook/mercadopago", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
