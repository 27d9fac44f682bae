package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/infrastructure/mercadopago"
	"github.com/artilheiro/store-backend/internal/infrastructure/persistence/postgres"
)

// ReconcileService aligns local order status with the provider's
// authoritative payment status. Three triggers can fire for the same
// order in any order, duplicated or never; all converge on exactly one
// PENDING_PAYMENT to RECEIVED transition through the repository's CAS
// update.
type ReconcileService struct {
	orders  application.OrderRepository
	gateway application.PaymentGateway
	events  application.EventPublisher
	metrics Recorder
	logger  *slog.Logger
}

func NewReconcileService(
	orders application.OrderRepository,
	gateway application.PaymentGateway,
	events application.EventPublisher,
	metrics Recorder,
	logger *slog.Logger,
) *ReconcileService {
	return &ReconcileService{
		orders:  orders,
		gateway: gateway,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

// ProcessWebhook ingests one provider notification. It never returns an
// error: the delivery contract is at-least-once fire-and-forget, the
// transport always acknowledges, and every failure in here is recorded
// to the metrics sink instead of surfacing. Signature verification
// happens at the transport boundary before this is called.
func (s *ReconcileService) ProcessWebhook(ctx context.Context, eventType, paymentID string) {
	paymentID = strings.TrimSpace(paymentID)
	if eventType != "payment" || paymentID == "" {
		s.metrics.WebhookEvent("ignored")
		return
	}

	id, err := strconv.ParseInt(paymentID, 10, 64)
	if err != nil {
		s.metrics.WebhookEvent("invalid_id")
		s.logger.Warn("webhook carried a non-numeric payment id", "payment_id", paymentID)
		return
	}

	payment, err := s.gateway.GetPayment(ctx, id)
	if err != nil {
		s.metrics.GatewayRequest("get_payment", "error")
		s.metrics.WebhookEvent("fetch_failed")
		s.logger.Warn("webhook payment fetch failed",
			"payment_id", paymentID,
			"error", err)
		return
	}
	s.metrics.GatewayRequest("get_payment", "ok")

	if !payment.Approved() {
		s.metrics.WebhookEvent("not_approved")
		return
	}

	orderNumber := strings.TrimSpace(payment.ExternalReference)
	if orderNumber == "" {
		s.metrics.WebhookEvent("no_reference")
		return
	}

	updated, err := s.orders.MarkReceived(ctx, orderNumber, paymentID)
	if err != nil {
		s.metrics.WebhookEvent("store_error")
		s.logger.Error("webhook transition failed",
			"order_number", orderNumber,
			"payment_id", paymentID,
			"error", err)
		return
	}
	if !updated {
		// Either the order never existed or another path won the race.
		s.metrics.WebhookEvent("noop")
		return
	}

	s.metrics.WebhookEvent("transitioned")
	s.metrics.OrderTransition("webhook")
	s.events.OrderReceived(ctx, orderNumber, paymentID)
	s.logger.Info("order received",
		"order_number", orderNumber,
		"payment_id", paymentID,
		"trigger", "webhook")
}

// SyncPayment is the on-demand pull path for orders whose webhook never
// arrived. Unlike the webhook path it reports back: NotFound when the
// order is absent, false when nothing changed, true when this call
// performed the transition.
func (s *ReconcileService) SyncPayment(ctx context.Context, orderNumber, paymentID string) (bool, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			return false, application.NewNotFoundError("order")
		}
		return false, application.NewInternalError(err)
	}
	if !order.IsPayable() {
		return false, nil
	}

	id, err := strconv.ParseInt(strings.TrimSpace(paymentID), 10, 64)
	if err != nil {
		return false, application.NewInvalidArgumentError("paymentId must be a numeric provider payment id")
	}

	payment, err := s.gateway.GetPayment(ctx, id)
	if err != nil {
		s.metrics.GatewayRequest("get_payment", "error")
		if mercadopago.IsNotFound(err) {
			return false, application.NewNotFoundError("payment")
		}
		return false, asGatewayError(err)
	}
	s.metrics.GatewayRequest("get_payment", "ok")

	if !payment.Approved() {
		return false, nil
	}
	if strings.TrimSpace(payment.ExternalReference) != order.OrderNumber {
		s.logger.Warn("sync payment does not reference this order",
			"order_number", order.OrderNumber,
			"payment_id", paymentID,
			"external_reference", payment.ExternalReference)
		return false, nil
	}

	updated, err := s.orders.MarkReceived(ctx, order.OrderNumber, strings.TrimSpace(paymentID))
	if err != nil {
		return false, application.NewInternalError(err)
	}
	if updated {
		s.metrics.OrderTransition("sync")
		s.events.OrderReceived(ctx, order.OrderNumber, strings.TrimSpace(paymentID))
		s.logger.Info("order received",
			"order_number", order.OrderNumber,
			"payment_id", paymentID,
			"trigger", "sync")
	}
	return updated, nil
}
