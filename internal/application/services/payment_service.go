// Package services orchestrates the order lifecycle: creation, payment
// initiation and the reconciliation of provider payment status into the
// order state machine.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/domain"
	"github.com/artilheiro/store-backend/internal/infrastructure/mercadopago"
	"github.com/artilheiro/store-backend/internal/infrastructure/persistence/postgres"
)

// Recorder receives reconciliation counters. The webhook path swallows
// failures on purpose, so the recorder is where they stay observable.
type Recorder interface {
	WebhookEvent(outcome string)
	OrderTransition(trigger string)
	GatewayRequest(op, outcome string)
}

const (
	methodPix    = "pix"
	methodBoleto = "bolbradesco"
)

type PaymentService struct {
	orders  application.OrderRepository
	gateway application.PaymentGateway
	events  application.EventPublisher
	metrics Recorder
	logger  *slog.Logger
}

func NewPaymentService(
	orders application.OrderRepository,
	gateway application.PaymentGateway,
	events application.EventPublisher,
	metrics Recorder,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		orders:  orders,
		gateway: gateway,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

// PaymentRequest selects the instrument by PaymentMethodID: "pix",
// "bolbradesco", anything else is treated as a card method id. Card
// numbers never reach this system; Token is the single-use token from
// client-side tokenization.
type PaymentRequest struct {
	PaymentMethodID string
	Token           string
	Installments    int
	IssuerID        string
	PayerEmail      string
	IdentType       string
	IdentNumber     string
	Address         *application.PayerAddress
}

// PaymentResult is the caller-facing view of a payment attempt. Fields
// not applicable to the instrument are empty.
type PaymentResult struct {
	PaymentID    int64  `json:"paymentId"`
	Status       string `json:"status"`
	StatusDetail string `json:"statusDetail,omitempty"`
	OrderNumber  string `json:"orderNumber"`
	QRCode       string `json:"qrCode,omitempty"`
	QRCodeBase64 string `json:"qrCodeBase64,omitempty"`
	TicketURL    string `json:"ticketUrl,omitempty"`
}

// CreatePaymentForOrder initiates a payment for a pending order. When
// the provider approves synchronously the order transitions to RECEIVED
// in the same call; otherwise the webhook or sync paths finish the job
// later.
func (s *PaymentService) CreatePaymentForOrder(ctx context.Context, orderNumber string, req PaymentRequest) (*PaymentResult, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			return nil, application.NewNotFoundError("order")
		}
		return nil, application.NewInternalError(err)
	}
	if !order.IsPayable() {
		return nil, application.NewInvalidStateError(
			fmt.Sprintf("order %s is %s, a payment can only be created while it is pending", order.OrderNumber, order.Status))
	}

	payment, err := s.dispatch(ctx, order, req)
	if err != nil {
		s.metrics.GatewayRequest("create_payment", "error")
		return nil, asGatewayError(err)
	}
	s.metrics.GatewayRequest("create_payment", "ok")

	s.logger.Info("payment created",
		"order_number", order.OrderNumber,
		"payment_id", payment.ID,
		"method", req.PaymentMethodID,
		"status", payment.Status)

	if payment.Approved() {
		s.transition(ctx, order.OrderNumber, payment.ID, "create")
	}

	// Known provider quirk: the creation response sometimes omits the
	// QR/boleto artifact. Re-fetch once, best effort; the payment
	// already exists so this must never fail the operation.
	if needsArtifact(req.PaymentMethodID) && !payment.HasArtifact() {
		if fetched, err := s.gateway.GetPayment(ctx, payment.ID); err == nil {
			mergeArtifacts(payment, fetched)
		} else {
			s.logger.Warn("artifact re-fetch failed",
				"payment_id", payment.ID,
				"error", err)
		}
	}

	return &PaymentResult{
		PaymentID:    payment.ID,
		Status:       payment.Status,
		StatusDetail: payment.StatusDetail,
		OrderNumber:  order.OrderNumber,
		QRCode:       payment.QRCode,
		QRCodeBase64: payment.QRCodeBase64,
		TicketURL:    payment.TicketURL,
	}, nil
}

func (s *PaymentService) dispatch(ctx context.Context, order *domain.Order, req PaymentRequest) (*application.GatewayPayment, error) {
	payer := s.payerFor(order, req)
	description := "Pedido " + order.OrderNumber

	switch req.PaymentMethodID {
	case methodPix:
		return s.gateway.CreatePixPayment(ctx, application.PixPaymentRequest{
			AmountCents:       order.TotalCents,
			Description:       description,
			ExternalReference: order.OrderNumber,
			Payer:             payer,
		})

	case methodBoleto:
		if req.Address == nil || strings.TrimSpace(req.Address.ZipCode) == "" {
			return nil, application.NewInvalidArgumentError("boleto payments require the payer address")
		}
		return s.gateway.CreateBoletoPayment(ctx, application.BoletoPaymentRequest{
			AmountCents:       order.TotalCents,
			Description:       description,
			ExternalReference: order.OrderNumber,
			Payer:             payer,
			Address:           *req.Address,
		})

	default:
		if strings.TrimSpace(req.Token) == "" {
			return nil, application.NewInvalidArgumentError("card payments require a card token")
		}
		installments := req.Installments
		if installments < 1 {
			installments = 1
		}
		return s.gateway.CreateCardPayment(ctx, application.CardPaymentRequest{
			AmountCents:       order.TotalCents,
			Token:             req.Token,
			PaymentMethodID:   req.PaymentMethodID,
			Installments:      installments,
			Description:       description,
			ExternalReference: order.OrderNumber,
			Payer:             payer,
			IssuerID:          req.IssuerID,
		})
	}
}

func (s *PaymentService) payerFor(order *domain.Order, req PaymentRequest) application.Payer {
	email := strings.TrimSpace(req.PayerEmail)
	if email == "" {
		email = order.Email
	}
	identNumber := strings.TrimSpace(req.IdentNumber)
	if identNumber == "" {
		identNumber = order.CPF
	}
	return application.Payer{
		Email:       email,
		Name:        order.CustomerName,
		IdentType:   req.IdentType,
		IdentNumber: identNumber,
	}
}

// transition applies the at-most-once CAS update. A lost race is fine:
// some other reconciliation path already did the work.
func (s *PaymentService) transition(ctx context.Context, orderNumber string, paymentID int64, trigger string) {
	id := strconv.FormatInt(paymentID, 10)
	updated, err := s.orders.MarkReceived(ctx, orderNumber, id)
	if err != nil {
		s.logger.Error("failed to mark order received",
			"order_number", orderNumber,
			"payment_id", id,
			"error", err)
		return
	}
	if updated {
		s.metrics.OrderTransition(trigger)
		s.events.OrderReceived(ctx, orderNumber, id)
		s.logger.Info("order received",
			"order_number", orderNumber,
			"payment_id", id,
			"trigger", trigger)
	}
}

// asGatewayError keeps taxonomy errors intact and wraps raw provider
// failures, surfacing the provider's own detail text when present.
func asGatewayError(err error) error {
	if svcErr, ok := application.IsServiceError(err); ok {
		return svcErr
	}
	if apiErr, ok := mercadopago.IsAPIError(err); ok {
		detail := apiErr.Detail
		if detail == "" {
			detail = apiErr.Message
		}
		return application.NewGatewayError(detail, err)
	}
	return application.NewGatewayError("payment provider call failed", err)
}

func needsArtifact(paymentMethodID string) bool {
	return paymentMethodID == methodPix || paymentMethodID == methodBoleto
}

func mergeArtifacts(dst, src *application.GatewayPayment) {
	if src == nil {
		return
	}
	if dst.QRCode == "" {
		dst.QRCode = src.QRCode
	}
	if dst.QRCodeBase64 == "" {
		dst.QRCodeBase64 = src.QRCodeBase64
	}
	if dst.TicketURL == "" {
		dst.TicketURL = src.TicketURL
	}
}
