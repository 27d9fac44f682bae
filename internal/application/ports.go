package application

import (
	"context"
	"time"

	"github.com/artilheiro/store-backend/internal/domain"
	"github.com/google/uuid"
)

// OrderRepository is the port for order persistence. The order record
// is the only shared mutable resource; MarkReceived is the single
// compare-and-set entry point for the paid transition.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindByOrderNumberAndEmail(ctx context.Context, orderNumber, email string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error

	// MarkReceived atomically transitions the order to RECEIVED and
	// stores the provider payment id, but only while the order is still
	// PENDING_PAYMENT. Returns false when no row was updated, which
	// makes concurrent reconciliation attempts converge to exactly one
	// transition.
	MarkReceived(ctx context.Context, orderNumber, paymentID string) (bool, error)

	// CountCreatedBetween counts orders created inside the given window,
	// used to derive the next year-scoped order number.
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// ProductRepository is the port for catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductFilter narrows catalog listings. Zero values mean no filter.
type ProductFilter struct {
	Category        string
	Team            string
	League          string
	Search          string
	IncludeInactive bool
}

// PaymentGateway is the port for the external payment provider. Each
// call is synchronous and either returns the provider's view of the
// payment or fails; retries are the caller's concern, not the client's.
type PaymentGateway interface {
	CreateCardPayment(ctx context.Context, req CardPaymentRequest) (*GatewayPayment, error)
	CreatePixPayment(ctx context.Context, req PixPaymentRequest) (*GatewayPayment, error)
	CreateBoletoPayment(ctx context.Context, req BoletoPaymentRequest) (*GatewayPayment, error)
	GetPayment(ctx context.Context, paymentID int64) (*GatewayPayment, error)
}

// Payer identifies the paying customer to the provider.
type Payer struct {
	Email       string
	Name        string
	IdentType   string
	IdentNumber string
}

// PayerAddress is required for boleto payments.
type PayerAddress struct {
	StreetName   string
	StreetNumber string
	ZipCode      string
	City         string
	FederalUnit  string
}

type CardPaymentRequest struct {
	AmountCents       int64
	Token             string
	PaymentMethodID   string
	Installments      int
	Description       string
	ExternalReference string
	Payer             Payer
	IssuerID          string
}

type PixPaymentRequest struct {
	AmountCents       int64
	Description       string
	ExternalReference string
	Payer             Payer
}

type BoletoPaymentRequest struct {
	AmountCents       int64
	Description       string
	ExternalReference string
	Payer             Payer
	Address           PayerAddress
}

// GatewayPayment is the provider's normalized view of a payment
// attempt. Artifacts not applicable to the instrument are empty.
type GatewayPayment struct {
	ID                int64
	Status            string
	StatusDetail      string
	ExternalReference string
	QRCode            string
	QRCodeBase64      string
	TicketURL         string
}

// Approved reports whether the provider settled the payment.
func (p *GatewayPayment) Approved() bool {
	return p != nil && p.Status == "approved"
}

// HasArtifact reports whether any proof-of-payment artifact is present.
func (p *GatewayPayment) HasArtifact() bool {
	return p != nil && (p.QRCode != "" || p.QRCodeBase64 != "" || p.TicketURL != "")
}

// EventPublisher is the port for best-effort order event emission.
// Implementations must never block a reconciliation path on failure.
type EventPublisher interface {
	OrderReceived(ctx context.Context, orderNumber, paymentID string)
}
