// Package domain defines the domain models for the store backend.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the current state of an order in its lifecycle
type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	StatusReceived       OrderStatus = "RECEIVED"
	StatusShipped        OrderStatus = "SHIPPED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// ParseStatus maps a status string to an OrderStatus. Unknown values
// return ok=false so callers can keep the stored status instead of
// corrupting the record (admin updates are deliberately lenient).
func ParseStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPendingPayment:
		return StatusPendingPayment, true
	case StatusReceived:
		return StatusReceived, true
	case StatusShipped:
		return StatusShipped, true
	case StatusCancelled:
		return StatusCancelled, true
	default:
		return "", false
	}
}

// Address is the shipping address captured at order creation.
type Address struct {
	Cep        string `json:"cep"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	City       string `json:"city"`
	State      string `json:"state"`
}

// LineItem is a point-in-time snapshot of a priced order line. Prices
// are copied from the catalog at creation and never re-read.
type LineItem struct {
	ProductID      string   `json:"productId"`
	Name           string   `json:"name,omitempty"`
	Image          string   `json:"image,omitempty"`
	Images         []string `json:"images,omitempty"`
	Team           string   `json:"team,omitempty"`
	League         string   `json:"league,omitempty"`
	Category       string   `json:"category,omitempty"`
	Size           string   `json:"size"`
	Quantity       int      `json:"quantity"`
	UnitPriceCents int64    `json:"unitPriceCents"`
}

// Order is the central entity. The order number is the externally
// visible identifier (ART-YYYY-NNNN) and is assigned exactly once.
type Order struct {
	ID           uuid.UUID
	OrderNumber  string
	CustomerName string
	Email        string
	CPF          string
	Address      Address
	Items        []LineItem
	TotalCents   int64
	Status       OrderStatus
	PaymentID    *string
	CreatedAt    time.Time

	ShippedAt    *time.Time
	Carrier      *string
	TrackingCode *string
	TrackingURL  *string
}

// Total recomputes the order total from its line items.
func Total(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		if it.Quantity > 0 && it.UnitPriceCents > 0 {
			total += it.UnitPriceCents * int64(it.Quantity)
		}
	}
	return total
}

// IsPayable reports whether a payment may still be created for the order.
func (o *Order) IsPayable() bool {
	return o.Status == StatusPendingPayment
}

// MarkReceived transitions the order to RECEIVED and records the
// provider payment id. The transition is only valid from
// PENDING_PAYMENT; once RECEIVED all reconciliation paths are no-ops.
func (o *Order) MarkReceived(paymentID string) error {
	if o.Status != StatusPendingPayment {
		return NewInvalidTransitionError(o.Status, StatusReceived)
	}
	o.Status = StatusReceived
	o.PaymentID = &paymentID
	return nil
}
