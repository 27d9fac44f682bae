package postgres

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the orders table. Address and Items are stored as
// jsonb and scanned as raw bytes.
type OrderModel struct {
	ID           uuid.UUID
	OrderNumber  string
	CustomerName string
	Email        string
	CPF          string
	Address      []byte
	Items        []byte
	TotalCents   int64
	Status       string
	PaymentID    *string
	CreatedAt    time.Time
	ShippedAt    *time.Time
	Carrier      *string
	TrackingCode *string
	TrackingURL  *string
}

// ProductModel mirrors the product table. Images and Sizes are jsonb.
type ProductModel struct {
	ID              uuid.UUID
	Name            string
	Team            string
	League          string
	Category        string
	PriceCents      int64
	PromoPriceCents *int64
	Images          []byte
	Sizes           []byte
	Active          bool
	CreatedAt       time.Time
}
