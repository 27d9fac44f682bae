package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/domain"
	"github.com/artilheiro/store-backend/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
)

type OrderService struct {
	orders   application.OrderRepository
	products application.ProductRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrderService(
	orders application.OrderRepository,
	products application.ProductRepository,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateOrderInput struct {
	CustomerName string
	Email        string
	CPF          string
	Address      domain.Address
	Items        []OrderItemInput
}

// OrderItemInput is a caller-supplied line. UnitPriceCents is used only
// when the product reference cannot be resolved in the catalog.
type OrderItemInput struct {
	ProductID      string
	Size           string
	Quantity       int
	UnitPriceCents int64
}

type UpdateOrderInput struct {
	Status       string
	Carrier      *string
	TrackingCode *string
	TrackingURL  *string
}

// Create builds the order with catalog-resolved price snapshots,
// computes the total server-side, assigns the next order number and
// persists it as PENDING_PAYMENT. An order-number collision is retried
// once before surfacing as a retryable conflict.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, application.NewInvalidArgumentError("customer name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, application.NewInvalidArgumentError("customer email is required")
	}
	if len(input.Items) == 0 {
		return nil, application.NewInvalidArgumentError("order must have at least one item")
	}

	items := make([]domain.LineItem, 0, len(input.Items))
	for _, in := range input.Items {
		item, err := s.buildLineItem(ctx, in)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	order := &domain.Order{
		ID:           uuid.New(),
		CustomerName: strings.TrimSpace(input.CustomerName),
		Email:        strings.TrimSpace(input.Email),
		CPF:          strings.TrimSpace(input.CPF),
		Address:      input.Address,
		Items:        items,
		TotalCents:   domain.Total(items),
		Status:       domain.StatusPendingPayment,
		CreatedAt:    s.now().UTC(),
	}

	for attempt := 0; attempt < 2; attempt++ {
		number, err := nextOrderNumber(ctx, s.orders, s.now())
		if err != nil {
			return nil, application.NewInternalError(err)
		}
		order.OrderNumber = number

		err = s.orders.Create(ctx, order)
		if err == nil {
			s.logger.Info("order created",
				"order_number", order.OrderNumber,
				"total_cents", order.TotalCents,
				"items", len(order.Items))
			return order, nil
		}
		if !errors.Is(err, postgres.ErrDuplicateOrderNumber) {
			return nil, application.NewInternalError(err)
		}
		if attempt == 1 {
			return nil, application.NewDuplicateOrderNumberError(err)
		}
		s.logger.Warn("order number collision, regenerating", "order_number", number)
	}

	// unreachable, the loop always returns
	return nil, application.NewInternalError(errors.New("order creation did not converge"))
}

// buildLineItem resolves the catalog snapshot for one line. A product
// that cannot be found keeps the client-asserted price; a resolvable
// product always wins.
func (s *OrderService) buildLineItem(ctx context.Context, in OrderItemInput) (domain.LineItem, error) {
	if in.Quantity < 1 {
		return domain.LineItem{}, application.NewInvalidArgumentError("item quantity must be at least 1")
	}

	item := domain.LineItem{
		ProductID:      in.ProductID,
		Size:           in.Size,
		Quantity:       in.Quantity,
		UnitPriceCents: in.UnitPriceCents,
	}

	if id, err := uuid.Parse(in.ProductID); err == nil {
		product, err := s.products.FindByID(ctx, id)
		if err == nil {
			item.Name = product.Name
			item.Team = product.Team
			item.League = product.League
			item.Category = product.Category
			item.Images = product.Images
			if len(product.Images) > 0 {
				item.Image = product.Images[0]
			}
			item.UnitPriceCents = product.EffectivePriceCents()
		} else if !errors.Is(err, postgres.ErrProductNotFound) {
			s.logger.Warn("catalog lookup failed, keeping client price",
				"product_id", in.ProductID,
				"error", err)
		}
	}

	if item.UnitPriceCents <= 0 {
		return domain.LineItem{}, application.NewInvalidArgumentError("item unit price must be positive")
	}
	return item, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	return orders, nil
}

// Lookup finds an order by its number and the customer email used at
// creation, for unauthenticated order tracking.
func (s *OrderService) Lookup(ctx context.Context, email, orderNumber string) (*domain.Order, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(orderNumber) == "" {
		return nil, application.NewInvalidArgumentError("email and order number are required")
	}

	order, err := s.orders.FindByOrderNumberAndEmail(ctx, strings.TrimSpace(orderNumber), strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			return nil, application.NewNotFoundError("order")
		}
		return nil, application.NewInternalError(err)
	}
	return order, nil
}

// Update applies an admin update. Unrecognized status strings keep the
// stored status instead of failing the request.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			return nil, application.NewNotFoundError("order")
		}
		return nil, application.NewInternalError(err)
	}

	if status, ok := domain.ParseStatus(input.Status); ok {
		order.Status = status
	}

	if v := trimmed(input.Carrier); v != nil {
		order.Carrier = v
	}
	if v := trimmed(input.TrackingCode); v != nil {
		order.TrackingCode = v
	}
	if v := trimmed(input.TrackingURL); v != nil {
		order.TrackingURL = v
	}
	if order.Status == domain.StatusShipped && order.ShippedAt == nil {
		shippedAt := s.now().UTC()
		order.ShippedAt = &shippedAt
	}

	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			return nil, application.NewNotFoundError("order")
		}
		return nil, application.NewInternalError(err)
	}
	return order, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
