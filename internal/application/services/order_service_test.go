package services

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testAddress() domain.Address {
	return domain.Address{
		Cep:    "01310-100",
		Street: "Av. Paulista",
		Number: "1000",
		City:   "São Paulo",
		State:  "SP",
	}
}

func TestCreateOrder_TotalFromCatalogPrices(t *testing.T) {
	ctx := context.Background()
	orders := NewMockOrderRepository()
	products := NewMockProductRepository()

	promo := int64(12990)
	shirt := &domain.Product{
		ID:              uuid.New(),
		Name:            "Camisa Flamengo I 24/25",
		Team:            "Flamengo",
		League:          "Brasileirão",
		Category:        "clubes",
		PriceCents:      19990,
		PromoPriceCents: &promo,
		Images:          []string{"https://img.example/flamengo.jpg"},
		Active:          true,
	}
	require.NoError(t, products.Create(ctx, shirt))

	svc := NewOrderService(orders, products, testLogger())

	order, err := svc.Create(ctx, CreateOrderInput{
		CustomerName: "João Silva",
		Email:        "joao@example.com",
		CPF:          "123.456.789-09",
		Address:      testAddress(),
		Items: []OrderItemInput{
			// client asserts the wrong price, catalog must win
			{ProductID: shirt.ID.String(), Size: "M", Quantity: 2, UnitPriceCents: 100},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendingPayment, order.Status)
	assert.Equal(t, int64(2*12990), order.TotalCents)
	assert.Equal(t, "Camisa Flamengo I 24/25", order.Items[0].Name)
	assert.Equal(t, "https://img.example/flamengo.jpg", order.Items[0].Image)
	assert.Equal(t, int64(12990), order.Items[0].UnitPriceCents)
}

func TestCreateOrder_ClientPriceFallbackWhenProductUnknown(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(NewMockOrderRepository(), NewMockProductRepository(), testLogger())

	order, err := svc.Create(ctx, CreateOrderInput{
		CustomerName: "Maria",
		Email:        "maria@example.com",
		Address:      testAddress(),
		Items: []OrderItemInput{
			{ProductID: uuid.New().String(), Size: "G", Quantity: 1, UnitPriceCents: 14990},
			{ProductID: "legacy-sku-42", Size: "P", Quantity: 3, UnitPriceCents: 9990},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(14990+3*9990), order.TotalCents)
}

func TestCreateOrder_RejectsInvalidItems(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(NewMockOrderRepository(), NewMockProductRepository(), testLogger())

	testcases := []struct {
		name  string
		input CreateOrderInput
	}{
		{
			name: "no items",
			input: CreateOrderInput{
				CustomerName: "Ana", Email: "ana@example.com", Address: testAddress(),
			},
		},
		{
			name: "zero quantity",
			input: CreateOrderInput{
				CustomerName: "Ana", Email: "ana@example.com", Address: testAddress(),
				Items: []OrderItemInput{{ProductID: "x", Size: "M", Quantity: 0, UnitPriceCents: 1000}},
			},
		},
		{
			name: "unresolvable product with no price",
			input: CreateOrderInput{
				CustomerName: "Ana", Email: "ana@example.com", Address: testAddress(),
				Items: []OrderItemInput{{ProductID: "x", Size: "M", Quantity: 1}},
			},
		},
		{
			name: "blank email",
			input: CreateOrderInput{
				CustomerName: "Ana", Address: testAddress(),
				Items: []OrderItemInput{{ProductID: "x", Size: "M", Quantity: 1, UnitPriceCents: 1000}},
			},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			require.Error(t, err)
			assert.True(t, application.IsCode(err, application.ErrCodeInvalidArgument))
		})
	}
}

func TestCreateOrder_NumberFormatAndIncrement(t *testing.T) {
	ctx := context.Background()
	orders := NewMockOrderRepository()
	svc := NewOrderService(orders, NewMockProductRepository(), testLogger())

	input := CreateOrderInput{
		CustomerName: "João",
		Email:        "joao@example.com",
		Address:      testAddress(),
		Items:        []OrderItemInput{{ProductID: "sku", Size: "M", Quantity: 1, UnitPriceCents: 1000}},
	}

	year := time.Now().Year()
	first, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ART-%d-0001", year), first.OrderNumber)

	second, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ART-%d-0002", year), second.OrderNumber)

	assert.Regexp(t, `^ART-\d{4}-\d{4}$`, first.OrderNumber)
}

func TestCreateOrder_RetriesOnceOnNumberCollision(t *testing.T) {
	ctx := context.Background()
	orders := NewMockOrderRepository()

	// Simulate a racing writer: the count lags by one on the first
	// read, producing a number that is already taken.
	taken := &domain.Order{
		ID:          uuid.New(),
		OrderNumber: fmt.Sprintf("ART-%d-0001", time.Now().Year()),
		Email:       "other@example.com",
		Status:      domain.StatusPendingPayment,
	}
	require.NoError(t, orders.Create(ctx, taken))

	var counts int64
	orders.CountCreatedBetweenFn = func(ctx context.Context, from, to time.Time) (int64, error) {
		counts++
		if counts == 1 {
			return 0, nil // stale count, collides with 0001
		}
		return 1, nil
	}

	svc := NewOrderService(orders, NewMockProductRepository(), testLogger())
	order, err := svc.Create(ctx, CreateOrderInput{
		CustomerName: "João",
		Email:        "joao@example.com",
		Address:      testAddress(),
		Items:        []OrderItemInput{{ProductID: "sku", Size: "M", Quantity: 1, UnitPriceCents: 1000}},
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ART-%d-0002", time.Now().Year()), order.OrderNumber)
	assert.EqualValues(t, 2, counts)
}

func TestCreateOrder_CollisionOnRetrySurfacesConflict(t *testing.T) {
	ctx := context.Background()
	orders := NewMockOrderRepository()
	orders.CountCreatedBetweenFn = func(ctx context.Context, from, to time.Time) (int64, error) {
		return 0, nil
	}
	require.NoError(t, orders.Create(ctx, &domain.Order{
		ID:          uuid.New(),
		OrderNumber: fmt.Sprintf("ART-%d-0001", time.Now().Year()),
		Status:      domain.StatusPendingPayment,
	}))

	svc := NewOrderService(orders, NewMockProductRepository(), testLogger())
	_, err := svc.Create(ctx, CreateOrderInput{
		CustomerName: "João",
		Email:        "joao@example.com",
		Address:      testAddress(),
		Items:        []OrderItemInput{{ProductID: "sku", Size: "M", Quantity: 1, UnitPriceCents: 1000}},
	})
	require.Error(t, err)
	assert.True(t, application.IsCode(err, application.ErrCodeDuplicateOrderNumber))
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	orders := NewMockOrderRepository()
	svc := NewOrderService(orders, NewMockProductRepository(), testLogger())

	stored := &domain.Order{
		ID:          uuid.New(),
		OrderNumber: "ART-2026-0007",
		Email:       "joao@example.com",
		Status:      domain.StatusPendingPayment,
	}
	require.NoError(t, orders.Create(ctx, stored))

	found, err := svc.Lookup(ctx, "joao@example.com", "ART-2026-0007")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, found.ID)

	_, err = svc.Lookup(ctx, "wrong@example.com", "ART-2026-0007")
	require.Error(t, err)
	assert.True(t, application.IsCode(err, application.ErrCodeNotFound))
}

func TestUpdateOrder_UnknownStatusKeepsStored(t *testing.T) {
	ctx := context.Background()
	orders := NewMockOrderRepository()
	svc := NewOrderService(orders, NewMockProductRepository(), testLogger())

	stored := &domain.Order{
		ID:          uuid.New(),
		OrderNumber: "ART-2026-0001",
		Status:      domain.StatusReceived,
	}
	require.NoError(t, orders.Create(ctx, stored))

	updated, err := svc.Update(ctx, stored.ID, UpdateOrderInput{Status: "TELEPORTED"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, updated.Status)
}

func TestUpdateOrder_ShipmentFields(t *testing.T) {
	ctx := context.Background()
	orders := NewMockOrderRepository()
	svc := NewOrderService(orders, NewMockProductRepository(), testLogger())

	stored := &domain.Order{
		ID:          uuid.New(),
		OrderNumber: "ART-2026-0001",
		Status:      domain.StatusReceived,
	}
	require.NoError(t, orders.Create(ctx, stored))

	carrier := "Correios"
	code := "BR123456789BR"
	blank := "   "
	updated, err := svc.Update(ctx, stored.ID, UpdateOrderInput{
		Status:       "shipped",
		Carrier:      &carrier,
		TrackingCode: &code,
		TrackingURL:  &blank,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusShipped, updated.Status)
	require.NotNil(t, updated.Carrier)
	assert.Equal(t, "Correios", *updated.Carrier)
	require.NotNil(t, updated.TrackingCode)
	assert.Equal(t, "BR123456789BR", *updated.TrackingCode)
	assert.Nil(t, updated.TrackingURL)
	assert.NotNil(t, updated.ShippedAt)
}
