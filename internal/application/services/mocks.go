package services

import (
	"context"
	"sync"
	"time"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/domain"
	"github.com/artilheiro/store-backend/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
)

// MockOrderRepository
type MockOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.Order

	CreateFn              func(ctx context.Context, order *domain.Order) error
	FindByOrderNumberFn   func(ctx context.Context, orderNumber string) (*domain.Order, error)
	MarkReceivedFn        func(ctx context.Context, orderNumber, paymentID string) (bool, error)
	CountCreatedBetweenFn func(ctx context.Context, from, to time.Time) (int64, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[string]*domain.Order)}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, order)
	}
	if _, ok := m.orders[order.OrderNumber]; ok {
		return postgres.ErrDuplicateOrderNumber
	}
	copied := *order
	m.orders[order.OrderNumber] = &copied
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			copied := *o
			return &copied, nil
		}
	}
	return nil, postgres.ErrOrderNotFound
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindByOrderNumberFn != nil {
		return m.FindByOrderNumberFn(ctx, orderNumber)
	}
	if o, ok := m.orders[orderNumber]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, postgres.ErrOrderNotFound
}

func (m *MockOrderRepository) FindByOrderNumberAndEmail(ctx context.Context, orderNumber, email string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[orderNumber]; ok && o.Email == email {
		copied := *o
		return &copied, nil
	}
	return nil, postgres.ErrOrderNotFound
}

func (m *MockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		copied := *o
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.OrderNumber]; !ok {
		return postgres.ErrOrderNotFound
	}
	copied := *order
	m.orders[order.OrderNumber] = &copied
	return nil
}

// MarkReceived mirrors the conditional UPDATE: the transition happens
// only while the stored order is still PENDING_PAYMENT, atomically
// under the mutex, so concurrent callers observe exactly one true.
func (m *MockOrderRepository) MarkReceived(ctx context.Context, orderNumber, paymentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkReceivedFn != nil {
		return m.MarkReceivedFn(ctx, orderNumber, paymentID)
	}
	o, ok := m.orders[orderNumber]
	if !ok || o.Status != domain.StatusPendingPayment {
		return false, nil
	}
	o.Status = domain.StatusReceived
	o.PaymentID = &paymentID
	return true, nil
}

func (m *MockOrderRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountCreatedBetweenFn != nil {
		return m.CountCreatedBetweenFn(ctx, from, to)
	}
	var count int64
	for _, o := range m.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

// Get returns the stored order, for assertions.
func (m *MockOrderRepository) Get(orderNumber string) *domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[orderNumber]
}

// MockProductRepository
type MockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product

	FindByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
	return nil
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, postgres.ErrProductNotFound
}

func (m *MockProductRepository) List(ctx context.Context, filter application.ProductFilter) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return postgres.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return postgres.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

// MockPaymentGateway
type MockPaymentGateway struct {
	mu sync.Mutex

	CreateCardPaymentFn   func(ctx context.Context, req application.CardPaymentRequest) (*application.GatewayPayment, error)
	CreatePixPaymentFn    func(ctx context.Context, req application.PixPaymentRequest) (*application.GatewayPayment, error)
	CreateBoletoPaymentFn func(ctx context.Context, req application.BoletoPaymentRequest) (*application.GatewayPayment, error)
	GetPaymentFn          func(ctx context.Context, paymentID int64) (*application.GatewayPayment, error)

	CreateCalls int
	GetCalls    int
}

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

func (m *MockPaymentGateway) CreateCardPayment(ctx context.Context, req application.CardPaymentRequest) (*application.GatewayPayment, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateCardPaymentFn != nil {
		return m.CreateCardPaymentFn(ctx, req)
	}
	return &application.GatewayPayment{ID: 1, Status: "approved", ExternalReference: req.ExternalReference}, nil
}

func (m *MockPaymentGateway) CreatePixPayment(ctx context.Context, req application.PixPaymentRequest) (*application.GatewayPayment, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreatePixPaymentFn != nil {
		return m.CreatePixPaymentFn(ctx, req)
	}
	return &application.GatewayPayment{ID: 1, Status: "pending", ExternalReference: req.ExternalReference, QRCode: "qr-data"}, nil
}

func (m *MockPaymentGateway) CreateBoletoPayment(ctx context.Context, req application.BoletoPaymentRequest) (*application.GatewayPayment, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateBoletoPaymentFn != nil {
		return m.CreateBoletoPaymentFn(ctx, req)
	}
	return &application.GatewayPayment{ID: 1, Status: "pending", ExternalReference: req.ExternalReference, TicketURL: "https://boleto.example/1"}, nil
}

func (m *MockPaymentGateway) GetPayment(ctx context.Context, paymentID int64) (*application.GatewayPayment, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetPaymentFn != nil {
		return m.GetPaymentFn(ctx, paymentID)
	}
	return &application.GatewayPayment{ID: paymentID, Status: "pending"}, nil
}

// MockEventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []string
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) OrderReceived(ctx context.Context, orderNumber, paymentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, orderNumber+":"+paymentID)
}

// MockRecorder
type MockRecorder struct {
	mu       sync.Mutex
	Webhooks map[string]int
	Triggers map[string]int
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{
		Webhooks: make(map[string]int),
		Triggers: make(map[string]int),
	}
}

func (m *MockRecorder) WebhookEvent(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Webhooks[outcome]++
}

func (m *MockRecorder) OrderTransition(trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Triggers[trigger]++
}

func (m *MockRecorder) GatewayRequest(op, outcome string) {}
