package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/artilheiro/store-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateOrderNumber surfaces when two creations race to the
	// same derived order number; the unique constraint is the arbiter.
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
)

const orderColumns = `id, order_number, customer_name, email, cpf, address, items,
		       total_cents, status, payment_id, created_at,
		       shipped_at, carrier, tracking_code, tracking_url`

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
		    id, order_number, customer_name, email, cpf, address, items,
		    total_cents, status, payment_id, created_at,
		    shipped_at, carrier, tracking_code, tracking_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	m, err := toOrderModel(order)
	if err != nil {
		return err
	}

	_, err = r.db.Pool.Exec(ctx, query,
		m.ID,
		m.OrderNumber,
		m.CustomerName,
		m.Email,
		m.CPF,
		m.Address,
		m.Items,
		m.TotalCents,
		m.Status,
		m.PaymentID,
		m.CreatedAt,
		m.ShippedAt,
		m.Carrier,
		m.TrackingCode,
		m.TrackingURL,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateOrderNumber, order.OrderNumber)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	row := r.db.Pool.QueryRow(ctx, query, id)
	return scanOrder(row)
}

func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	row := r.db.Pool.QueryRow(ctx, query, orderNumber)
	return scanOrder(row)
}

func (r *OrderRepository) FindByOrderNumberAndEmail(ctx context.Context, orderNumber, email string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1 AND lower(email) = lower($2)`

	row := r.db.Pool.QueryRow(ctx, query, orderNumber, email)
	return scanOrder(row)
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Order, error) {
		var m OrderModel
		if err := scanOrderColumns(row, &m); err != nil {
			return nil, err
		}
		return toDomainOrder(m)
	})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}

	return results, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $1, payment_id = $2,
		    shipped_at = $3, carrier = $4, tracking_code = $5, tracking_url = $6
		WHERE id = $7
	`

	m, err := toOrderModel(order)
	if err != nil {
		return err
	}

	result, err := r.db.Pool.Exec(ctx, query,
		m.Status,
		m.PaymentID,
		m.ShippedAt,
		m.Carrier,
		m.TrackingCode,
		m.TrackingURL,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// MarkReceived is the conditional write behind every paid transition.
// The WHERE clause keeps the check and the update in one statement, so
// two concurrent reconciliation attempts cannot both win: the second
// one matches zero rows and reports updated=false.
func (r *OrderRepository) MarkReceived(ctx context.Context, orderNumber, paymentID string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, payment_id = $2
		WHERE order_number = $3 AND status = $4
	`

	result, err := r.db.Pool.Exec(ctx, query,
		string(domain.StatusReceived),
		paymentID,
		orderNumber,
		string(domain.StatusPendingPayment),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark order received: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *OrderRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM orders WHERE created_at >= $1 AND created_at < $2`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders in window: %w", err)
	}
	return count, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var m OrderModel
	err := scanOrderColumns(row, &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return toDomainOrder(m)
}

func scanOrderColumns(row pgx.Row, m *OrderModel) error {
	return row.Scan(
		&m.ID, &m.OrderNumber, &m.CustomerName, &m.Email, &m.CPF, &m.Address, &m.Items,
		&m.TotalCents, &m.Status, &m.PaymentID, &m.CreatedAt,
		&m.ShippedAt, &m.Carrier, &m.TrackingCode, &m.TrackingURL,
	)
}
