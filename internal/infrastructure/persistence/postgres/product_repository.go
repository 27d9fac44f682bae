package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/artilheiro/store-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProductNotFound = errors.New("product not found")

const productColumns = `id, name, team, league, category, price_cents, promo_price_cents,
		       images, sizes, active, created_at`

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO product (
		    id, name, team, league, category, price_cents, promo_price_cents,
		    images, sizes, active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	m, err := toProductModel(product)
	if err != nil {
		return err
	}

	_, err = r.db.Pool.Exec(ctx, query,
		m.ID, m.Name, m.Team, m.League, m.Category, m.PriceCents, m.PromoPriceCents,
		m.Images, m.Sizes, m.Active, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM product WHERE id = $1`

	row := r.db.Pool.QueryRow(ctx, query, id)

	var m ProductModel
	err := scanProductColumns(row, &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return toDomainProduct(m)
}

// List applies the optional catalog filters. Search matches name, team,
// league and category case-insensitively.
func (r *ProductRepository) List(ctx context.Context, filter application.ProductFilter) ([]*domain.Product, error) {
	var (
		conditions []string
		args       []any
	)

	if !filter.IncludeInactive {
		conditions = append(conditions, "active = true")
	}

	addEquals := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, strings.ToLower(value))
		conditions = append(conditions, "lower("+column+") = $"+strconv.Itoa(len(args)))
	}
	addEquals("category", filter.Category)
	addEquals("team", filter.Team)
	addEquals("league", filter.League)

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := strconv.Itoa(len(args))
		conditions = append(conditions,
			"(lower(name) LIKE $"+n+" OR lower(team) LIKE $"+n+" OR lower(league) LIKE $"+n+" OR lower(category) LIKE $"+n+")")
	}

	query := `SELECT ` + productColumns + ` FROM product`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Product, error) {
		var m ProductModel
		if err := scanProductColumns(row, &m); err != nil {
			return nil, err
		}
		return toDomainProduct(m)
	})
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}

	return results, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE product
		SET name = $1, team = $2, league = $3, category = $4,
		    price_cents = $5, promo_price_cents = $6, images = $7, sizes = $8, active = $9
		WHERE id = $10
	`

	m, err := toProductModel(product)
	if err != nil {
		return err
	}

	result, err := r.db.Pool.Exec(ctx, query,
		m.Name, m.Team, m.League, m.Category,
		m.PriceCents, m.PromoPriceCents, m.Images, m.Sizes, m.Active,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func scanProductColumns(row pgx.Row, m *ProductModel) error {
	return row.Scan(
		&m.ID, &m.Name, &m.Team, &m.League, &m.Category, &m.PriceCents, &m.PromoPriceCents,
		&m.Images, &m.Sizes, &m.Active, &m.CreatedAt,
	)
}
