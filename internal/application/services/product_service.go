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

type ProductService struct {
	products application.ProductRepository
	logger   *slog.Logger
}

func NewProductService(products application.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

type ProductInput struct {
	Name            string
	Team            string
	League          string
	Category        string
	PriceCents      int64
	PromoPriceCents *int64
	Images          []string
	Sizes           map[string]int
	Active          *bool
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, application.NewInvalidArgumentError("product name is required")
	}
	if input.PriceCents <= 0 {
		return nil, application.NewInvalidArgumentError("product price must be positive")
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	product := &domain.Product{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(input.Name),
		Team:            input.Team,
		League:          input.League,
		Category:        input.Category,
		PriceCents:      input.PriceCents,
		PromoPriceCents: input.PromoPriceCents,
		Images:          input.Images,
		Sizes:           input.Sizes,
		Active:          active,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, application.NewInternalError(err)
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrProductNotFound) {
			return nil, application.NewNotFoundError("product")
		}
		return nil, application.NewInternalError(err)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, filter application.ProductFilter) ([]*domain.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	return products, nil
}

// Update applies a partial update; zero values leave the stored field
// untouched except Active and PromoPriceCents, which are pointers so
// they can be cleared explicitly.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.Name); v != "" {
		product.Name = v
	}
	if input.Team != "" {
		product.Team = input.Team
	}
	if input.League != "" {
		product.League = input.League
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.PriceCents > 0 {
		product.PriceCents = input.PriceCents
	}
	if input.PromoPriceCents != nil {
		if *input.PromoPriceCents > 0 {
			product.PromoPriceCents = input.PromoPriceCents
		} else {
			product.PromoPriceCents = nil
		}
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, postgres.ErrProductNotFound) {
			return nil, application.NewNotFoundError("product")
		}
		return nil, application.NewInternalError(err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrProductNotFound) {
			return application.NewNotFoundError("product")
		}
		return application.NewInternalError(err)
	}
	return nil
}
