package services

import (
	"context"
	"testing"

	"github.com/artilheiro/store-backend/internal/application"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService() (*ProductService, *MockProductRepository) {
	repo := NewMockProductRepository()
	return NewProductService(repo, testLogger()), repo
}

func TestProductCreate_DefaultsActive(t *testing.T) {
	svc, _ := newProductService()

	product, err := svc.Create(context.Background(), ProductInput{
		Name:       "  Flamengo Home 2026  ",
		Team:       "Flamengo",
		League:     "Brasileirao",
		Category:   "clubs",
		PriceCents: 24990,
	})
	require.NoError(t, err)

	assert.Equal(t, "Flamengo Home 2026", product.Name)
	assert.True(t, product.Active)
	assert.NotEqual(t, uuid.Nil, product.ID)
}

func TestProductCreate_Invalid(t *testing.T) {
	svc, _ := newProductService()

	cases := []struct {
		name  string
		input ProductInput
	}{
		{"blank name", ProductInput{Name: "   ", PriceCents: 100}},
		{"zero price", ProductInput{Name: "Shirt", PriceCents: 0}},
		{"negative price", ProductInput{Name: "Shirt", PriceCents: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			assert.True(t, application.IsCode(err, application.ErrCodeInvalidArgument))
		})
	}
}

func TestProductGet_NotFound(t *testing.T) {
	svc, _ := newProductService()

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, application.IsCode(err, application.ErrCodeNotFound))
}

func TestProductUpdate_PartialAndPromoClear(t *testing.T) {
	svc, _ := newProductService()

	promo := int64(19990)
	created, err := svc.Create(context.Background(), ProductInput{
		Name:            "Palmeiras Away",
		Team:            "Palmeiras",
		PriceCents:      24990,
		PromoPriceCents: &promo,
	})
	require.NoError(t, err)

	// Blank fields leave stored values alone.
	updated, err := svc.Update(context.Background(), created.ID, ProductInput{League: "Brasileirao"})
	require.NoError(t, err)
	assert.Equal(t, "Palmeiras Away", updated.Name)
	assert.Equal(t, "Brasileirao", updated.League)
	require.NotNil(t, updated.PromoPriceCents)
	assert.Equal(t, int64(19990), *updated.PromoPriceCents)

	// A non-positive promo pointer clears the promo price.
	zero := int64(0)
	updated, err = svc.Update(context.Background(), created.ID, ProductInput{PromoPriceCents: &zero})
	require.NoError(t, err)
	assert.Nil(t, updated.PromoPriceCents)
}

func TestProductDelete(t *testing.T) {
	svc, _ := newProductService()

	created, err := svc.Create(context.Background(), ProductInput{Name: "Retro 1994", PriceCents: 29990})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	err = svc.Delete(context.Background(), created.ID)
	assert.True(t, application.IsCode(err, application.ErrCodeNotFound))
}
