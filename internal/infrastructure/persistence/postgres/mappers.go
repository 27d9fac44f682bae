package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/artilheiro/store-backend/internal/domain"
)

// toDomainOrder: maps db model to domain entity
func toDomainOrder(m OrderModel) (*domain.Order, error) {
	var addr domain.Address
	if len(m.Address) > 0 {
		if err := json.Unmarshal(m.Address, &addr); err != nil {
			return nil, fmt.Errorf("unmarshal order address: %w", err)
		}
	}

	var items []domain.LineItem
	if len(m.Items) > 0 {
		if err := json.Unmarshal(m.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}

	return &domain.Order{
		ID:           m.ID,
		OrderNumber:  m.OrderNumber,
		CustomerName: m.CustomerName,
		Email:        m.Email,
		CPF:          m.CPF,
		Address:      addr,
		Items:        items,
		TotalCents:   m.TotalCents,
		Status:       domain.OrderStatus(m.Status),
		PaymentID:    m.PaymentID,
		CreatedAt:    m.CreatedAt,
		ShippedAt:    m.ShippedAt,
		Carrier:      m.Carrier,
		TrackingCode: m.TrackingCode,
		TrackingURL:  m.TrackingURL,
	}, nil
}

// toOrderModel: maps domain entity to db model
func toOrderModel(o *domain.Order) (*OrderModel, error) {
	addr, err := json.Marshal(o.Address)
	if err != nil {
		return nil, fmt.Errorf("marshal order address: %w", err)
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}

	return &OrderModel{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		CPF:          o.CPF,
		Address:      addr,
		Items:        items,
		TotalCents:   o.TotalCents,
		Status:       string(o.Status),
		PaymentID:    o.PaymentID,
		CreatedAt:    o.CreatedAt,
		ShippedAt:    o.ShippedAt,
		Carrier:      o.Carrier,
		TrackingCode: o.TrackingCode,
		TrackingURL:  o.TrackingURL,
	}, nil
}

func toDomainProduct(m ProductModel) (*domain.Product, error) {
	var images []string
	if len(m.Images) > 0 {
		if err := json.Unmarshal(m.Images, &images); err != nil {
			return nil, fmt.Errorf("unmarshal product images: %w", err)
		}
	}

	var sizes map[string]int
	if len(m.Sizes) > 0 {
		if err := json.Unmarshal(m.Sizes, &sizes); err != nil {
			return nil, fmt.Errorf("unmarshal product sizes: %w", err)
		}
	}

	return &domain.Product{
		ID:              m.ID,
		Name:            m.Name,
		Team:            m.Team,
		League:          m.League,
		Category:        m.Category,
		PriceCents:      m.PriceCents,
		PromoPriceCents: m.PromoPriceCents,
		Images:          images,
		Sizes:           sizes,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
	}, nil
}

func toProductModel(p *domain.Product) (*ProductModel, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("marshal product images: %w", err)
	}

	sizes := p.Sizes
	if sizes == nil {
		sizes = map[string]int{}
	}
	sizesJSON, err := json.Marshal(sizes)
	if err != nil {
		return nil, fmt.Errorf("marshal product sizes: %w", err)
	}

	return &ProductModel{
		ID:              p.ID,
		Name:            p.Name,
		Team:            p.Team,
		League:          p.League,
		Category:        p.Category,
		PriceCents:      p.PriceCents,
		PromoPriceCents: p.PromoPriceCents,
		Images:          imagesJSON,
		Sizes:           sizesJSON,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
	}, nil
}
