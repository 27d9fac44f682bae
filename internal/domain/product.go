package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Sizes maps size label to stock count.
type Product struct {
	ID              uuid.UUID
	Name            string
	Team            string
	League          string
	Category        string
	PriceCents      int64
	PromoPriceCents *int64
	Images          []string
	Sizes           map[string]int
	Active          bool
	CreatedAt       time.Time
}

// EffectivePriceCents returns the promo price when one is set and
// positive, otherwise the regular price.
func (p *Product) EffectivePriceCents() int64 {
	if p.PromoPriceCents != nil && *p.PromoPriceCents > 0 {
		return *p.PromoPriceCents
	}
	return p.PriceCents
}
