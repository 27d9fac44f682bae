package services

import (
	"context"
	"fmt"
	"time"

	"github.com/artilheiro/store-backend/internal/application"
)

const orderNumberPrefix = "ART"

// nextOrderNumber derives the next year-scoped sequential order number
// (ART-YYYY-NNNN). The counter is not stored: it is the count of orders
// created inside the current calendar year plus one. Two creations
// racing in the same instant can derive the same number; the store's
// uniqueness constraint on order_number is the final arbiter and the
// caller retries on collision.
func nextOrderNumber(ctx context.Context, repo application.OrderRepository, now time.Time) (string, error) {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	yearEnd := yearStart.AddDate(1, 0, 0)

	count, err := repo.CountCreatedBetween(ctx, yearStart, yearEnd)
	if err != nil {
		return "", fmt.Errorf("failed to count orders for numbering: %w", err)
	}

	return fmt.Sprintf("%s-%d-%04d", orderNumberPrefix, now.Year(), count+1), nil
}
