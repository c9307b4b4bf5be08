package market

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines market data storage, including the market_stalls join.
type Repository interface {
	// Create persists the market and one join row per stall id atomically.
	Create(ctx context.Context, m *Market, stallIDs []uuid.UUID) error
	GetByID(ctx context.Context, id string) (*Market, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Market, error)

	// ListStallIDs resolves the join table for one market.
	ListStallIDs(ctx context.Context, marketID uuid.UUID) ([]uuid.UUID, error)
}
