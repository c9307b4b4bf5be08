package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines product data storage.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	ListByStalls(ctx context.Context, stallIDs []uuid.UUID) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

// StallRepository defines stall data storage.
type StallRepository interface {
	Create(ctx context.Context, s *Stall) error
	GetByID(ctx context.Context, id string) (*Stall, error)
	ListByWallets(ctx context.Context, walletIDs []uuid.UUID) ([]*Stall, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Stall, error)
	Update(ctx context.Context, s *Stall) error
	Delete(ctx context.Context, id string) error
}

// ZoneRepository defines shipping zone data storage.
type ZoneRepository interface {
	Create(ctx context.Context, z *Zone) error
	GetByID(ctx context.Context, id string) (*Zone, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Zone, error)
	Update(ctx context.Context, z *Zone) error
	Delete(ctx context.Context, id string) error
}
