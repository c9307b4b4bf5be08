package market

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
	"github.com/diagonalley/diagonalley-backend/internal/modules/catalog"
)

// Service defines market business logic.
type Service interface {
	CreateMarket(ctx context.Context, caller *auth.KeyInfo, req CreateMarketRequest) (*Market, error)
	ListMarkets(ctx context.Context, caller *auth.KeyInfo) ([]*Market, error)

	// ListMarketStalls resolves a market's join rows to full stall records.
	ListMarketStalls(ctx context.Context, marketID string) ([]*catalog.Stall, error)

	// UpdateMarket is declared for API symmetry but not supported; the
	// intended semantics were never settled. Callers get ErrNotSupported.
	UpdateMarket(ctx context.Context, caller *auth.KeyInfo, id string, req CreateMarketRequest) (*Market, error)
}

type service struct {
	repo   Repository
	stalls catalog.StallRepository
}

// NewService creates a market service.
func NewService(repo Repository, stalls catalog.StallRepository) Service {
	return &service{repo: repo, stalls: stalls}
}

func (s *service) CreateMarket(ctx context.Context, caller *auth.KeyInfo, req CreateMarketRequest) (*Market, error) {
	stallIDs := make([]uuid.UUID, 0, len(req.Stalls))
	for _, raw := range req.Stalls {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid stall id %q: %w", raw, err)
		}
		stallIDs = append(stallIDs, id)
	}

	m := &Market{
		ID:     uuid.New(),
		UserID: caller.Wallet.UserID,
		Name:   req.Name,
	}
	if err := s.repo.Create(ctx, m, stallIDs); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) ListMarkets(ctx context.Context, caller *auth.KeyInfo) ([]*Market, error) {
	return s.repo.ListByUser(ctx, caller.Wallet.UserID)
}

func (s *service) ListMarketStalls(ctx context.Context, marketID string) ([]*catalog.Stall, error) {
	m, err := s.repo.GetByID(ctx, marketID)
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.ListStallIDs(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*catalog.Stall{}, nil
	}
	return s.stalls.ListByIDs(ctx, ids)
}

func (s *service) UpdateMarket(ctx context.Context, caller *auth.KeyInfo, id string, req CreateMarketRequest) (*Market, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.UserID != caller.Wallet.UserID {
		return nil, ErrNotOwner
	}
	return nil, ErrNotSupported
}
