package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
)

// Service defines catalog business logic. Every mutating operation verifies
// the caller owns the target resource before touching it.
type Service interface {
	ListProducts(ctx context.Context, caller *auth.KeyInfo, allStalls bool) ([]*Product, error)
	ListStallProducts(ctx context.Context, stallID string) ([]*Product, error)
	CreateProduct(ctx context.Context, caller *auth.KeyInfo, req CreateProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, caller *auth.KeyInfo, id string, req CreateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, caller *auth.KeyInfo, id string) error

	ListStalls(ctx context.Context, caller *auth.KeyInfo, allWallets bool) ([]*Stall, error)
	CreateStall(ctx context.Context, caller *auth.KeyInfo, req CreateStallRequest) (*Stall, error)
	UpdateStall(ctx context.Context, caller *auth.KeyInfo, id string, req CreateStallRequest) (*Stall, error)
	DeleteStall(ctx context.Context, caller *auth.KeyInfo, id string) error

	ListZones(ctx context.Context, caller *auth.KeyInfo) ([]*Zone, error)
	CreateZone(ctx context.Context, caller *auth.KeyInfo, req CreateZoneRequest) (*Zone, error)
	UpdateZone(ctx context.Context, caller *auth.KeyInfo, id string, req CreateZoneRequest) (*Zone, error)
	DeleteZone(ctx context.Context, caller *auth.KeyInfo, id string) error
}

type service struct {
	products ProductRepository
	stalls   StallRepository
	zones    ZoneRepository
	wallets  auth.Repository
}

// NewService creates a catalog service.
func NewService(products ProductRepository, stalls StallRepository, zones ZoneRepository, wallets auth.Repository) Service {
	return &service{products: products, stalls: stalls, zones: zones, wallets: wallets}
}

// ---- Products ----

func (s *service) ListProducts(ctx context.Context, caller *auth.KeyInfo, allStalls bool) ([]*Product, error) {
	walletIDs, err := s.callerWallets(ctx, caller, allStalls)
	if err != nil {
		return nil, err
	}
	stalls, err := s.stalls.ListByWallets(ctx, walletIDs)
	if err != nil {
		return nil, err
	}
	if len(stalls) == 0 {
		return []*Product{}, nil
	}
	stallIDs := make([]uuid.UUID, 0, len(stalls))
	for _, st := range stalls {
		stallIDs = append(stallIDs, st.ID)
	}
	return s.products.ListByStalls(ctx, stallIDs)
}

func (s *service) ListStallProducts(ctx context.Context, stallID string) ([]*Product, error) {
	stall, err := s.stalls.GetByID(ctx, stallID)
	if err != nil {
		return nil, err
	}
	return s.products.ListByStalls(ctx, []uuid.UUID{stall.ID})
}

func (s *service) CreateProduct(ctx context.Context, caller *auth.KeyInfo, req CreateProductRequest) (*Product, error) {
	stall, err := s.stalls.GetByID(ctx, req.StallID)
	if err != nil {
		return nil, err
	}
	if stall.WalletID != caller.Wallet.ID {
		return nil, ErrNotOwner
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}

	p := &Product{
		ID:          uuid.New(),
		StallID:     stall.ID,
		Name:        req.Name,
		Categories:  req.Categories,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, caller *auth.KeyInfo, id string, req CreateProductRequest) (*Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireStallOwner(ctx, caller, p.StallID); err != nil {
		return nil, err
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}

	p.Name = req.Name
	p.Categories = req.Categories
	p.Description = req.Description
	p.Image = req.Image
	p.Price = req.Price
	p.Quantity = req.Quantity
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, caller *auth.KeyInfo, id string) error {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireStallOwner(ctx, caller, p.StallID); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

// ---- Stalls ----

func (s *service) ListStalls(ctx context.Context, caller *auth.KeyInfo, allWallets bool) ([]*Stall, error) {
	walletIDs, err := s.callerWallets(ctx, caller, allWallets)
	if err != nil {
		return nil, err
	}
	return s.stalls.ListByWallets(ctx, walletIDs)
}

func (s *service) CreateStall(ctx context.Context, caller *auth.KeyInfo, req CreateStallRequest) (*Stall, error) {
	st := &Stall{
		ID:            uuid.New(),
		WalletID:      caller.Wallet.ID,
		Name:          req.Name,
		PublicKey:     req.PublicKey,
		PrivateKey:    req.PrivateKey,
		Relays:        req.Relays,
		ShippingZones: req.ShippingZones,
	}
	if err := s.stalls.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) UpdateStall(ctx context.Context, caller *auth.KeyInfo, id string, req CreateStallRequest) (*Stall, error) {
	st, err := s.stalls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.WalletID != caller.Wallet.ID {
		return nil, ErrNotOwner
	}

	st.Name = req.Name
	st.PublicKey = req.PublicKey
	st.PrivateKey = req.PrivateKey
	st.Relays = req.Relays
	st.ShippingZones = req.ShippingZones
	if err := s.stalls.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) DeleteStall(ctx context.Context, caller *auth.KeyInfo, id string) error {
	st, err := s.stalls.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if st.WalletID != caller.Wallet.ID {
		return ErrNotOwner
	}
	return s.stalls.Delete(ctx, id)
}

// ---- Zones ----

func (s *service) ListZones(ctx context.Context, caller *auth.KeyInfo) ([]*Zone, error) {
	return s.zones.ListByUser(ctx, caller.Wallet.UserID)
}

func (s *service) CreateZone(ctx context.Context, caller *auth.KeyInfo, req CreateZoneRequest) (*Zone, error) {
	z := &Zone{
		ID:        uuid.New(),
		UserID:    caller.Wallet.UserID,
		Cost:      req.Cost,
		Countries: lowercase(req.Countries),
	}
	if err := s.zones.Create(ctx, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *service) UpdateZone(ctx context.Context, caller *auth.KeyInfo, id string, req CreateZoneRequest) (*Zone, error) {
	z, err := s.zones.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if z.UserID != caller.Wallet.UserID {
		return nil, ErrNotOwner
	}

	z.Cost = req.Cost
	z.Countries = lowercase(req.Countries)
	if err := s.zones.Update(ctx, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *service) DeleteZone(ctx context.Context, caller *auth.KeyInfo, id string) error {
	z, err := s.zones.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if z.UserID != caller.Wallet.UserID {
		return ErrNotOwner
	}
	return s.zones.Delete(ctx, id)
}

// ---- helpers ----

// callerWallets returns the caller's wallet id, widened to every wallet under
// the caller's user account when the flag is set.
func (s *service) callerWallets(ctx context.Context, caller *auth.KeyInfo, widen bool) ([]uuid.UUID, error) {
	if !widen {
		return []uuid.UUID{caller.Wallet.ID}, nil
	}
	wallets, err := s.wallets.ListWalletsByUser(ctx, caller.Wallet.UserID.String())
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(wallets))
	for _, w := range wallets {
		ids = append(ids, w.ID)
	}
	return ids, nil
}

func (s *service) requireStallOwner(ctx context.Context, caller *auth.KeyInfo, stallID uuid.UUID) error {
	stall, err := s.stalls.GetByID(ctx, stallID.String())
	if err != nil {
		return err
	}
	if stall.WalletID != caller.Wallet.ID {
		return ErrNotOwner
	}
	return nil
}

func lowercase(countries []string) []string {
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		out = append(out, strings.ToLower(strings.TrimSpace(c)))
	}
	return out
}
