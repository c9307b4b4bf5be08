package market

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
	"github.com/diagonalley/diagonalley-backend/internal/modules/catalog"
)

type fakeRepo struct {
	markets map[uuid.UUID]*Market
	joins   map[uuid.UUID][]uuid.UUID
}

func (f *fakeRepo) Create(ctx context.Context, m *Market, stallIDs []uuid.UUID) error {
	f.markets[m.ID] = m
	f.joins[m.ID] = stallIDs
	return nil
}
func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Market, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m, ok := f.markets[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}
func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Market, error) {
	var out []*Market
	for _, m := range f.markets {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (f *fakeRepo) ListStallIDs(ctx context.Context, marketID uuid.UUID) ([]uuid.UUID, error) {
	return f.joins[marketID], nil
}

type fakeStalls struct{ byID map[uuid.UUID]*catalog.Stall }

func (f *fakeStalls) Create(ctx context.Context, s *catalog.Stall) error {
	f.byID[s.ID] = s
	return nil
}
func (f *fakeStalls) GetByID(ctx context.Context, id string) (*catalog.Stall, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, catalog.ErrStallNotFound
	}
	s, ok := f.byID[uid]
	if !ok {
		return nil, catalog.ErrStallNotFound
	}
	return s, nil
}
func (f *fakeStalls) ListByWallets(ctx context.Context, walletIDs []uuid.UUID) ([]*catalog.Stall, error) {
	return nil, nil
}
func (f *fakeStalls) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Stall, error) {
	// Deliberately order-independent, like the real IN query.
	var out []*catalog.Stall
	for id, s := range f.byID {
		for _, want := range ids {
			if id == want {
				out = append(out, s)
			}
		}
	}
	return out, nil
}
func (f *fakeStalls) Update(ctx context.Context, s *catalog.Stall) error { return nil }
func (f *fakeStalls) Delete(ctx context.Context, id string) error        { return nil }

func newFixture() (Service, *fakeStalls, *auth.KeyInfo) {
	repo := &fakeRepo{markets: map[uuid.UUID]*Market{}, joins: map[uuid.UUID][]uuid.UUID{}}
	stalls := &fakeStalls{byID: map[uuid.UUID]*catalog.Stall{}}
	caller := &auth.KeyInfo{
		Wallet: &auth.Wallet{ID: uuid.New(), UserID: uuid.New()},
		Scope:  auth.ScopeInvoice,
	}
	return NewService(repo, stalls), stalls, caller
}

func TestMarketStallRoundTrip(t *testing.T) {
	svc, stalls, caller := newFixture()

	var stallIDs []string
	for _, name := range []string{"A", "B", "C"} {
		s := &catalog.Stall{ID: uuid.New(), WalletID: caller.Wallet.ID, Name: name}
		stalls.byID[s.ID] = s
		stallIDs = append(stallIDs, s.ID.String())
	}

	m, err := svc.CreateMarket(context.Background(), caller, CreateMarketRequest{
		Name:   "Diagon Alley",
		Stalls: stallIDs,
	})
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}

	got, err := svc.ListMarketStalls(context.Background(), m.ID.String())
	if err != nil {
		t.Fatalf("ListMarketStalls: %v", err)
	}
	var names []string
	for _, s := range got {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "C" {
		t.Fatalf("round trip returned %v, want {A B C}", names)
	}
}

func TestCreateMarketRejectsBadStallID(t *testing.T) {
	svc, _, caller := newFixture()
	_, err := svc.CreateMarket(context.Background(), caller, CreateMarketRequest{
		Name:   "Broken",
		Stalls: []string{"not-a-uuid"},
	})
	if err == nil {
		t.Fatal("expected error for malformed stall id")
	}
}

func TestUpdateMarketNotSupported(t *testing.T) {
	svc, _, caller := newFixture()
	m, err := svc.CreateMarket(context.Background(), caller, CreateMarketRequest{Name: "M"})
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}

	_, err = svc.UpdateMarket(context.Background(), caller, m.ID.String(), CreateMarketRequest{Name: "New"})
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestUpdateMarketByNonOwner(t *testing.T) {
	svc, _, caller := newFixture()
	m, err := svc.CreateMarket(context.Background(), caller, CreateMarketRequest{Name: "M"})
	if err != nil {
		t.Fatalf("CreateMarket: %v", err)
	}

	stranger := &auth.KeyInfo{Wallet: &auth.Wallet{ID: uuid.New(), UserID: uuid.New()}}
	_, err = svc.UpdateMarket(context.Background(), stranger, m.ID.String(), CreateMarketRequest{Name: "Theirs"})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestUpdateMissingMarket(t *testing.T) {
	svc, _, caller := newFixture()
	_, err := svc.UpdateMarket(context.Background(), caller, uuid.NewString(), CreateMarketRequest{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
