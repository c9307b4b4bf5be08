package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

type fakeKeyRepo struct {
	wallet *Wallet
	err    error // returned from every lookup when set
}

func (f *fakeKeyRepo) GetWalletByAdminKey(_ context.Context, key string) (*Wallet, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.wallet != nil && key == f.wallet.AdminKey {
		return f.wallet, nil
	}
	return nil, ErrInvalidKey
}

func (f *fakeKeyRepo) GetWalletByInvoiceKey(_ context.Context, key string) (*Wallet, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.wallet != nil && key == f.wallet.InvoiceKey {
		return f.wallet, nil
	}
	return nil, ErrInvalidKey
}

func (f *fakeKeyRepo) GetWalletByID(_ context.Context, id string) (*Wallet, error) {
	if f.wallet != nil && f.wallet.ID.String() == id {
		return f.wallet, nil
	}
	return nil, ErrInvalidKey
}

func (f *fakeKeyRepo) ListWalletsByUser(_ context.Context, userID string) ([]*Wallet, error) {
	if f.wallet != nil && f.wallet.UserID.String() == userID {
		return []*Wallet{f.wallet}, nil
	}
	return nil, nil
}

func testWallet() *Wallet {
	return &Wallet{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Name:       "merchant",
		AdminKey:   "admin-key-1",
		InvoiceKey: "invoice-key-1",
	}
}

func run(t *testing.T, min KeyScope, key string) (*httptest.ResponseRecorder, *KeyInfo) {
	t.Helper()

	checker := NewKeyChecker(&fakeKeyRepo{wallet: testWallet()})

	var seen *KeyInfo
	handler := checker.RequireKey(min)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/diagonalley/api/v1/stalls", nil)
	if key != "" {
		req.Header.Set("X-Api-Key", key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireKeyMissingHeader(t *testing.T) {
	rec, _ := run(t, ScopeInvoice, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireKeyUnknownKey(t *testing.T) {
	rec, _ := run(t, ScopeInvoice, "no-such-key")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestInvoiceKeySatisfiesInvoiceScope(t *testing.T) {
	rec, info := run(t, ScopeInvoice, "invoice-key-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if info == nil {
		t.Fatal("no key info in context")
	}
	if info.Scope != ScopeInvoice {
		t.Fatalf("scope = %d, want ScopeInvoice", info.Scope)
	}
	if info.Wallet.Name != "merchant" {
		t.Fatalf("wallet = %q, want merchant", info.Wallet.Name)
	}
}

func TestInvoiceKeyRejectedForAdminScope(t *testing.T) {
	rec, _ := run(t, ScopeAdmin, "invoice-key-1")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminKeySatisfiesAnyScope(t *testing.T) {
	for _, min := range []KeyScope{ScopeInvoice, ScopeAdmin} {
		rec, info := run(t, min, "admin-key-1")
		if rec.Code != http.StatusOK {
			t.Fatalf("min=%d: status = %d, want 200", min, rec.Code)
		}
		if info == nil || info.Scope != ScopeAdmin {
			t.Fatalf("min=%d: scope not admin", min)
		}
	}
}

func TestLookupFailureIsNotAuthRejection(t *testing.T) {
	checker := NewKeyChecker(&fakeKeyRepo{err: errors.New("connection refused")})

	handler := checker.RequireKey(ScopeInvoice)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when key lookup fails")
	}))

	req := httptest.NewRequest(http.MethodGet, "/diagonalley/api/v1/stalls", nil)
	req.Header.Set("X-Api-Key", "admin-key-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 on lookup failure", rec.Code)
	}
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	if info := FromContext(context.Background()); info != nil {
		t.Fatalf("expected nil, got %+v", info)
	}
}
