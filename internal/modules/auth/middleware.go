package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type contextKey struct{}

// KeyChecker builds chi middleware enforcing API key scopes on routes.
type KeyChecker struct{ repo Repository }

func NewKeyChecker(repo Repository) *KeyChecker { return &KeyChecker{repo: repo} }

// RequireKey resolves the X-Api-Key header against the wallet table and
// rejects callers below the given scope. The resolved KeyInfo is stored in
// the request context for handlers and services.
//
// An admin key always satisfies a lower scope requirement; an invoice key
// never satisfies ScopeAdmin.
func (c *KeyChecker) RequireKey(min KeyScope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Api-Key")
			if key == "" {
				unauthorized(w, "missing X-Api-Key header")
				return
			}

			info, err := c.resolve(r.Context(), key, min)
			if errors.Is(err, ErrInvalidKey) {
				unauthorized(w, "invalid api key")
				return
			}
			if err != nil {
				// A lookup failure is an outage, not a bad key.
				respondJSON(w, http.StatusInternalServerError, "key lookup failed")
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (c *KeyChecker) resolve(ctx context.Context, key string, min KeyScope) (*KeyInfo, error) {
	w, err := c.repo.GetWalletByAdminKey(ctx, key)
	if err == nil {
		return &KeyInfo{Wallet: w, Scope: ScopeAdmin}, nil
	}
	if !errors.Is(err, ErrInvalidKey) {
		return nil, err
	}
	if min >= ScopeAdmin {
		return nil, ErrInvalidKey
	}
	w, err = c.repo.GetWalletByInvoiceKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return &KeyInfo{Wallet: w, Scope: ScopeInvoice}, nil
}

// FromContext returns the caller resolved by RequireKey, or nil on routes
// that carry no key requirement.
func FromContext(ctx context.Context) *KeyInfo {
	info, _ := ctx.Value(contextKey{}).(*KeyInfo)
	return info
}

func unauthorized(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusUnauthorized, msg)
}

func respondJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
