package keys

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/go-chi/chi/v5"
)

func TestGenerateKeypairShape(t *testing.T) {
	for i := 0; i < 8; i++ {
		kp, err := Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(kp.Pubkey) != 64 {
			t.Fatalf("pubkey length = %d, want 64", len(kp.Pubkey))
		}
		if len(kp.Privkey) != 64 {
			t.Fatalf("privkey length = %d, want 64", len(kp.Privkey))
		}

		// Restoring the stripped "02" prefix must yield a valid point.
		raw, err := hex.DecodeString("02" + kp.Pubkey)
		if err != nil {
			t.Fatalf("pubkey is not hex: %v", err)
		}
		if _, err := secp256k1.ParsePubKey(raw); err != nil {
			t.Fatalf("02-prefixed pubkey does not parse: %v", err)
		}
	}
}

type recordingAttacher struct {
	hash   string
	pubkey string
	calls  int
}

func (a *recordingAttacher) AttachPubkey(ctx context.Context, paymentHash, pubkey string) error {
	a.hash = paymentHash
	a.pubkey = pubkey
	a.calls++
	return nil
}

func TestKeysEndpointAttachesToOrder(t *testing.T) {
	attacher := &recordingAttacher{}
	r := chi.NewRouter()
	NewHandler(attacher).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/diagonalley/api/v1/keys/hash-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var kp Keypair
	if err := json.Unmarshal(rec.Body.Bytes(), &kp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if attacher.calls != 1 || attacher.hash != "hash-1" {
		t.Fatalf("pubkey not attached: %+v", attacher)
	}
	if attacher.pubkey != kp.Pubkey {
		t.Fatal("attached pubkey differs from returned pubkey")
	}
}

func TestKeysEndpointSkipsMerchant(t *testing.T) {
	attacher := &recordingAttacher{}
	r := chi.NewRouter()
	NewHandler(attacher).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/diagonalley/api/v1/keys/merchant", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if attacher.calls != 0 {
		t.Fatal("merchant keypair must not touch any order")
	}
}
