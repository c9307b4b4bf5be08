package keys

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PubkeyAttacher stores a generated pubkey on the order behind an invoice.
type PubkeyAttacher interface {
	AttachPubkey(ctx context.Context, paymentHash, pubkey string) error
}

// Handler exposes the keypair generation endpoint.
type Handler struct{ orders PubkeyAttacher }

func NewHandler(orders PubkeyAttacher) *Handler { return &Handler{orders: orders} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/diagonalley/api/v1/keys/{payment_hash}", h.generateKeys)
}

// The merchant side passes the literal "merchant" instead of a payment hash;
// then no order is touched.
func (h *Handler) generateKeys(w http.ResponseWriter, r *http.Request) {
	kp, err := Generate()
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrKeyspaceExhausted) {
			code = http.StatusServiceUnavailable
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}

	paymentHash := chi.URLParam(r, "payment_hash")
	if paymentHash != "merchant" {
		if err := h.orders.AttachPubkey(r.Context(), paymentHash, kp.Pubkey); err != nil {
			respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
	}
	respond(w, http.StatusOK, kp)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
