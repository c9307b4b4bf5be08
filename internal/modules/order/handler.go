package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	keys    *auth.KeyChecker
}

func NewHandler(service Service, keys *auth.KeyChecker) *Handler {
	return &Handler{service: service, keys: keys}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	readKey := h.keys.RequireKey(auth.ScopeInvoice)
	adminKey := h.keys.RequireKey(auth.ScopeAdmin)

	r.Route("/diagonalley/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/payments/{payment_hash}", h.checkPayment)
		r.With(readKey).Get("/", h.listOrders)
		r.With(readKey).Get("/shipped-status/{invoice_id}", h.shippedStatus)
		r.With(adminKey).Get("/paid/{id}", h.markPaid)
		r.With(readKey).Get("/shipped/{id}", h.markShipped)
		r.With(readKey).Get("/{id}", h.getOrder)
		r.With(adminKey).Delete("/{id}", h.deleteOrder)
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	receipt, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		msg := err.Error()
		if strings.Contains(msg, "invoice issuance failed") {
			code = http.StatusBadGateway
		} else if strings.Contains(msg, "invalid") || strings.Contains(msg, "must") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": msg})
		return
	}
	respond(w, http.StatusCreated, receipt)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	allWallets := r.URL.Query().Get("all_wallets") == "true"
	orders, err := h.service.ListOrders(r.Context(), caller, allWallets)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	if err := h.service.DeleteOrder(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	if err := h.service.MarkPaid(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"paid": true})
}

func (h *Handler) markShipped(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	o, err := h.service.MarkShipped(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) shippedStatus(w http.ResponseWriter, r *http.Request) {
	shipped, err := h.service.ShippedStatus(r.Context(), chi.URLParam(r, "invoice_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"shipped": shipped})
}

func (h *Handler) checkPayment(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.CheckPayment(r.Context(), chi.URLParam(r, "payment_hash"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, status)
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		code = http.StatusForbidden
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
