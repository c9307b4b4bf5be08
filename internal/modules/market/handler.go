package market

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
)

// Handler exposes market HTTP endpoints.
type Handler struct {
	service Service
	keys    *auth.KeyChecker
}

func NewHandler(service Service, keys *auth.KeyChecker) *Handler {
	return &Handler{service: service, keys: keys}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	invoiceKey := h.keys.RequireKey(auth.ScopeInvoice)

	r.Route("/diagonalley/api/v1/markets", func(r chi.Router) {
		r.With(invoiceKey).Get("/", h.listMarkets)
		r.With(invoiceKey).Post("/", h.createMarket)
		r.With(invoiceKey).Put("/{id}", h.updateMarket)
		r.Get("/{id}/stalls", h.listMarketStalls)
	})
}

func (h *Handler) listMarkets(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	markets, err := h.service.ListMarkets(r.Context(), caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, markets)
}

func (h *Handler) createMarket(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	var req CreateMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.CreateMarket(r.Context(), caller, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, m)
}

func (h *Handler) updateMarket(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	var req CreateMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.UpdateMarket(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, m)
}

func (h *Handler) listMarketStalls(w http.ResponseWriter, r *http.Request) {
	stalls, err := h.service.ListMarketStalls(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, stalls)
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		code = http.StatusForbidden
	case errors.Is(err, ErrNotSupported):
		code = http.StatusMethodNotAllowed
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
