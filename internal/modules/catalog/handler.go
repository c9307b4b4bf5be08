package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
)

// Handler exposes product, stall and zone HTTP endpoints.
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

	r.Route("/diagonalley/api/v1", func(r chi.Router) {
		r.With(readKey).Get("/products", h.listProducts)
		r.With(readKey).Post("/products", h.createProduct)
		r.With(readKey).Put("/products/{id}", h.updateProduct)
		r.With(adminKey).Delete("/products/{id}", h.deleteProduct)

		r.With(readKey).Get("/stalls", h.listStalls)
		r.With(readKey).Post("/stalls", h.createStall)
		r.With(readKey).Put("/stalls/{id}", h.updateStall)
		r.With(adminKey).Delete("/stalls/{id}", h.deleteStall)
		r.Get("/stalls/{id}/products", h.listStallProducts)

		r.With(readKey).Get("/zones", h.listZones)
		r.With(readKey).Post("/zones", h.createZone)
		r.With(adminKey).Post("/zones/{id}", h.updateZone)
		r.With(adminKey).Delete("/zones/{id}", h.deleteZone)
	})
}

// ---- Products ----

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	allStalls := r.URL.Query().Get("all_stalls") == "true"
	products, err := h.service.ListProducts(r.Context(), caller, allStalls)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) listStallProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListStallProducts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProduct(r.Context(), caller, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	if err := h.service.DeleteProduct(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Stalls ----

func (h *Handler) listStalls(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	allWallets := r.URL.Query().Get("all_wallets") == "true"
	stalls, err := h.service.ListStalls(r.Context(), caller, allWallets)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, stalls)
}

func (h *Handler) createStall(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	var req CreateStallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	st, err := h.service.CreateStall(r.Context(), caller, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, st)
}

func (h *Handler) updateStall(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	var req CreateStallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	st, err := h.service.UpdateStall(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, st)
}

func (h *Handler) deleteStall(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	if err := h.service.DeleteStall(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Zones ----

func (h *Handler) listZones(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	zones, err := h.service.ListZones(r.Context(), caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, zones)
}

func (h *Handler) createZone(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	var req CreateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	z, err := h.service.CreateZone(r.Context(), caller, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, z)
}

func (h *Handler) updateZone(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	var req CreateZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	z, err := h.service.UpdateZone(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, z)
}

func (h *Handler) deleteZone(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	if err := h.service.DeleteZone(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- helpers ----

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrStallNotFound),
		errors.Is(err, ErrZoneNotFound):
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
