package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
)

// Handler exposes chat HTTP endpoints.
type Handler struct {
	service Service
	keys    *auth.KeyChecker
}

func NewHandler(service Service, keys *auth.KeyChecker) *Handler {
	return &Handler{service: service, keys: keys}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	adminKey := h.keys.RequireKey(auth.ScopeAdmin)

	r.Route("/diagonalley/api/v1/chat", func(r chi.Router) {
		r.With(adminKey).Get("/messages/merchant", h.merchantInbox)
		r.Get("/messages/{room}", h.roomMessages)
		r.Post("/messages/{room}", h.postMessage)
	})
}

func (h *Handler) roomMessages(w http.ResponseWriter, r *http.Request) {
	room := chi.URLParam(r, "room")
	allMessages := r.URL.Query().Get("all_messages") == "true"
	msgs, err := h.service.RoomMessages(r.Context(), room, allMessages)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, msgs)
}

func (h *Handler) merchantInbox(w http.ResponseWriter, r *http.Request) {
	var rooms []string
	for _, room := range strings.Split(r.URL.Query().Get("orders"), ",") {
		if room = strings.TrimSpace(room); room != "" {
			rooms = append(rooms, room)
		}
	}
	msgs, err := h.service.MerchantInbox(r.Context(), rooms)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, msgs)
}

func (h *Handler) postMessage(w http.ResponseWriter, r *http.Request) {
	room := chi.URLParam(r, "room")
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	m, err := h.service.PostMessage(r.Context(), room, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, m)
}

func respondError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, ErrRoomRequired) || strings.Contains(err.Error(), "required") {
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
