package chat

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrRoomRequired = errors.New("room name is required")

// Message is one chat line in an order room. Rooms are keyed by the order's
// invoice id; messages are append-only.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Room      string    `json:"room"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// PostMessageRequest is the append payload.
type PostMessageRequest struct {
	Sender string `json:"sender"`
	Body   string `json:"body"`
}
