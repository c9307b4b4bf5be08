package market

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("market does not exist")
	ErrNotOwner     = errors.New("market belongs to another user")
	ErrNotSupported = errors.New("market update is not supported")
)

// Market is a named grouping of stalls owned by one user.
type Market struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMarketRequest carries the market name and the stall ids to link.
type CreateMarketRequest struct {
	Name   string   `json:"name"`
	Stalls []string `json:"stalls"`
}
