package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product does not exist")
	ErrStallNotFound   = errors.New("stall does not exist")
	ErrZoneNotFound    = errors.New("zone does not exist")
	ErrNotOwner        = errors.New("resource belongs to another wallet")
)

// Product is a sellable item listed under one stall. Price is in satoshis.
type Product struct {
	ID          uuid.UUID `json:"id"`
	StallID     uuid.UUID `json:"stall_id"`
	Name        string    `json:"name"`
	Categories  []string  `json:"categories"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Price       int64     `json:"price"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Stall is a merchant storefront keyed to one receiving wallet.
type Stall struct {
	ID            uuid.UUID `json:"id"`
	WalletID      uuid.UUID `json:"wallet_id"`
	Name          string    `json:"name"`
	PublicKey     string    `json:"publickey"`
	PrivateKey    string    `json:"privatekey"`
	Relays        []string  `json:"relays"`
	ShippingZones []string  `json:"shippingzones"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Zone is a shipping-cost rule owned by a user. Cost is in satoshis and
// country codes are stored lowercase.
type Zone struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Cost      int64     `json:"cost"`
	Countries []string  `json:"countries"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductRequest lists exactly the mutable product fields; it doubles
// as the update payload.
type CreateProductRequest struct {
	StallID     string   `json:"stall_id"`
	Name        string   `json:"name"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Price       int64    `json:"price"`
	Quantity    int      `json:"quantity"`
}

// CreateStallRequest lists the mutable stall fields. The owning wallet is
// always the caller's and never part of the payload.
type CreateStallRequest struct {
	Name          string   `json:"name"`
	PublicKey     string   `json:"publickey"`
	PrivateKey    string   `json:"privatekey"`
	Relays        []string `json:"relays"`
	ShippingZones []string `json:"shippingzones"`
}

// CreateZoneRequest lists the mutable zone fields.
type CreateZoneRequest struct {
	Cost      int64    `json:"cost"`
	Countries []string `json:"countries"`
}
