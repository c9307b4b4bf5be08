package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("order does not exist")
	ErrNotOwner = errors.New("order belongs to another wallet")
)

// Order is a buyer's purchase, keyed for settlement by the invoice id the
// payment engine issued for it. Paid flips exactly once, on settlement;
// shipped is an independent seller-set flag.
type Order struct {
	ID             uuid.UUID      `json:"id"`
	WalletID       uuid.UUID      `json:"wallet_id"`
	ShippingZoneID uuid.UUID      `json:"shipping_zone_id"`
	Address        string         `json:"address"`
	Email          string         `json:"email"`
	Total          int64          `json:"total"`
	InvoiceID      string         `json:"invoice_id"`
	Pubkey         string         `json:"pubkey,omitempty"`
	Paid           bool           `json:"paid"`
	Shipped        bool           `json:"shipped"`
	CreatedAt      time.Time      `json:"created_at"`
	Details        []*OrderDetail `json:"details,omitempty"`
}

// OrderDetail is one line item. Immutable once created.
type OrderDetail struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// LineItem is the transient checkout form of a detail row.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the buyer's order payload.
type CreateOrderRequest struct {
	WalletID       string     `json:"wallet_id"`
	ShippingZoneID string     `json:"shipping_zone_id"`
	Address        string     `json:"address"`
	Email          string     `json:"email"`
	Total          int64      `json:"total"`
	Items          []LineItem `json:"items"`
}

// OrderReceipt is returned to the buyer so the invoice can be presented.
type OrderReceipt struct {
	PaymentHash    string `json:"payment_hash"`
	PaymentRequest string `json:"payment_request"`
	OrderReference string `json:"order_reference"`
}
