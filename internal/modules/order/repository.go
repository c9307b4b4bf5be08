package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines order data storage.
type Repository interface {
	// Create persists the order and every detail row in one transaction; no
	// line item may be dropped.
	Create(ctx context.Context, o *Order) error

	// GetByID returns the order with its details embedded.
	GetByID(ctx context.Context, id string) (*Order, error)

	// GetByInvoiceID returns the order settling against the given invoice.
	GetByInvoiceID(ctx context.Context, invoiceID string) (*Order, error)

	// ListByWallets returns orders for the given seller wallets, details
	// embedded.
	ListByWallets(ctx context.Context, walletIDs []uuid.UUID) ([]*Order, error)

	Delete(ctx context.Context, id string) error

	// SetPaid force-sets the paid flag without touching stock.
	SetPaid(ctx context.Context, id string, paid bool) error
	SetShipped(ctx context.Context, id string, shipped bool) (*Order, error)
	SetPubkey(ctx context.Context, invoiceID, pubkey string) error

	// Settle marks the order paid and decrements product stock for all its
	// details in one transaction. The paid flag doubles as the idempotency
	// guard: an already-paid order returns settled=false and nothing changes.
	// A detail that would drive a product's quantity negative leaves that
	// product's stock untouched.
	Settle(ctx context.Context, invoiceID string) (settled bool, err error)
}
