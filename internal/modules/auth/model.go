package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Wallet is a receiving wallet provisioned by the host framework. The two API
// keys carry different privileges: the admin key may mutate and delete, the
// invoice key may create invoices and read.
type Wallet struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	AdminKey   string    `json:"-"`
	InvoiceKey string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// KeyScope is the privilege level granted by the presented API key.
type KeyScope int

const (
	// ScopeInvoice covers reads and invoice-key operations.
	ScopeInvoice KeyScope = iota
	// ScopeAdmin covers mutation and deletion.
	ScopeAdmin
)

// KeyInfo is the resolved caller identity stored in the request context.
type KeyInfo struct {
	Wallet *Wallet
	Scope  KeyScope
}

var ErrInvalidKey = errors.New("invalid api key")
