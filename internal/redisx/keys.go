package redisx

import (
	"fmt"
	"time"
)

const (
	// Dedup of processed settlement events: dedup:settlement:{event_id}
	keyDedup = "dedup:settlement:%s"

	// Cache of settled invoice status: invoice_paid:{payment_hash} -> "1"
	keyInvoicePaid = "invoice_paid:%s"
)

var (
	TTLDedup       = 48 * time.Hour
	TTLInvoicePaid = 24 * time.Hour
)

func dedupKey(eventID string) string { return fmt.Sprintf(keyDedup, eventID) }

// InvoicePaidKey is used by the order service to cache positive settlement
// polls so repeated status checks skip the lightning gateway.
func InvoicePaidKey(paymentHash string) string {
	return fmt.Sprintf(keyInvoicePaid, paymentHash)
}
