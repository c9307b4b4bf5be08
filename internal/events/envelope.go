package events

import (
	"encoding/json"
	"time"
)

// Topic carrying settlement notifications from the lightning engine.
const TopicInvoicePaid = "lightning.invoice.paid"

const EventInvoicePaid = "InvoicePaid"

// Envelope is the wire format shared with the payment engine.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

// InvoicePaidPayload describes a settled invoice. Extra round-trips the
// metadata attached at issuance time; the tag identifies which extension the
// invoice belongs to.
type InvoicePaidPayload struct {
	PaymentHash string            `json:"payment_hash"`
	AmountSat   int64             `json:"amount_sat"`
	Extra       map[string]string `json:"extra,omitempty"`
}
