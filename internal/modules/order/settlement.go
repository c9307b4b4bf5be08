package order

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/diagonalley/diagonalley-backend/internal/events"
	"github.com/diagonalley/diagonalley-backend/internal/modules/lightning"
)

// Deduper is the settlement worker's replay fast path; the conditional paid
// flip in the repository stays authoritative.
type Deduper interface {
	Seen(ctx context.Context, id string) bool
	Mark(ctx context.Context, id string)
}

// SettlementWorker consumes invoice-paid events and drives the paid+stock
// step of the workflow.
type SettlementWorker struct {
	orders Service
	dedup  Deduper
	log    *zap.Logger
}

func NewSettlementWorker(orders Service, dedup Deduper, log *zap.Logger) *SettlementWorker {
	return &SettlementWorker{orders: orders, dedup: dedup, log: log}
}

// HandleInvoicePaid is wired as the kafka consumer handler. It returns nil
// for events that must not be retried (foreign tags, unknown orders,
// replays); only transient failures propagate.
func (w *SettlementWorker) HandleInvoicePaid(ctx context.Context, m kafka.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		w.log.Error("undecodable settlement event", zap.Error(err))
		return nil
	}
	if env.EventType != events.EventInvoicePaid {
		return nil
	}

	var p events.InvoicePaidPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		w.log.Error("undecodable settlement payload",
			zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}
	if p.Extra["tag"] != lightning.TagDiagonAlley {
		return nil
	}

	if w.dedup != nil && w.dedup.Seen(ctx, env.EventID) {
		return nil
	}

	_, err := w.orders.SettleInvoice(ctx, p.PaymentHash)
	if errors.Is(err, ErrNotFound) {
		// A paid invoice with our tag but no order should never happen.
		w.log.Error("no order for settled invoice",
			zap.String("payment_hash", p.PaymentHash),
			zap.String("event_id", env.EventID))
		return nil
	}
	if err != nil {
		return err
	}

	if w.dedup != nil {
		w.dedup.Mark(ctx, env.EventID)
	}
	return nil
}
