package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/diagonalley/diagonalley-backend/internal/events"
	"github.com/diagonalley/diagonalley-backend/internal/modules/lightning"
)

type memDedup struct{ seen map[string]bool }

func (d *memDedup) Seen(ctx context.Context, id string) bool { return d.seen[id] }
func (d *memDedup) Mark(ctx context.Context, id string)      { d.seen[id] = true }

func paidEvent(t *testing.T, eventID, paymentHash, tag string) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(events.InvoicePaidPayload{
		PaymentHash: paymentHash,
		AmountSat:   3000,
		Extra:       map[string]string{"tag": tag, "reference": "ref"},
	})
	if err != nil {
		t.Fatal(err)
	}
	env, err := json.Marshal(events.Envelope{
		EventID:    eventID,
		EventType:  events.EventInvoicePaid,
		OccurredAt: time.Now().UTC(),
		Producer:   "lightning-engine",
		Payload:    payload,
	})
	if err != nil {
		t.Fatal(err)
	}
	return kafka.Message{Value: env}
}

func settlementFixture(t *testing.T) (*fakeRepo, *SettlementWorker, uuid.UUID) {
	t.Helper()
	repo := newFakeRepo()
	gw := &fakeGateway{
		createInvoice: func(ctx context.Context, req lightning.CreateInvoiceRequest) (*lightning.Invoice, error) {
			return &lightning.Invoice{PaymentHash: "hash-a", PaymentRequest: "lnbca"}, nil
		},
	}
	svc, wallet := newTestService(repo, gw)

	productID := uuid.New()
	repo.stock[productID] = 10
	if _, err := svc.CreateOrder(context.Background(), validRequest(wallet, productID, 3)); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	worker := NewSettlementWorker(svc, &memDedup{seen: map[string]bool{}}, zap.NewNop())
	return repo, worker, productID
}

func TestWorkerSettlesTaggedEvent(t *testing.T) {
	repo, worker, productID := settlementFixture(t)

	if err := worker.HandleInvoicePaid(context.Background(), paidEvent(t, "ev-1", "hash-a", lightning.TagDiagonAlley)); err != nil {
		t.Fatalf("HandleInvoicePaid: %v", err)
	}
	if !repo.byInvoice["hash-a"].Paid {
		t.Fatal("order must be paid after the event")
	}
	if repo.stock[productID] != 7 {
		t.Fatalf("stock = %d, want 7", repo.stock[productID])
	}
}

func TestWorkerIgnoresForeignTags(t *testing.T) {
	repo, worker, productID := settlementFixture(t)

	if err := worker.HandleInvoicePaid(context.Background(), paidEvent(t, "ev-2", "hash-a", "tpos")); err != nil {
		t.Fatalf("HandleInvoicePaid: %v", err)
	}
	if repo.byInvoice["hash-a"].Paid {
		t.Fatal("foreign tag must not settle the order")
	}
	if repo.stock[productID] != 10 {
		t.Fatalf("stock = %d, want 10", repo.stock[productID])
	}
}

func TestWorkerDropsUnknownOrder(t *testing.T) {
	_, worker, _ := settlementFixture(t)

	// Unknown orders are logged and dropped, never retried.
	if err := worker.HandleInvoicePaid(context.Background(), paidEvent(t, "ev-3", "no-such-hash", lightning.TagDiagonAlley)); err != nil {
		t.Fatalf("unknown order must not error the consumer, got %v", err)
	}
}

func TestWorkerDeduplicatesByEventID(t *testing.T) {
	repo, worker, productID := settlementFixture(t)
	msg := paidEvent(t, "ev-4", "hash-a", lightning.TagDiagonAlley)

	if err := worker.HandleInvoicePaid(context.Background(), msg); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := worker.HandleInvoicePaid(context.Background(), msg); err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if repo.stock[productID] != 7 {
		t.Fatalf("replayed event must not decrement twice, stock = %d", repo.stock[productID])
	}
}

func TestWorkerIgnoresUndecodableEvents(t *testing.T) {
	_, worker, _ := settlementFixture(t)
	if err := worker.HandleInvoicePaid(context.Background(), kafka.Message{Value: []byte("{broken")}); err != nil {
		t.Fatalf("garbage must be dropped, got %v", err)
	}
}
