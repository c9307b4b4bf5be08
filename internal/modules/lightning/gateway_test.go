package lightning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateInvoice(t *testing.T) {
	var gotKey string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/payments" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("X-Api-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Invoice{
			PaymentHash:    "abc123",
			PaymentRequest: "lnbc50n1...",
		})
	}))
	defer srv.Close()

	g := NewHostGateway(srv.URL)
	inv, err := g.CreateInvoice(context.Background(), CreateInvoiceRequest{
		InvoiceKey: "ik-1",
		AmountSat:  5000,
		Memo:       "From Diagon Alley",
		Extra:      InvoiceExtra{Tag: TagDiagonAlley, Reference: "ref-1"},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.PaymentHash != "abc123" || inv.PaymentRequest != "lnbc50n1..." {
		t.Fatalf("unexpected invoice: %+v", inv)
	}

	if gotKey != "ik-1" {
		t.Fatalf("X-Api-Key = %q, want ik-1", gotKey)
	}
	if out, ok := gotBody["out"].(bool); !ok || out {
		t.Fatalf("out = %v, want false", gotBody["out"])
	}
	if amt, _ := gotBody["amount"].(float64); amt != 5000 {
		t.Fatalf("amount = %v, want 5000", gotBody["amount"])
	}
	extra, _ := gotBody["extra"].(map[string]interface{})
	if extra["tag"] != TagDiagonAlley || extra["reference"] != "ref-1" {
		t.Fatalf("extra = %v", gotBody["extra"])
	}
}

func TestCreateInvoiceEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "wallet not found", http.StatusForbidden)
	}))
	defer srv.Close()

	g := NewHostGateway(srv.URL)
	if _, err := g.CreateInvoice(context.Background(), CreateInvoiceRequest{InvoiceKey: "ik", AmountSat: 1}); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestPaymentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/payments/hash99" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "ik-2" {
			t.Errorf("X-Api-Key = %q", r.Header.Get("X-Api-Key"))
		}
		json.NewEncoder(w).Encode(PaymentStatus{Paid: true, Preimage: "feed"})
	}))
	defer srv.Close()

	g := NewHostGateway(srv.URL)
	status, err := g.PaymentStatus(context.Background(), "ik-2", "hash99")
	if err != nil {
		t.Fatalf("PaymentStatus: %v", err)
	}
	if !status.Paid || status.Preimage != "feed" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestPaymentStatusEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	g := NewHostGateway(srv.URL)
	if _, err := g.PaymentStatus(context.Background(), "ik", "nope"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
