package lightning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway is the invoice engine interface every payment backend must
// implement. The production implementation talks to the host wallet API;
// tests substitute their own.
type Gateway interface {
	// CreateInvoice requests a new invoice and returns its settlement key and
	// payment request.
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	// PaymentStatus queries the engine for the current settlement state of an
	// invoice.
	PaymentStatus(ctx context.Context, invoiceKey, paymentHash string) (*PaymentStatus, error)
}

type hostGateway struct {
	baseURL string
	client  *http.Client
}

// NewHostGateway returns a Gateway backed by the host wallet's payment API.
func NewHostGateway(baseURL string) Gateway {
	return &hostGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *hostGateway) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	body, err := json.Marshal(map[string]interface{}{
		"out":    false,
		"amount": req.AmountSat,
		"memo":   req.Memo,
		"extra":  req.Extra,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", req.InvoiceKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("invoice issuance: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invoice issuance: engine returned %d", resp.StatusCode)
	}

	var inv Invoice
	if err := json.NewDecoder(resp.Body).Decode(&inv); err != nil {
		return nil, fmt.Errorf("invoice issuance: decode response: %w", err)
	}
	return &inv, nil
}

func (g *hostGateway) PaymentStatus(ctx context.Context, invoiceKey, paymentHash string) (*PaymentStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/api/v1/payments/"+paymentHash, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("X-Api-Key", invoiceKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("settlement status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("settlement status: engine returned %d", resp.StatusCode)
	}

	var status PaymentStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("settlement status: decode response: %w", err)
	}
	return &status, nil
}
