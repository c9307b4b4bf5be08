package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/diagonalley/diagonalley-backend/internal/modules/auth"
	"github.com/diagonalley/diagonalley-backend/internal/modules/lightning"
	"github.com/diagonalley/diagonalley-backend/internal/redisx"
)

// Service defines the order lifecycle business logic.
type Service interface {
	// CreateOrder requests an invoice from the payment engine and, only once
	// issuance succeeded, persists the order with all its line items.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderReceipt, error)

	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context, caller *auth.KeyInfo, allWallets bool) ([]*Order, error)
	DeleteOrder(ctx context.Context, caller *auth.KeyInfo, id string) error

	// MarkPaid force-sets the paid flag without touching stock.
	MarkPaid(ctx context.Context, caller *auth.KeyInfo, id string) error
	MarkShipped(ctx context.Context, caller *auth.KeyInfo, id string) (*Order, error)
	ShippedStatus(ctx context.Context, invoiceID string) (bool, error)

	// CheckPayment polls the payment engine for an invoice's settlement
	// state. Engine failures are reported as "not yet paid", never
	// propagated.
	CheckPayment(ctx context.Context, paymentHash string) (*lightning.PaymentStatus, error)

	// AttachPubkey stores the buyer's public key on the order behind the
	// given invoice.
	AttachPubkey(ctx context.Context, paymentHash, pubkey string) error

	// SettleInvoice marks the order behind the invoice paid and decrements
	// stock, atomically. Replays return settled=false without side effects.
	SettleInvoice(ctx context.Context, paymentHash string) (settled bool, err error)
}

type service struct {
	repo    Repository
	wallets auth.Repository
	gateway lightning.Gateway
	cache   *redis.Client
	log     *zap.Logger
}

// NewService creates an order service. cache may be nil; it only short-cuts
// settlement polls.
func NewService(repo Repository, wallets auth.Repository, gateway lightning.Gateway, cache *redis.Client, log *zap.Logger) Service {
	return &service{repo: repo, wallets: wallets, gateway: gateway, cache: cache, log: log}
}

func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderReceipt, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}
	if req.Total <= 0 {
		return nil, fmt.Errorf("total must be greater than 0")
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet_id: %w", err)
	}
	zoneID, err := uuid.Parse(req.ShippingZoneID)
	if err != nil {
		return nil, fmt.Errorf("invalid shipping_zone_id: %w", err)
	}

	details := make([]*OrderDetail, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be > 0 for product %s", item.ProductID)
		}
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		details = append(details, &OrderDetail{
			ID:        uuid.New(),
			ProductID: pid,
			Quantity:  item.Quantity,
		})
	}

	seller, err := s.wallets.GetWalletByID(ctx, req.WalletID)
	if err != nil {
		return nil, fmt.Errorf("seller wallet: %w", err)
	}

	// Invoice first. If issuance fails nothing is persisted.
	ref := orderReference()
	invoice, err := s.gateway.CreateInvoice(ctx, lightning.CreateInvoiceRequest{
		InvoiceKey: seller.InvoiceKey,
		AmountSat:  req.Total,
		Memo:       "New order on Diagon Alley",
		Extra: lightning.InvoiceExtra{
			Tag:       lightning.TagDiagonAlley,
			Reference: ref,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("invoice issuance failed: %w", err)
	}

	o := &Order{
		ID:             uuid.New(),
		WalletID:       walletID,
		ShippingZoneID: zoneID,
		Address:        req.Address,
		Email:          req.Email,
		Total:          req.Total,
		InvoiceID:      invoice.PaymentHash,
		Paid:           false,
		Shipped:        false,
		Details:        details,
	}
	for _, d := range details {
		d.OrderID = o.ID
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.log.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("payment_hash", invoice.PaymentHash),
		zap.Int("items", len(details)))

	return &OrderReceipt{
		PaymentHash:    invoice.PaymentHash,
		PaymentRequest: invoice.PaymentRequest,
		OrderReference: ref,
	}, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListOrders(ctx context.Context, caller *auth.KeyInfo, allWallets bool) ([]*Order, error) {
	walletIDs := []uuid.UUID{caller.Wallet.ID}
	if allWallets {
		wallets, err := s.wallets.ListWalletsByUser(ctx, caller.Wallet.UserID.String())
		if err != nil {
			return nil, err
		}
		walletIDs = walletIDs[:0]
		for _, w := range wallets {
			walletIDs = append(walletIDs, w.ID)
		}
	}
	return s.repo.ListByWallets(ctx, walletIDs)
}

func (s *service) DeleteOrder(ctx context.Context, caller *auth.KeyInfo, id string) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.WalletID != caller.Wallet.ID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) MarkPaid(ctx context.Context, caller *auth.KeyInfo, id string) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.WalletID != caller.Wallet.ID {
		return ErrNotOwner
	}
	return s.repo.SetPaid(ctx, id, true)
}

func (s *service) MarkShipped(ctx context.Context, caller *auth.KeyInfo, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.WalletID != caller.Wallet.ID {
		return nil, ErrNotOwner
	}
	return s.repo.SetShipped(ctx, id, true)
}

func (s *service) ShippedStatus(ctx context.Context, invoiceID string) (bool, error) {
	o, err := s.repo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return false, err
	}
	return o.Shipped, nil
}

func (s *service) CheckPayment(ctx context.Context, paymentHash string) (*lightning.PaymentStatus, error) {
	o, err := s.repo.GetByInvoiceID(ctx, paymentHash)
	if err != nil {
		return nil, err
	}
	if o.Paid {
		return &lightning.PaymentStatus{Paid: true}, nil
	}

	if s.cache != nil {
		if n, err := s.cache.Exists(ctx, redisx.InvoicePaidKey(paymentHash)).Result(); err == nil && n > 0 {
			return &lightning.PaymentStatus{Paid: true}, nil
		}
	}

	seller, err := s.wallets.GetWalletByID(ctx, o.WalletID.String())
	if err != nil {
		return nil, err
	}
	status, err := s.gateway.PaymentStatus(ctx, seller.InvoiceKey, paymentHash)
	if err != nil {
		s.log.Warn("settlement status poll failed",
			zap.String("payment_hash", paymentHash), zap.Error(err))
		return &lightning.PaymentStatus{Paid: false}, nil
	}
	if status.Paid && s.cache != nil {
		_ = s.cache.Set(ctx, redisx.InvoicePaidKey(paymentHash), "1", redisx.TTLInvoicePaid).Err()
	}
	return status, nil
}

func (s *service) AttachPubkey(ctx context.Context, paymentHash, pubkey string) error {
	return s.repo.SetPubkey(ctx, paymentHash, pubkey)
}

func (s *service) SettleInvoice(ctx context.Context, paymentHash string) (bool, error) {
	if _, err := s.repo.GetByInvoiceID(ctx, paymentHash); err != nil {
		return false, err
	}
	settled, err := s.repo.Settle(ctx, paymentHash)
	if err != nil {
		return false, err
	}
	if !settled {
		s.log.Info("invoice already settled, skipping",
			zap.String("payment_hash", paymentHash))
		return false, nil
	}
	s.log.Info("order settled",
		zap.String("payment_hash", paymentHash))
	return true, nil
}

// orderReference generates the random reference string handed back to the
// buyer and attached to the invoice.
func orderReference() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
