package auth

import "context"

// Repository resolves API keys to wallets. Wallet provisioning itself belongs
// to the host framework; this extension only reads.
type Repository interface {
	GetWalletByAdminKey(ctx context.Context, key string) (*Wallet, error)
	GetWalletByInvoiceKey(ctx context.Context, key string) (*Wallet, error)
	GetWalletByID(ctx context.Context, id string) (*Wallet, error)

	// ListWalletsByUser returns every wallet under one user account, used by
	// the all_wallets/all_stalls widening flags.
	ListWalletsByUser(ctx context.Context, userID string) ([]*Wallet, error)
}
