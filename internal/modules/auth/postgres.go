package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const walletColumns = `id, user_id, name, admin_key, invoice_key, created_at`

func (r *postgresRepo) GetWalletByAdminKey(ctx context.Context, key string) (*Wallet, error) {
	return r.getWallet(ctx, `SELECT `+walletColumns+` FROM wallets WHERE admin_key=$1`, key)
}

func (r *postgresRepo) GetWalletByInvoiceKey(ctx context.Context, key string) (*Wallet, error) {
	return r.getWallet(ctx, `SELECT `+walletColumns+` FROM wallets WHERE invoice_key=$1`, key)
}

func (r *postgresRepo) GetWalletByID(ctx context.Context, id string) (*Wallet, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return r.getWallet(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id=$1`, uid)
}

func (r *postgresRepo) ListWalletsByUser(ctx context.Context, userID string) ([]*Wallet, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id=$1 ORDER BY created_at ASC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var wallets []*Wallet
	for rows.Next() {
		w := &Wallet{}
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.AdminKey, &w.InvoiceKey, &w.CreatedAt); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *postgresRepo) getWallet(ctx context.Context, query string, arg interface{}) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&w.ID, &w.UserID, &w.Name, &w.AdminKey, &w.InvoiceKey, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidKey
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}
