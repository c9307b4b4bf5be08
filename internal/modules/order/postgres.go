package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, wallet_id, shipping_zone_id, address, email, total, invoice_id, pubkey, paid, shipped, created_at`

func (r *postgresRepo) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, wallet_id, shipping_zone_id, address, email, total, invoice_id, pubkey, paid, shipped)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, o.WalletID, o.ShippingZoneID, o.Address, o.Email,
		o.Total, o.InvoiceID, o.Pubkey, o.Paid, o.Shipped)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, d := range o.Details {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_details (id, order_id, product_id, quantity)
			VALUES ($1,$2,$3,$4)`,
			d.ID, o.ID, d.ProductID, d.Quantity)
		if err != nil {
			return fmt.Errorf("insert order_detail: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	o, err := r.scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid))
	if err != nil {
		return nil, err
	}
	o.Details, err = r.listDetails(ctx, []uuid.UUID{o.ID})
	return o, err
}

func (r *postgresRepo) GetByInvoiceID(ctx context.Context, invoiceID string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE invoice_id=$1`, invoiceID))
	if err != nil {
		return nil, err
	}
	o.Details, err = r.listDetails(ctx, []uuid.UUID{o.ID})
	return o, err
}

func (r *postgresRepo) ListByWallets(ctx context.Context, walletIDs []uuid.UUID) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE wallet_id = ANY($1::uuid[]) ORDER BY created_at DESC`,
		pq.Array(uuidStrings(walletIDs)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	byID := map[uuid.UUID]*Order{}
	for rows.Next() {
		o := &Order{}
		if err := rows.Scan(&o.ID, &o.WalletID, &o.ShippingZoneID, &o.Address, &o.Email,
			&o.Total, &o.InvoiceID, &o.Pubkey, &o.Paid, &o.Shipped, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Details = []*OrderDetail{}
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []*Order{}, nil
	}

	orderIDs := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	details, err := r.listDetails(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		if o, ok := byID[d.OrderID]; ok {
			o.Details = append(o.Details, d)
		}
	}
	return orders, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_details WHERE order_id=$1`, uid); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *postgresRepo) SetPaid(ctx context.Context, id string, paid bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET paid=$1 WHERE id=$2`, paid, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetShipped(ctx context.Context, id string, shipped bool) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET shipped=$1 WHERE id=$2`, shipped, uid)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) SetPubkey(ctx context.Context, invoiceID, pubkey string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET pubkey=$1 WHERE invoice_id=$2`, pubkey, invoiceID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Settle is the paid+stock step of the settlement workflow, in a single
// transaction. The conditional paid flip keeps replays from decrementing
// stock twice; the per-row CASE keeps concurrent settlements of different
// orders from racing a read-modify-write pair.
func (r *postgresRepo) Settle(ctx context.Context, invoiceID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var orderID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		UPDATE orders SET paid=true
		WHERE invoice_id=$1 AND paid=false
		RETURNING id`, invoiceID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT product_id, quantity FROM order_details WHERE order_id=$1`, orderID)
	if err != nil {
		return false, err
	}
	type deduction struct {
		productID uuid.UUID
		qty       int
	}
	var deductions []deduction
	for rows.Next() {
		var d deduction
		if err := rows.Scan(&d.productID, &d.qty); err != nil {
			rows.Close()
			return false, err
		}
		deductions = append(deductions, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, err
	}

	if len(deductions) > 0 {
		var cases, guards strings.Builder
		ids := make([]string, 0, len(deductions))
		args := make([]interface{}, 0, len(deductions)*2)
		n := 1
		for _, d := range deductions {
			fmt.Fprintf(&cases, " WHEN $%d::uuid THEN quantity - $%d", n, n+1)
			fmt.Fprintf(&guards, " WHEN $%d::uuid THEN $%d", n, n+1)
			ids = append(ids, fmt.Sprintf("$%d::uuid", n))
			args = append(args, d.productID, d.qty)
			n += 2
		}
		// The guard skips rows an oversold order would drive negative;
		// quantity never drops below zero.
		query := fmt.Sprintf(`
			UPDATE products
			SET quantity = (CASE id%s END), updated_at = NOW()
			WHERE id IN (%s) AND quantity >= (CASE id%s END)`,
			cases.String(), strings.Join(ids, ","), guards.String())
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("decrement stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// ---- helpers ----

func (r *postgresRepo) scanOrder(row *sql.Row) (*Order, error) {
	o := &Order{}
	err := row.Scan(&o.ID, &o.WalletID, &o.ShippingZoneID, &o.Address, &o.Email,
		&o.Total, &o.InvoiceID, &o.Pubkey, &o.Paid, &o.Shipped, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) listDetails(ctx context.Context, orderIDs []uuid.UUID) ([]*OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity FROM order_details
		WHERE order_id = ANY($1::uuid[])`,
		pq.Array(uuidStrings(orderIDs)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var details []*OrderDetail
	for rows.Next() {
		d := &OrderDetail{}
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
