package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ---- Products ----

type productPostgres struct{ db *sql.DB }

func NewProductPostgresRepository(db *sql.DB) ProductRepository { return &productPostgres{db: db} }

const productColumns = `id, stall_id, name, categories, description, image, price, quantity, created_at, updated_at`

func (r *productPostgres) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, stall_id, name, categories, description, image, price, quantity)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.StallID, p.Name, pq.Array(p.Categories),
		p.Description, p.Image, p.Price, p.Quantity)
	return err
}

func (r *productPostgres) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	p := &Product{}
	err = r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, uid).
		Scan(&p.ID, &p.StallID, &p.Name, pq.Array(&p.Categories),
			&p.Description, &p.Image, &p.Price, &p.Quantity,
			&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productPostgres) ListByStalls(ctx context.Context, stallIDs []uuid.UUID) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE stall_id = ANY($1::uuid[]) ORDER BY created_at DESC`,
		pq.Array(uuidStrings(stallIDs)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.StallID, &p.Name, pq.Array(&p.Categories),
			&p.Description, &p.Image, &p.Price, &p.Quantity,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productPostgres) Update(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, categories=$2, description=$3, image=$4, price=$5, quantity=$6, updated_at=NOW()
		WHERE id=$7`,
		p.Name, pq.Array(p.Categories), p.Description, p.Image, p.Price, p.Quantity, p.ID)
	return err
}

func (r *productPostgres) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrProductNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ---- Stalls ----

type stallPostgres struct{ db *sql.DB }

func NewStallPostgresRepository(db *sql.DB) StallRepository { return &stallPostgres{db: db} }

const stallColumns = `id, wallet_id, name, publickey, privatekey, relays, shippingzones, created_at, updated_at`

func (r *stallPostgres) Create(ctx context.Context, s *Stall) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stalls (id, wallet_id, name, publickey, privatekey, relays, shippingzones)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.WalletID, s.Name, s.PublicKey, s.PrivateKey,
		pq.Array(s.Relays), pq.Array(s.ShippingZones))
	return err
}

func (r *stallPostgres) GetByID(ctx context.Context, id string) (*Stall, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrStallNotFound
	}
	s := &Stall{}
	err = r.db.QueryRowContext(ctx,
		`SELECT `+stallColumns+` FROM stalls WHERE id=$1`, uid).
		Scan(&s.ID, &s.WalletID, &s.Name, &s.PublicKey, &s.PrivateKey,
			pq.Array(&s.Relays), pq.Array(&s.ShippingZones),
			&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStallNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *stallPostgres) ListByWallets(ctx context.Context, walletIDs []uuid.UUID) ([]*Stall, error) {
	return r.list(ctx, `
		SELECT `+stallColumns+` FROM stalls
		WHERE wallet_id = ANY($1::uuid[]) ORDER BY created_at DESC`,
		pq.Array(uuidStrings(walletIDs)))
}

func (r *stallPostgres) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Stall, error) {
	return r.list(ctx, `
		SELECT `+stallColumns+` FROM stalls
		WHERE id = ANY($1::uuid[]) ORDER BY created_at DESC`,
		pq.Array(uuidStrings(ids)))
}

func (r *stallPostgres) list(ctx context.Context, query string, args ...interface{}) ([]*Stall, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stalls []*Stall
	for rows.Next() {
		s := &Stall{}
		if err := rows.Scan(&s.ID, &s.WalletID, &s.Name, &s.PublicKey, &s.PrivateKey,
			pq.Array(&s.Relays), pq.Array(&s.ShippingZones),
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stalls = append(stalls, s)
	}
	return stalls, rows.Err()
}

func (r *stallPostgres) Update(ctx context.Context, s *Stall) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE stalls
		SET name=$1, publickey=$2, privatekey=$3, relays=$4, shippingzones=$5, updated_at=NOW()
		WHERE id=$6`,
		s.Name, s.PublicKey, s.PrivateKey,
		pq.Array(s.Relays), pq.Array(s.ShippingZones), s.ID)
	return err
}

func (r *stallPostgres) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrStallNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM stalls WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStallNotFound
	}
	return nil
}

// ---- Zones ----

type zonePostgres struct{ db *sql.DB }

func NewZonePostgresRepository(db *sql.DB) ZoneRepository { return &zonePostgres{db: db} }

const zoneColumns = `id, user_id, cost, countries, created_at, updated_at`

func (r *zonePostgres) Create(ctx context.Context, z *Zone) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO zones (id, user_id, cost, countries) VALUES ($1,$2,$3,$4)`,
		z.ID, z.UserID, z.Cost, pq.Array(z.Countries))
	return err
}

func (r *zonePostgres) GetByID(ctx context.Context, id string) (*Zone, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrZoneNotFound
	}
	z := &Zone{}
	err = r.db.QueryRowContext(ctx,
		`SELECT `+zoneColumns+` FROM zones WHERE id=$1`, uid).
		Scan(&z.ID, &z.UserID, &z.Cost, pq.Array(&z.Countries),
			&z.CreatedAt, &z.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrZoneNotFound
	}
	if err != nil {
		return nil, err
	}
	return z, nil
}

func (r *zonePostgres) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Zone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+zoneColumns+` FROM zones WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var zones []*Zone
	for rows.Next() {
		z := &Zone{}
		if err := rows.Scan(&z.ID, &z.UserID, &z.Cost, pq.Array(&z.Countries),
			&z.CreatedAt, &z.UpdatedAt); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (r *zonePostgres) Update(ctx context.Context, z *Zone) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE zones SET cost=$1, countries=$2, updated_at=NOW() WHERE id=$3`,
		z.Cost, pq.Array(z.Countries), z.ID)
	return err
}

func (r *zonePostgres) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrZoneNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM zones WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrZoneNotFound
	}
	return nil
}

// ---- helpers ----

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
