package market

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, m *Market, stallIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO markets (id, user_id, name) VALUES ($1,$2,$3)`,
		m.ID, m.UserID, m.Name)
	if err != nil {
		return fmt.Errorf("insert market: %w", err)
	}

	for _, stallID := range stallIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO market_stalls (id, market_id, stall_id) VALUES ($1,$2,$3)`,
			uuid.New(), m.ID, stallID)
		if err != nil {
			return fmt.Errorf("insert market_stall: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Market, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m := &Market{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at FROM markets WHERE id=$1`, uid).
		Scan(&m.ID, &m.UserID, &m.Name, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Market, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at FROM markets WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var markets []*Market
	for rows.Next() {
		m := &Market{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

func (r *postgresRepo) ListStallIDs(ctx context.Context, marketID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT stall_id FROM market_stalls WHERE market_id=$1`, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
