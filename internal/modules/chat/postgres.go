package chat

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Append(ctx context.Context, m *Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, room, sender, body) VALUES ($1,$2,$3,$4)`,
		m.ID, m.Room, m.Sender, m.Body)
	return err
}

func (r *postgresRepo) ListByRoom(ctx context.Context, room string) ([]*Message, error) {
	return r.query(ctx, `
		SELECT id, room, sender, body, created_at FROM chat_messages
		WHERE room=$1 ORDER BY created_at ASC`, room)
}

func (r *postgresRepo) LatestByRooms(ctx context.Context, rooms []string) ([]*Message, error) {
	return r.query(ctx, `
		SELECT DISTINCT ON (room) id, room, sender, body, created_at
		FROM chat_messages
		WHERE room = ANY($1)
		ORDER BY room, created_at DESC`, pq.Array(rooms))
}

func (r *postgresRepo) query(ctx context.Context, query string, args ...interface{}) ([]*Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var msgs []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(&m.ID, &m.Room, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
