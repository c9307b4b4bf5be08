package chat

import "context"

// Repository defines chat message storage. Append-only: no update or delete.
type Repository interface {
	Append(ctx context.Context, m *Message) error

	// ListByRoom returns a room's full history, oldest first.
	ListByRoom(ctx context.Context, room string) ([]*Message, error)

	// LatestByRooms returns at most one message per room, the most recent,
	// for the merchant inbox summary.
	LatestByRooms(ctx context.Context, rooms []string) ([]*Message, error)
}
