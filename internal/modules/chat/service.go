package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines chat business logic.
type Service interface {
	PostMessage(ctx context.Context, room string, req PostMessageRequest) (*Message, error)

	// RoomMessages returns either the full history or only the latest
	// message of one room.
	RoomMessages(ctx context.Context, room string, allMessages bool) ([]*Message, error)

	// MerchantInbox returns the latest message per order room for the given
	// set of rooms.
	MerchantInbox(ctx context.Context, rooms []string) ([]*Message, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) PostMessage(ctx context.Context, room string, req PostMessageRequest) (*Message, error) {
	if room == "" {
		return nil, ErrRoomRequired
	}
	if req.Body == "" {
		return nil, fmt.Errorf("message body is required")
	}
	m := &Message{
		ID:     uuid.New(),
		Room:   room,
		Sender: req.Sender,
		Body:   req.Body,
	}
	if err := s.repo.Append(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) RoomMessages(ctx context.Context, room string, allMessages bool) ([]*Message, error) {
	if room == "" {
		return nil, ErrRoomRequired
	}
	if allMessages {
		return s.repo.ListByRoom(ctx, room)
	}
	return s.repo.LatestByRooms(ctx, []string{room})
}

func (s *service) MerchantInbox(ctx context.Context, rooms []string) ([]*Message, error) {
	if len(rooms) == 0 {
		return []*Message{}, nil
	}
	return s.repo.LatestByRooms(ctx, rooms)
}
