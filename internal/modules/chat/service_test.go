package chat

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	messages []*Message
	now      time.Time
}

func (f *fakeRepo) Append(_ context.Context, m *Message) error {
	f.now = f.now.Add(time.Second)
	m.CreatedAt = f.now
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeRepo) ListByRoom(_ context.Context, room string) ([]*Message, error) {
	var out []*Message
	for _, m := range f.messages {
		if m.Room == room {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) LatestByRooms(_ context.Context, rooms []string) ([]*Message, error) {
	latest := map[string]*Message{}
	for _, m := range f.messages {
		cur, ok := latest[m.Room]
		if !ok || m.CreatedAt.After(cur.CreatedAt) {
			latest[m.Room] = m
		}
	}
	var out []*Message
	for _, room := range rooms {
		if m, ok := latest[room]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func seed(t *testing.T, svc Service, room, sender, body string) {
	t.Helper()
	if _, err := svc.PostMessage(context.Background(), room, PostMessageRequest{Sender: sender, Body: body}); err != nil {
		t.Fatalf("PostMessage(%s): %v", room, err)
	}
}

func TestPostMessage(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	m, err := svc.PostMessage(context.Background(), "room-a", PostMessageRequest{Sender: "buyer", Body: "hello"})
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if m.ID.String() == "" || m.Room != "room-a" || m.Body != "hello" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if len(repo.messages) != 1 {
		t.Fatalf("stored %d messages, want 1", len(repo.messages))
	}
}

func TestPostMessageValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})

	if _, err := svc.PostMessage(context.Background(), "", PostMessageRequest{Body: "hi"}); !errors.Is(err, ErrRoomRequired) {
		t.Fatalf("err = %v, want ErrRoomRequired", err)
	}
	if _, err := svc.PostMessage(context.Background(), "room-a", PostMessageRequest{}); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestRoomMessages(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	seed(t, svc, "room-a", "buyer", "first")
	seed(t, svc, "room-a", "seller", "second")
	seed(t, svc, "room-b", "buyer", "elsewhere")

	all, err := svc.RoomMessages(context.Background(), "room-a", true)
	if err != nil {
		t.Fatalf("RoomMessages: %v", err)
	}
	if len(all) != 2 || all[0].Body != "first" || all[1].Body != "second" {
		t.Fatalf("unexpected history: %+v", all)
	}

	latest, err := svc.RoomMessages(context.Background(), "room-a", false)
	if err != nil {
		t.Fatalf("RoomMessages latest: %v", err)
	}
	if len(latest) != 1 || latest[0].Body != "second" {
		t.Fatalf("unexpected latest: %+v", latest)
	}

	if _, err := svc.RoomMessages(context.Background(), "", true); !errors.Is(err, ErrRoomRequired) {
		t.Fatalf("err = %v, want ErrRoomRequired", err)
	}
}

func TestMerchantInbox(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	seed(t, svc, "order-1", "buyer", "old")
	seed(t, svc, "order-1", "buyer", "newest in 1")
	seed(t, svc, "order-2", "buyer", "only in 2")

	inbox, err := svc.MerchantInbox(context.Background(), []string{"order-1", "order-2", "order-3"})
	if err != nil {
		t.Fatalf("MerchantInbox: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("inbox size = %d, want 2", len(inbox))
	}
	if inbox[0].Body != "newest in 1" || inbox[1].Body != "only in 2" {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}
}

func TestMerchantInboxEmptyRooms(t *testing.T) {
	svc := NewService(&fakeRepo{})
	inbox, err := svc.MerchantInbox(context.Background(), nil)
	if err != nil {
		t.Fatalf("MerchantInbox: %v", err)
	}
	if len(inbox) != 0 {
		t.Fatalf("expected empty inbox, got %+v", inbox)
	}
}
