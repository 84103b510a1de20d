package store_test

import (
	"context"
	"testing"

	"github.com/pliu/moneygram/internal/models"
	"github.com/pliu/moneygram/internal/store"
	"github.com/pliu/moneygram/internal/store/memstore"
)

func TestUsersDefaultEmpty(t *testing.T) {
	s := store.New(memstore.New())

	users, err := s.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("Expected empty non-nil users, got %#v", users)
	}
}

func TestSessionStripsPassword(t *testing.T) {
	ctx := context.Background()
	s := store.New(memstore.New())

	if got, _ := s.GetSession(ctx); got != nil {
		t.Fatalf("Expected no session, got %+v", got)
	}

	err := s.PutSession(ctx, models.User{ID: "1", Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("PutSession failed: %v", err)
	}

	got, err := s.GetSession(ctx)
	if err != nil || got == nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Password != "" {
		t.Error("Expected session to be stored without password")
	}
	if got.Username != "alice" {
		t.Errorf("Expected username 'alice', got '%s'", got.Username)
	}

	s.ClearSession(ctx)
	if got, _ := s.GetSession(ctx); got != nil {
		t.Error("Expected session to be cleared")
	}
}

func TestChatsFoundFlag(t *testing.T) {
	ctx := context.Background()
	s := store.New(memstore.New())

	if _, found, _ := s.GetChats(ctx); found {
		t.Fatal("Expected chats to be absent")
	}

	// An empty but persisted list is still "found"
	s.PutChats(ctx, []models.Chat{})
	if _, found, _ := s.GetChats(ctx); !found {
		t.Error("Expected persisted empty chats to be found")
	}
}

func TestMessagesKeyedByChat(t *testing.T) {
	ctx := context.Background()
	kv := memstore.New()
	s := store.New(kv)

	s.PutMessages(ctx, "7", []models.Message{{ID: "a", ChatID: "7", Text: "hi"}})

	if _, ok, _ := kv.Get(ctx, "messages_7"); !ok {
		t.Error("Expected messages under messages_7")
	}
	other, _ := s.GetMessages(ctx, "8")
	if len(other) != 0 {
		t.Errorf("Expected no messages for chat 8, got %d", len(other))
	}
}
