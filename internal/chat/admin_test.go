package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/pliu/moneygram/internal/models"
)

func TestBoostSubscribers(t *testing.T) {
	svc, st := newTestService(Options{})
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		st.PutChats(ctx, defaultChats())
		chat, err := svc.BoostSubscribers(ctx, "root", "3")
		if err != nil {
			t.Fatalf("BoostSubscribers failed: %v", err)
		}
		if n := *chat.Subscribers; n < 623 || n > 1122 {
			t.Fatalf("Expected subscribers in [623, 1122], got %d", n)
		}
	}

	chats, _, _ := st.GetChats(ctx)
	if *chats[2].Subscribers < 623 {
		t.Error("Expected boosted count to be persisted")
	}
}

func TestBoostSubscribersWithoutCount(t *testing.T) {
	svc, st := newTestService(Options{})
	ctx := context.Background()

	if _, err := svc.BoostSubscribers(ctx, "root", "1"); !errors.Is(err, ErrNoSubscribers) {
		t.Errorf("Expected ErrNoSubscribers for a direct chat, got %v", err)
	}

	st.PutChats(ctx, []models.Chat{{ID: "9", Name: "Fresh", Type: models.ChatTypeChannel}})
	chat, err := svc.BoostSubscribers(ctx, "root", "9")
	if err != nil {
		t.Fatalf("BoostSubscribers failed: %v", err)
	}
	if n := *chat.Subscribers; n < 100 || n > 599 {
		t.Errorf("Expected a channel without a count to start from 0, got %d", n)
	}
}

func TestToggleFlags(t *testing.T) {
	svc, st := newTestService(Options{})
	ctx := context.Background()

	chat, err := svc.ToggleVerified(ctx, "root", "1")
	if err != nil || chat.Verified {
		t.Fatalf("Expected verified to flip off, got %v (%v)", chat.Verified, err)
	}
	chat, _ = svc.ToggleScam(ctx, "root", "1")
	if !chat.Scam {
		t.Error("Expected scam flag to be set")
	}

	chats, _, _ := st.GetChats(ctx)
	if chats[0].Verified || !chats[0].Scam {
		t.Errorf("Expected toggles to be persisted, got %+v", chats[0])
	}
}

func TestChatAdminRequiresRole(t *testing.T) {
	svc, st := newTestService(Options{})
	ctx := context.Background()

	if _, err := svc.ToggleScam(ctx, "alice", "2"); !errors.Is(err, errDenied) {
		t.Errorf("Expected authorizer error, got %v", err)
	}
	if _, err := svc.ToggleScam(ctx, "root", "42"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("Expected ErrChatNotFound, got %v", err)
	}

	chats, _, _ := st.GetChats(ctx)
	if chats[1].Scam {
		t.Error("Expected chat to be unchanged")
	}
}
