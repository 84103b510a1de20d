package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pliu/moneygram/internal/models"
)

func receive(t *testing.T, c *Client) (Event, bool) {
	t.Helper()
	select {
	case payload, ok := <-c.send:
		if !ok {
			return Event{}, false
		}
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("Failed to decode event: %v", err)
		}
		return ev, true
	case <-time.After(100 * time.Millisecond):
		return Event{}, false
	}
}

func TestHubRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	all := &Client{hub: hub, send: make(chan []byte, 8), userID: "u1"}
	watcher := &Client{hub: hub, send: make(chan []byte, 8), userID: "u2"}
	hub.join(all)
	hub.join(watcher)
	hub.watchChat(watcher, "2")

	hub.Publish(models.Message{ID: "m1", ChatID: "1", SenderID: "u1", Text: "Hello World"})

	ev, ok := receive(t, all)
	if !ok {
		t.Fatal("Expected client without a selection to receive the message")
	}
	if ev.Type != "message" || ev.Message.Text != "Hello World" {
		t.Errorf("Unexpected event: %+v", ev)
	}

	if _, ok := receive(t, watcher); ok {
		t.Error("Expected client watching chat 2 not to receive chat 1 messages")
	}
}

func TestHubSendNotification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	target := &Client{hub: hub, send: make(chan []byte, 8), userID: "u1"}
	other := &Client{hub: hub, send: make(chan []byte, 8), userID: "u2"}
	hub.join(target)
	hub.join(other)

	user := models.User{ID: "u1", Status: models.StatusBanned}
	hub.SendNotification("u1", Event{Type: "account", User: &user})

	ev, ok := receive(t, target)
	if !ok || ev.Type != "account" || ev.User.Status != models.StatusBanned {
		t.Errorf("Expected account event for u1, got %+v (ok=%v)", ev, ok)
	}
	if _, ok := receive(t, other); ok {
		t.Error("Expected notification to reach only u1")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 1), userID: "u1"}
	hub.join(c)
	hub.leave(c)

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("Expected send channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timed out waiting for send channel to close")
	}
}

func TestHubShutdownReleasesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub()
	go hub.Run(ctx)

	c := &Client{hub: hub, send: make(chan []byte, 1), userID: "u1"}
	if !hub.join(c) {
		t.Fatal("Expected join to succeed while the hub is running")
	}

	cancel()
	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for the hub to stop")
	}
	if _, ok := <-c.send; ok {
		t.Error("Expected shutdown to close the client send channel")
	}

	finished := make(chan bool)
	go func() {
		hub.leave(c)
		hub.watchChat(c, "1")
		finished <- hub.join(&Client{hub: hub, send: make(chan []byte, 1)})
	}()

	select {
	case joined := <-finished:
		if joined {
			t.Error("Expected join to be refused after shutdown")
		}
	case <-time.After(time.Second):
		t.Error("Client requests blocked after hub shutdown")
	}
}
