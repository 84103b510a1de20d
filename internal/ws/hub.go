package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pliu/moneygram/internal/models"
)

// Event is the frame pushed to websocket clients.
type Event struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message,omitempty"`
	User    *models.User    `json:"user,omitempty"`
}

type watchRequest struct {
	client *Client
	chatID string
}

type directMessage struct {
	userID string
	event  Event
}

type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Appended chat messages to fan out.
	broadcast chan models.Message

	// Events addressed to a single user.
	direct chan directMessage

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Chat selection changes from clients.
	watch chan watchRequest

	// Closed when Run returns.
	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan models.Message, 64),
		direct:     make(chan directMessage, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		watch:      make(chan watchRequest),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case req := <-h.watch:
			if _, ok := h.clients[req.client]; ok {
				req.client.chatID = req.chatID
			}
		case message := <-h.broadcast:
			msg := message
			payload, err := json.Marshal(Event{Type: "message", Message: &msg})
			if err != nil {
				log.Printf("Error encoding message: %v", err)
				continue
			}
			for client := range h.clients {
				if client.chatID != "" && client.chatID != message.ChatID {
					continue
				}
				h.deliver(client, payload)
			}
		case dm := <-h.direct:
			payload, err := json.Marshal(dm.event)
			if err != nil {
				log.Printf("Error encoding event: %v", err)
				continue
			}
			for client := range h.clients {
				if client.userID == dm.userID {
					h.deliver(client, payload)
				}
			}
		}
	}
}

// join, leave and watchChat hand a client request to Run. They report false
// once the hub has shut down instead of blocking.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) watchChat(c *Client, chatID string) {
	select {
	case h.watch <- watchRequest{client: c, chatID: chatID}:
	case <-h.done:
	}
}

func (h *Hub) deliver(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		close(client.send)
		delete(h.clients, client)
	}
}

// Publish queues an appended message for every client watching its chat.
// It never blocks the caller; when the queue is full the event is dropped.
func (h *Hub) Publish(msg models.Message) {
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("Dropping push for message %s: hub queue full", msg.ID)
	}
}

// SendNotification pushes an event to every connection of userID.
func (h *Hub) SendNotification(userID string, event Event) {
	select {
	case h.direct <- directMessage{userID: userID, event: event}:
	default:
		log.Printf("Dropping notification for user %s: hub queue full", userID)
	}
}
