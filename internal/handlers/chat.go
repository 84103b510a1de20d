package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pliu/moneygram/internal/chat"
	"github.com/pliu/moneygram/internal/middleware"
	"github.com/pliu/moneygram/internal/models"
)

type ChatHandler struct {
	Chats *chat.Service
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	chats, err := h.Chats.ListChats(r.Context(), query.Get("q"), models.ChatType(query.Get("type")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Chats.Messages(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// SelectChat makes the chat the caller's active thread and returns it.
func (h *ChatHandler) SelectChat(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Chats.SelectChat(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	msg, err := h.Chats.SendMessage(r.Context(), mux.Vars(r)["id"], middleware.UserIDFromContext(r.Context()), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
