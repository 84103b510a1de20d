package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pliu/moneygram/internal/account"
	"github.com/pliu/moneygram/internal/chat"
	"github.com/pliu/moneygram/internal/middleware"
	"github.com/pliu/moneygram/internal/models"
	"github.com/pliu/moneygram/internal/ws"
)

type AdminHandler struct {
	Accounts *account.Service
	Chats    *chat.Service
	// Hub is optional; when set, users are told about changes to their account.
	Hub *ws.Hub
}

type Stats struct {
	Users   int `json:"users"`
	Chats   int `json:"chats"`
	Threads int `json:"threads"`
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Accounts.ListUsers(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := h.Accounts.ListUsers(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	chats, err := h.Chats.ListChats(ctx, "", "")
	if err != nil {
		writeError(w, err)
		return
	}
	threads, err := h.Chats.ThreadCount(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Stats{Users: len(users), Chats: len(chats), Threads: threads})
}

func (h *AdminHandler) ToggleBan(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.Accounts.ToggleBan)
}

func (h *AdminHandler) ToggleFreeze(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.Accounts.ToggleFreeze)
}

func (h *AdminHandler) ToggleRole(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.Accounts.ToggleAdminRole)
}

func (h *AdminHandler) ToggleVerified(w http.ResponseWriter, r *http.Request) {
	h.chatAction(w, r, h.Chats.ToggleVerified)
}

func (h *AdminHandler) ToggleScam(w http.ResponseWriter, r *http.Request) {
	h.chatAction(w, r, h.Chats.ToggleScam)
}

func (h *AdminHandler) BoostSubscribers(w http.ResponseWriter, r *http.Request) {
	h.chatAction(w, r, h.Chats.BoostSubscribers)
}

func (h *AdminHandler) userAction(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, userID string) (models.User, error)) {
	user, err := op(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Hub != nil {
		h.Hub.SendNotification(user.ID, ws.Event{Type: "account", User: &user})
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) chatAction(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, chatID string) (models.Chat, error)) {
	c, err := op(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
