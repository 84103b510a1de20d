package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pliu/moneygram/internal/middleware"
)

// Register mounts the JSON API on r. Routes that act on behalf of a user
// sit behind authn.
func Register(r *mux.Router, authn *middleware.Authenticator, auth *AuthHandler, chats *ChatHandler, admin *AdminHandler) {
	r.HandleFunc("/register", auth.Signup).Methods("POST")
	r.HandleFunc("/login", auth.Login).Methods("POST")
	r.HandleFunc("/logout", auth.Logout).Methods("POST")
	r.HandleFunc("/chats", chats.GetChats).Methods("GET")

	r.Handle("/session", authn.OptionalAuth(http.HandlerFunc(auth.Session))).Methods("GET")

	api := r.NewRoute().Subrouter()
	api.Use(authn.AuthMiddleware)
	api.HandleFunc("/profile", auth.UpdateProfile).Methods("PUT")
	api.HandleFunc("/chats/{id}/messages", chats.GetChatMessages).Methods("GET")
	api.HandleFunc("/chats/{id}/messages", chats.SendMessage).Methods("POST")
	api.HandleFunc("/chats/{id}/select", chats.SelectChat).Methods("POST")

	api.HandleFunc("/admin/users", admin.ListUsers).Methods("GET")
	api.HandleFunc("/admin/stats", admin.Stats).Methods("GET")
	api.HandleFunc("/admin/users/{id}/ban", admin.ToggleBan).Methods("POST")
	api.HandleFunc("/admin/users/{id}/freeze", admin.ToggleFreeze).Methods("POST")
	api.HandleFunc("/admin/users/{id}/role", admin.ToggleRole).Methods("POST")
	api.HandleFunc("/admin/chats/{id}/verified", admin.ToggleVerified).Methods("POST")
	api.HandleFunc("/admin/chats/{id}/scam", admin.ToggleScam).Methods("POST")
	api.HandleFunc("/admin/chats/{id}/boost", admin.BoostSubscribers).Methods("POST")
}
