package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pliu/moneygram/internal/account"
	"github.com/pliu/moneygram/internal/chat"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps service errors onto HTTP status codes. Unknown errors are
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, account.ErrDuplicateUsername),
		errors.Is(err, account.ErrInvalidTransition),
		errors.Is(err, chat.ErrNoSubscribers):
		return http.StatusConflict
	case errors.Is(err, account.ErrInvalidCredentials),
		errors.Is(err, account.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, account.ErrAccountBanned),
		errors.Is(err, account.ErrAccountFrozen),
		errors.Is(err, account.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, account.ErrMissingFields),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrNoActiveChat),
		errors.Is(err, chat.ErrInvalidKind):
		return http.StatusBadRequest
	case errors.Is(err, account.ErrUserNotFound),
		errors.Is(err, chat.ErrChatNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
