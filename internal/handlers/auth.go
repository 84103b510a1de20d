package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pliu/moneygram/internal/account"
	"github.com/pliu/moneygram/internal/auth"
	"github.com/pliu/moneygram/internal/middleware"
	"github.com/pliu/moneygram/internal/models"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	AvatarColor string `json:"avatarColor"`
}

type ProfileRequest struct {
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	AvatarColor string `json:"avatarColor"`
}

type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type AuthHandler struct {
	Accounts *account.Service
	Cookies  *auth.CookieSigner
	Tokens   *auth.TokenIssuer
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Accounts.Register(r.Context(), account.Registration{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
		AvatarColor: req.AvatarColor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.startSession(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Accounts.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.startSession(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, user models.User) {
	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    h.Cookies.Sign(user.ID),
		Path:     "/",
		MaxAge:   int(h.Cookies.MaxAge().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, status, AuthResponse{User: user, Token: token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   middleware.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the persisted current user to that same user. Anyone else,
// including anonymous callers, gets 204.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.UserIDFromContext(r.Context())
	if actorID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	user, err := h.Accounts.Current(r.Context())
	if errors.Is(err, account.ErrNotAuthenticated) || (err == nil && user.ID != actorID) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Accounts.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), account.Profile{
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
		AvatarColor: req.AvatarColor,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
