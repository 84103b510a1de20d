package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pliu/moneygram/internal/auth"
)

type contextKey string

const UserIDKey contextKey = "user_id"

const CookieName = "user_id"

// Authenticator resolves the acting user from a signed cookie or a bearer token.
type Authenticator struct {
	Cookies *auth.CookieSigner
	Tokens  *auth.TokenIssuer
}

func (a *Authenticator) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.identify(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the acting user when the request carries valid
// credentials and passes anonymous requests through unchanged.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := a.identify(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) identify(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") && a.Tokens != nil {
		userID, err := a.Tokens.Verify(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		return userID, err == nil
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	userID, err := a.Cookies.Verify(cookie.Value)
	if err != nil || userID == "" {
		return "", false
	}
	return userID, true
}

func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}
