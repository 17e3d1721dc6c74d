package auth

import (
	"context"
	"net/http"

	"github.com/bathingculture/books/internal/user"
)

type ctxKey struct{}

// UserGetter loads a user by id; satisfied by user.Service.
type UserGetter interface {
	Get(ctx context.Context, id int64) (*user.User, error)
}

// UserFrom returns the authenticated user stored on the request context by
// Middleware, or nil outside an authenticated request.
func UserFrom(ctx context.Context) *user.User {
	u, _ := ctx.Value(ctxKey{}).(*user.User)
	return u
}

// Middleware verifies the session cookie and loads the user onto the
// request context. Missing or invalid sessions get a 401.
func Middleware(tokens *Tokens, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			userID, _, err := tokens.Verify(cookie.Value)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			u, err := users.Get(r.Context(), userID)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
		})
	}
}
