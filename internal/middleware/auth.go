package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jobtrackr/jobtrack-backend/internal/token"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller extracted from a bearer token. The
// values come from the token claims and are trusted for the rest of the
// request without another store lookup.
type Identity struct {
	UserID string
	Email  string
}

// RequireAuth validates the Authorization bearer token and injects the
// caller's identity into the request context. A missing header is 401; a
// malformed, invalid, or expired token is 403.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"message":"Authorization header not found!"}`, http.StatusUnauthorized)
				return
			}

			var raw string
			if parts := strings.Fields(authHeader); len(parts) > 1 {
				raw = parts[1]
			}
			claims, err := token.Parse(raw, secret)
			if err != nil {
				http.Error(w, `{"message":"Invalid or expired token!"}`, http.StatusForbidden)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a context carrying the given caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the caller identity stored by RequireAuth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
