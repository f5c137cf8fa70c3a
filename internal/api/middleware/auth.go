package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avelkov/godfather/internal/api/apierr"
	"github.com/avelkov/godfather/internal/model"
	"github.com/avelkov/godfather/internal/services/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Auth creates authentication middleware requiring a valid bearer token
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			identity, err := authService.ValidateToken(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the authenticated identity, if any
func IdentityFromContext(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityContextKey).(*auth.Identity)
	return identity
}

// CallerID returns the authenticated player id, or empty
func CallerID(ctx context.Context) model.PlayerID {
	if identity := IdentityFromContext(ctx); identity != nil {
		return identity.Account.PlayerID
	}
	return ""
}

// extractToken pulls the bearer token from the Authorization header,
// falling back to a query parameter for SSE clients that cannot set headers
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
