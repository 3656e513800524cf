package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/patronly/patronly/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// withAuth validates the bearer token and injects the authenticated identity
// into the request context. Validation re-fetches the identity, so a session
// whose user has vanished is rejected even before expiry.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteError(w, http.StatusUnauthorized, "missing_token", "Authorization header required")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		user, err := s.identity.Authenticate(r.Context(), token)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

// withAdmin gates a route on the admin role.
func (s *Server) withAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.withAuth(func(w http.ResponseWriter, r *http.Request) {
		if userFrom(r.Context()).Role != models.RoleAdmin {
			WriteError(w, http.StatusForbidden, "forbidden", "Admin role required")
			return
		}
		next(w, r)
	})
}

// userFrom returns the identity placed in ctx by withAuth.
func userFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
