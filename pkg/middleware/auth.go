package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ruberanziza1/alx-project-nexus/pkg/auth"
	"github.com/ruberanziza1/alx-project-nexus/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// Auth returns middleware that requires a valid access token and stores the
// caller's identity in the request context.
func Auth(m *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" || token == r.Header.Get("Authorization") {
				response.Unauthorized(w)
				return
			}

			claims, err := m.Validate(token)
			if err != nil || claims.TokenType != auth.TypeAccess {
				response.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
			ctx = context.WithValue(ctx, roleKey{}, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromCtx returns the authenticated user's ID.
func UserIDFromCtx(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok
}

// RoleFromCtx returns the authenticated user's role.
func RoleFromCtx(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey{}).(string)
	return role, ok
}
