package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/authtoken"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/httpx"
)

// Middleware verifies bearer credentials and threads the decoded claims
// through the request context for every downstream handler.
type Middleware struct {
	log    *slog.Logger
	tokens *authtoken.Manager
}

func NewMiddleware(log *slog.Logger, tokens *authtoken.Manager) *Middleware {
	return &Middleware{log: log, tokens: tokens}
}

func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			httpx.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		claims, err := m.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(authtoken.WithClaims(r.Context(), claims)))
	})
}

func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authtoken.FromContext(r.Context())
			if !ok || !allowed[claims.Role] {
				httpx.Error(w, http.StatusForbidden, "not authorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
