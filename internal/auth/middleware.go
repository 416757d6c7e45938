package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskloom/taskloom/internal/platform/httpx"
	"github.com/taskloom/taskloom/internal/shared"
)

const bearerPrefix = "Bearer "

// Middleware is the single enforcement point for protected routes: it
// extracts and verifies the bearer token and attaches the verified
// identity to the request context. Handlers behind it never see a
// request without one.
type Middleware struct {
	Tokens *TokenManager
	Logger *slog.Logger
}

// RequireAuth rejects requests without a bearer token (401) or with an
// invalid or expired one (403); otherwise the verified claims travel
// down the chain in the request context.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			httpx.RespondError(w, fmt.Errorf("%w: missing bearer token", httpx.ErrUnauthenticated))
			return
		}

		claims, err := m.Tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("token rejected", slog.Any("error", err), slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrForbidden, err.Error()))
			return
		}

		ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
