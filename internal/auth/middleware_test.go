package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/taskloom/taskloom/internal/auth"
	"github.com/taskloom/taskloom/internal/shared"
)

func newProtectedAPI(tokens *auth.TokenManager) (http.Handler, *shared.Identity) {
	var seen shared.Identity
	mw := auth.Middleware{Tokens: tokens, Logger: testLogger()}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/tasks", func(w http.ResponseWriter, req *http.Request) {
			ident, ok := shared.IdentityFromContext(req.Context())
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			seen = ident
			w.WriteHeader(http.StatusOK)
		})
	})
	return r, &seen
}

func get(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestRequireAuthMissingToken(t *testing.T) {
	api, _ := newProtectedAPI(auth.NewTokenManager("test-secret", time.Hour))

	require.Equal(t, http.StatusUnauthorized, get(api, "").Code)
	require.Equal(t, http.StatusUnauthorized, get(api, "Basic dXNlcjpwdw==").Code)
	require.Equal(t, http.StatusUnauthorized, get(api, "bearer lowercase-scheme").Code)
}

func TestRequireAuthTamperedToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	api, _ := newProtectedAPI(tokens)

	token, err := tokens.Issue(&auth.User{ID: 7, Username: "ada", Email: "ada@example.com"})
	require.NoError(t, err)

	suffix := "xx"
	if strings.HasSuffix(token, "xx") {
		suffix = "yy"
	}
	tampered := token[:len(token)-2] + suffix
	require.Equal(t, http.StatusForbidden, get(api, "Bearer "+tampered).Code)
	require.Equal(t, http.StatusForbidden, get(api, "Bearer not-a-token").Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager("test-secret", -time.Minute)
	api, _ := newProtectedAPI(expired)

	token, err := expired.Issue(&auth.User{ID: 7, Username: "ada", Email: "ada@example.com"})
	require.NoError(t, err)

	res := get(api, "Bearer "+token)
	require.Equal(t, http.StatusForbidden, res.Code)
	require.True(t, strings.Contains(res.Body.String(), "expired"))
}

func TestRequireAuthValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	api, seen := newProtectedAPI(tokens)

	token, err := tokens.Issue(&auth.User{ID: 7, Username: "ada", Email: "ada@example.com"})
	require.NoError(t, err)

	res := get(api, "Bearer "+token)
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, int64(7), seen.UserID)
	require.Equal(t, "ada", seen.Username)
	require.Equal(t, "ada@example.com", seen.Email)
}
