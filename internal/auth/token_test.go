package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundtrip(t *testing.T) {
	m := NewTokenManager("topsecret", time.Hour)
	user := &User{ID: 42, Username: "ada", Email: "ada@example.com"}

	token, err := m.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "ada", claims.Username)
	require.Equal(t, "ada@example.com", claims.Email)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	m := NewTokenManager("topsecret", time.Hour)
	base := time.Now()
	m.now = func() time.Time { return base }

	token, err := m.Issue(&User{ID: 1, Username: "ada", Email: "ada@example.com"})
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, err = m.Verify(token)
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, err = m.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(&User{ID: 1, Username: "ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTamperedToken(t *testing.T) {
	m := NewTokenManager("topsecret", time.Hour)
	token, err := m.Issue(&User{ID: 1, Username: "ada", Email: "ada@example.com"})
	require.NoError(t, err)

	// Flip a character in the signature segment.
	sigStart := strings.LastIndex(token, ".") + 1
	mutated := []byte(token)
	if mutated[sigStart] == 'A' {
		mutated[sigStart] = 'B'
	} else {
		mutated[sigStart] = 'A'
	}

	_, err = m.Verify(string(mutated))
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbageInput(t *testing.T) {
	m := NewTokenManager("topsecret", time.Hour)
	for _, input := range []string{"", "garbage", "a.b", "a.b.c", "...."} {
		_, err := m.Verify(input)
		require.ErrorIs(t, err, ErrTokenInvalid, "input %q", input)
	}
}
