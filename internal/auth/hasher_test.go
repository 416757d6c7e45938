package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	for _, plaintext := range []string{"hunter2", "correct horse battery staple", "påsswörd✓", "日本語のひみつ"} {
		digest, err := h.Hash(plaintext)
		require.NoError(t, err)
		require.True(t, h.Verify(plaintext, digest), "plaintext %q", plaintext)
		require.False(t, h.Verify(plaintext+"x", digest), "plaintext %q", plaintext)
		require.False(t, strings.Contains(digest, plaintext))
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.True(t, h.Verify("same-password", first))
	require.True(t, h.Verify("same-password", second))
}

func TestNewHasherClampsCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	require.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	require.Equal(t, 10, NewHasher(10).cost)
}
