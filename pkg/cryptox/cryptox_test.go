package cryptox_test

import (
	"strings"
	"testing"

	"github.com/collabflow/collabflow/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)
		_, err = cryptox.GenerateToken(-1)
		require.Error(t, err)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 64 {
			tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
			require.NoError(t, err)
			require.NotContains(t, seen, tok)
			seen[tok] = struct{}{}
		}
	})

	t.Run("base64url without padding", func(t *testing.T) {
		tok, err := cryptox.GenerateToken(cryptox.TokenSize128)
		require.NoError(t, err)
		require.NotContains(t, tok, "=")
		require.NotContains(t, tok, "+")
		require.NotContains(t, tok, "/")
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	a := cryptox.FingerprintToken("invite-code")
	b := cryptox.FingerprintToken("invite-code")
	c := cryptox.FingerprintToken("other-code")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 43) // 32 bytes base64url, no padding
}

func TestPasswordHashRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashPassword("s3cret-Pa55word")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("s3cret-Pa55word", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("wrong", hash), cryptox.ErrPasswordMismatch)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	require.Error(t, cryptox.VerifyPassword("pw", "not-a-hash"))
	require.Error(t, cryptox.VerifyPassword("pw", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"))
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	h1, err := cryptox.HashPassword("same")
	require.NoError(t, err)
	h2, err := cryptox.HashPassword("same")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
