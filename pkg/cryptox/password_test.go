package cryptox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	hash, err := HashPassword("hunter2!")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	t.Run("correct password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("hunter2!", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("hunter3!", hash), ErrPasswordMismatch)
	})

	t.Run("salts differ between hashes", func(t *testing.T) {
		other, err := HashPassword("hunter2!")
		require.NoError(t, err)
		require.NotEqual(t, hash, other)
	})
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	cases := []string{
		"",
		"$argon2id$v=19$m=19456,t=2,p=1$short",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
	}
	for _, h := range cases {
		require.Error(t, VerifyPassword("pw", h), "hash %q", h)
	}
}
