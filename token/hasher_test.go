package token_test

import (
	"strings"
	"testing"

	"github.com/jrsteele09/go-identity-server/token"
	"github.com/stretchr/testify/require"
)

func TestHashFormat(t *testing.T) {
	hashed, err := token.Hash("secret", "salt123", "sha256", 10)
	require.NoError(t, err)

	fields := strings.Split(hashed, "$")
	require.Len(t, fields, 4)
	require.Equal(t, "sha256", fields[0])
	require.Equal(t, "salt123", fields[1])
	require.Equal(t, "10", fields[2])
	require.NotEmpty(t, fields[3])
}

func TestHashDeterministic(t *testing.T) {
	first, err := token.Hash("secret", "salt", "sha256", 100)
	require.NoError(t, err)
	second, err := token.Hash("secret", "salt", "sha256", 100)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestHashInputsChangeDigest(t *testing.T) {
	base, err := token.Hash("secret", "salt", "sha256", 10)
	require.NoError(t, err)

	tests := []struct {
		name       string
		secret     string
		salt       string
		iterations int
	}{
		{"different secret", "other", "salt", 10},
		{"different salt", "secret", "other", 10},
		{"different iterations", "secret", "salt", 11},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hashed, err := token.Hash(tc.secret, tc.salt, "sha256", tc.iterations)
			require.NoError(t, err)
			require.NotEqual(t, base, hashed)
		})
	}
}

func TestHashMissingParameters(t *testing.T) {
	_, err := token.Hash("secret", "", "sha256", 10)
	require.ErrorIs(t, err, token.ErrInvalidHashInput)

	_, err = token.Hash("secret", "salt", "", 10)
	require.ErrorIs(t, err, token.ErrInvalidHashInput)

	_, err = token.Hash("secret", "salt", "md5", 10)
	require.ErrorIs(t, err, token.ErrInvalidHashInput)
}

func TestHashIterationsBelowOne(t *testing.T) {
	one, err := token.Hash("secret", "salt", "sha1", 1)
	require.NoError(t, err)

	for _, iterations := range []int{0, -5} {
		hashed, err := token.Hash("secret", "salt", "sha1", iterations)
		require.NoError(t, err)
		require.Equal(t, one, hashed)
	}
}

func TestVerify(t *testing.T) {
	stored, err := token.Hash("secret", "salt", "sha512", 25)
	require.NoError(t, err)

	ok, err := token.Verify("secret", stored)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = token.Verify("wrong", stored)
	require.NoError(t, err)
	require.False(t, ok)
}

// Hashes stored under an old policy keep verifying after the policy changes,
// because the format self-describes its parameters.
func TestVerifySurvivesPolicyChange(t *testing.T) {
	old, err := token.Hash("secret", "oldsalt", "sha1", 3)
	require.NoError(t, err)

	ok, err := token.Verify("secret", old)
	require.NoError(t, err)
	require.True(t, ok)
}
