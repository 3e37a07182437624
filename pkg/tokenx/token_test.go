package tokenx

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	tokenPattern := regexp.MustCompile(`^[A-Z0-9]{12}$`)

	t.Run("produces fixed-length uppercase alphanumeric tokens", func(t *testing.T) {
		for range 100 {
			tok, err := Generate()
			require.NoError(t, err)
			require.Regexp(t, tokenPattern, tok.Plaintext)
		}
	})

	t.Run("salt is unique per token", func(t *testing.T) {
		a, err := Generate()
		require.NoError(t, err)
		b, err := Generate()
		require.NoError(t, err)

		require.NotEqual(t, a.Salt, b.Salt)
	})

	t.Run("hash is reproducible from plaintext and salt", func(t *testing.T) {
		tok, err := Generate()
		require.NoError(t, err)
		require.Equal(t, tok.Hash, HashWithSalt(tok.Plaintext, tok.Salt))
	})

	t.Run("no collisions across many draws", func(t *testing.T) {
		seen := make(map[string]struct{}, 10000)
		for range 10000 {
			tok, err := Generate()
			require.NoError(t, err)
			_, dup := seen[tok.Plaintext]
			require.False(t, dup, "duplicate token %q", tok.Plaintext)
			seen[tok.Plaintext] = struct{}{}
		}
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	tok, err := Generate()
	require.NoError(t, err)

	t.Run("accepts the original plaintext", func(t *testing.T) {
		require.True(t, Verify(tok.Plaintext, tok.Hash, tok.Salt))
	})

	t.Run("rejects a different candidate", func(t *testing.T) {
		require.False(t, Verify("AAAAAAAAAAAA", tok.Hash, tok.Salt))
	})

	t.Run("rejects the right plaintext under the wrong salt", func(t *testing.T) {
		other, err := Generate()
		require.NoError(t, err)
		require.False(t, Verify(tok.Plaintext, tok.Hash, other.Salt))
	})

	t.Run("rejects empty candidate", func(t *testing.T) {
		require.False(t, Verify("", tok.Hash, tok.Salt))
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ABC123", normalize("abc123"))
	require.Equal(t, "XYZ", normalize("x-y_z"))
	require.Equal(t, "", normalize("-__--"))
}
