package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-do-not-use")

func mintToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString(secret)
	require.NoError(t, err)
	return raw
}

func TestHSVerifier(t *testing.T) {
	t.Parallel()

	v := HSVerifier{Secret: testSecret}

	t.Run("accepts a valid token and extracts claims", func(t *testing.T) {
		raw := mintToken(t, testSecret, jwt.MapClaims{
			"sub":  "3f1aab31-86f4-4b2a-8f3c-0a9d35a1c001",
			"role": "landlord",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		claims, err := v.Verify(raw)
		require.NoError(t, err)
		require.Equal(t, "3f1aab31-86f4-4b2a-8f3c-0a9d35a1c001", claims.Subject)
		require.Equal(t, "landlord", claims.Role)
		require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
	})

	t.Run("role claim is optional", func(t *testing.T) {
		raw := mintToken(t, testSecret, jwt.MapClaims{
			"sub": "caller-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		claims, err := v.Verify(raw)
		require.NoError(t, err)
		require.Empty(t, claims.Role)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		raw := mintToken(t, []byte("other-secret"), jwt.MapClaims{
			"sub": "caller-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := v.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		raw := mintToken(t, testSecret, jwt.MapClaims{
			"sub": "caller-1",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})

		_, err := v.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token without expiry", func(t *testing.T) {
		raw := mintToken(t, testSecret, jwt.MapClaims{"sub": "caller-1"})

		_, err := v.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects missing subject", func(t *testing.T) {
		raw := mintToken(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := v.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("enforces issuer when configured", func(t *testing.T) {
		strict := HSVerifier{Secret: testSecret, Issuer: "doorstep-platform"}

		good := mintToken(t, testSecret, jwt.MapClaims{
			"sub": "caller-1",
			"iss": "doorstep-platform",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := strict.Verify(good)
		require.NoError(t, err)

		bad := mintToken(t, testSecret, jwt.MapClaims{
			"sub": "caller-1",
			"iss": "someone-else",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err = strict.Verify(bad)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
