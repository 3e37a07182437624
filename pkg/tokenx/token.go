// Package tokenx generates and verifies the opaque invite tokens. A token's
// plaintext exists exactly once, in the create-invite response; everything
// persisted is a per-token salted SHA-256 digest.
package tokenx

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Length is the fixed plaintext length of every invite token. Tokens are
// short enough to read over the phone but still carry ~62 bits of entropy.
const Length = 12

// Alphabet is the set of characters a generated token may contain.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	saltBytes           = 16
	entropyBytesPerDraw = 12
	maxGenerateAttempts = 32
)

// Token carries the one-time plaintext alongside the only parts that are
// ever stored.
type Token struct {
	Plaintext string
	Hash      string // hex(sha256(plaintext || salt))
	Salt      string // hex-encoded random salt, unique per token
}

// Generate produces a fresh invite token with a per-token salt. Random bytes
// are normalized onto Alphabet; a draw that normalizes to fewer than Length
// characters is rejected and redrawn rather than padded or truncated.
func Generate() (Token, error) {
	plaintext, err := randomToken()
	if err != nil {
		return Token{}, err
	}

	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return Token{}, fmt.Errorf("tokenx: read salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	return Token{
		Plaintext: plaintext,
		Hash:      HashWithSalt(plaintext, saltHex),
		Salt:      saltHex,
	}, nil
}

// HashWithSalt returns the hex-encoded SHA-256 digest of plaintext || salt.
func HashWithSalt(plaintext, salt string) string {
	sum := sha256.Sum256([]byte(plaintext + salt))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the salted digest for candidate and compares it against
// the stored hash in constant time, so the comparison never reveals how
// close a candidate came to matching.
func Verify(candidate, hash, salt string) bool {
	computed := HashWithSalt(candidate, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

func randomToken() (string, error) {
	for range maxGenerateAttempts {
		buf := make([]byte, entropyBytesPerDraw)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("tokenx: read entropy: %w", err)
		}

		candidate := normalize(base64.RawURLEncoding.EncodeToString(buf))
		if len(candidate) >= Length {
			return candidate[:Length], nil
		}
		// Too many characters lost to normalization for this draw; redraw.
	}

	// 12 entropy bytes encode to 16 characters of which at most ~0.5 are
	// expected to be dropped, so reaching here means the RNG is broken.
	return "", errors.New("tokenx: token generation failed after repeated draws")
}

// normalize uppercases the draw and drops everything outside Alphabet.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}
