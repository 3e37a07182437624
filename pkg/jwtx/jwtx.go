// Package jwtx verifies the identity assertions minted by the platform's
// auth layer. This service never issues tokens itself; it only needs a
// stable caller identity and a role claim.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure. Callers get no detail
// about why a token was rejected.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// Claims carries the assertions this service consumes. Role may be empty
// for brand-new profiles that have not been linked to anything yet.
type Claims struct {
	Subject   string // platform identity, uuid
	Role      string // "landlord", "tenant", or empty
	ExpiresAt time.Time
}

type Verifier interface {
	Verify(raw string) (Claims, error)
}

// HSVerifier validates HS256 tokens signed with the shared secret the
// platform gateway uses.
type HSVerifier struct {
	Secret []byte
	Issuer string // enforced when non-empty
}

func (v HSVerifier) Verify(raw string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return v.Secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, ErrInvalidToken
	}

	role, _ := mc["role"].(string)

	claims := Claims{Subject: sub, Role: role}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
