// Package token issues and verifies the signed session tokens that back
// the session cookie. Tokens are self-contained HS256 JWTs carrying the
// subject username and an absolute expiry; nothing is persisted.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired means the token was well-formed and correctly signed but past its expiry.
	ErrExpired = errors.New("session token expired")
	// ErrMalformed covers every other verification failure: bad structure,
	// bad signature, wrong algorithm, missing subject.
	ErrMalformed = errors.New("session token malformed")
)

// Issuer signs and checks session tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue creates a token for username, valid for the configured window.
func (i *Issuer) Issue(username string) (string, error) {
	if username == "" {
		return "", errors.New("username must be non-empty")
	}
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks signature and expiry and returns the subject username.
// Verification is all-or-nothing: ErrExpired for expired tokens,
// ErrMalformed for anything else wrong with the token.
func (i *Issuer) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrMalformed
	}
	if !tok.Valid || claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}

// Decode extracts the subject without checking the signature. Only for
// reuse after Verify has already succeeded on the same request; never a
// substitute for Verify at a trust boundary.
func (i *Issuer) Decode(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return "", ErrMalformed
	}
	if claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}
