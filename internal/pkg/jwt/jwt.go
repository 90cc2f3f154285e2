// Package jwt reads the claims of admin tokens issued by the booking backend.
// The gateway does not hold the signing key, so signatures are not verified;
// the backend remains the only authority on whether a token is valid.
package jwt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformedToken = errors.New("malformed token")

// Claims are the parts of a token the gateway cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp
	IssuedAt  time.Time
}

// Expired reports whether the token is past its exp.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

var parser = jwt.NewParser()

// Inspect decodes tokenString without verifying its signature.
func Inspect(tokenString string) (*Claims, error) {
	var registered jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(tokenString, &registered); err != nil {
		return nil, ErrMalformedToken
	}

	out := &Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		out.ExpiresAt = registered.ExpiresAt.Time
	}
	if registered.IssuedAt != nil {
		out.IssuedAt = registered.IssuedAt.Time
	}
	return out, nil
}

// ExpiresAt works out when a freshly issued token stops working: the token's
// own exp, else now+expiresIn seconds, else zero.
func ExpiresAt(tokenString string, expiresIn int, now time.Time) time.Time {
	if c, err := Inspect(tokenString); err == nil && !c.ExpiresAt.IsZero() {
		return c.ExpiresAt
	}
	if expiresIn > 0 {
		return now.Add(time.Duration(expiresIn) * time.Second)
	}
	return time.Time{}
}

// Fingerprint identifies a token in logs without revealing it.
func Fingerprint(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:6])
}
