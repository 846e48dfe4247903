// Package token implements the bearer token codec handed to API clients.
// Tokens are HS256 JWTs whose subject is the server-side session ID, so
// revoking the Redis session invalidates the token immediately.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

const issuer = "academy"

// JWTCodec implements ports.TokenCodec with an HMAC-SHA256 signing key.
type JWTCodec struct {
	secret []byte
}

// NewJWTCodec creates a codec with the given signing secret.
func NewJWTCodec(secret []byte) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTCodec{secret: secret}, nil
}

// Mint issues a signed token for the session. Token expiry mirrors the
// session expiry; the session store remains the source of truth.
func (c *JWTCodec) Mint(sess domainauth.Session) (string, error) {
	if sess.ID == "" {
		return "", errors.New("session ID is required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   sess.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// SessionID verifies the token signature and returns its session ID subject.
func (c *JWTCodec) SessionID(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return c.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return "", err
	}
	if !tok.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}
