// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a session token vouches for.
type Identity struct {
	UserID string
	Email  string
}

// Claims is the token payload: the identity plus iat/exp.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity returns the identity part of the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email}
}

// TokenManager signs and verifies HS256 session tokens with a fixed secret.
// It holds no mutable state and is safe for concurrent use.
type TokenManager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

type Option func(*TokenManager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

// NewTokenManager returns common.ErrEmptySecret when secret is empty.
func NewTokenManager(secret []byte, opts ...Option) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, common.ErrEmptySecret
	}
	m := &TokenManager{
		secret:   append([]byte(nil), secret...),
		lifetime: common.SessionLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Lifetime is how long a freshly signed token stays valid.
func (m *TokenManager) Lifetime() time.Duration {
	return m.lifetime
}

// Sign issues a token for id, valid from now for the manager's lifetime.
func (m *TokenManager) Sign(id Identity) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
	})

	s, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify checks the MAC, then decodes and validates the claims.
//
// The MAC is checked over the raw header.payload text before anything is
// decoded, so a tampered payload is always reported as common.ErrTokenSignature
// and never as a decoding problem.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, common.ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	sig, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, common.ErrTokenMalformed
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, m.secret); err != nil {
		return nil, common.ErrTokenSignature
	}

	claims := &Claims{}
	_, err = parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if claims.UserID == "" {
		return nil, common.ErrTokenMalformed
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return common.ErrTokenSignature
	default:
		return common.ErrTokenMalformed
	}
}
