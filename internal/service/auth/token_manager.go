package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeAccess is the only token type accepted by the auth gate.
const TokenTypeAccess = "ACCESS"

type claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

type tokenMeta struct {
	UserID    string
	Type      string
	ExpiresAt time.Time
}

type tokenManager struct {
	secret []byte
	now    func() time.Time
}

func newTokenManager(secret string) *tokenManager {
	return &tokenManager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (m *tokenManager) Issue(userID, kind string, ttl time.Duration) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errors.New("token secret not configured")
	}
	issuedAt := m.now()
	expiresAt := issuedAt.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (m *tokenManager) Validate(raw string) (tokenMeta, bool) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return tokenMeta{}, false
	}
	if c.Type != TokenTypeAccess || c.Subject == "" {
		return tokenMeta{}, false
	}
	return tokenMeta{
		UserID:    c.Subject,
		Type:      c.Type,
		ExpiresAt: c.ExpiresAt.Time,
	}, true
}
