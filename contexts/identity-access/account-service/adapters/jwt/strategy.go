package jwtadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "sitesense/contexts/identity-access/account-service/domain/errors"
	"sitesense/contexts/identity-access/account-service/ports"
)

// Claims binds a token to an account ID (subject) and its username.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Strategy signs and reads HS256 bearer tokens. The same instance is
// shared by the login path and the authorization pipeline; it holds no
// mutable state after construction.
type Strategy struct {
	secret   []byte
	lifetime time.Duration
	clock    ports.Clock
}

func NewStrategy(secret string, lifetime time.Duration, clock ports.Clock) (*Strategy, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return &Strategy{
		secret:   []byte(secret),
		lifetime: lifetime,
		clock:    clock,
	}, nil
}

func (s *Strategy) Issue(_ context.Context, accountID string, username string) (ports.IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.lifetime)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return ports.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return ports.IssuedToken{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Strategy) ReadSubject(_ context.Context, token string) (string, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", domainerrors.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", domainerrors.ErrTokenInvalid
	}
	return claims.Subject, nil
}

func (s *Strategy) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock.Now().UTC()
}
