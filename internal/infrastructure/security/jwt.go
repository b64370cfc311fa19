// Package security provides JWT token utilities for the devstack backend.
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/oklog/ulid/v2"

	"github.com/NaijaReels/naijareels-go/internal/domain/user"
)

// TokenIssuer signs and validates the access/refresh pairs the devstack
// backend hands out.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer creates an issuer with the given signing secret and TTLs.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair returns a fresh access/refresh token pair for the account.
func (t *TokenIssuer) IssuePair(identity *user.Identity) (*user.Tokens, error) {
	access, err := t.sign(identity, "access", t.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(identity, "refresh", t.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &user.Tokens{Access: access, Refresh: refresh}, nil
}

// IssueAccess returns a fresh access token only, for the refresh endpoint.
func (t *TokenIssuer) IssueAccess(identity *user.Identity) (string, error) {
	return t.sign(identity, "access", t.accessTTL)
}

func (t *TokenIssuer) sign(identity *user.Identity, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user_id":    identity.ID,
		"username":   identity.Username,
		"role":       string(identity.Role),
		"token_type": tokenType,
		"jti":        ulid.Make().String(),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the claims. tokenType must
// match the token_type claim, so refresh tokens cannot authorize requests.
func (t *TokenIssuer) Validate(tokenString, tokenType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims["token_type"] != tokenType {
		return nil, fmt.Errorf("token is not a %s token", tokenType)
	}
	return claims, nil
}

// SubjectID extracts the user id from validated claims.
func SubjectID(claims jwt.MapClaims) (int, error) {
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("token missing user_id claim")
	}
	return int(id), nil
}
