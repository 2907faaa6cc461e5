// Package auth issues and verifies the signed identity tokens that bind
// every request to a subject, and verifies login credentials.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given subject.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the access token's signature and expiry and
	// extracts the claims. Returns ErrExpiredToken when the current time is
	// at or past expiry, ErrInvalidToken when the signature does not verify
	// or the payload lacks a subject. Verification is pure: no I/O.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the given
	// subject. Refresh tokens have a longer lifetime and are exchanged for
	// new access tokens.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken verifies a refresh token and extracts the
	// claims. Fails with ErrWrongTokenType when handed an access token.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a token.
type Claims struct {
	// UserID is the subject the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType indicates the purpose of the token ("access" or "refresh").
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
