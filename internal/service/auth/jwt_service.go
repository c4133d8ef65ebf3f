// Package auth issues and verifies the signed access tokens that identify
// the user behind every API request.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenTypeAccess marks a token that grants API access.
const TokenTypeAccess = "access"

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user using the
	// configured token lifetime.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// GenerateTokenWithLifetime creates a signed access token that expires
	// after lifetime instead of the configured default.
	GenerateTokenWithLifetime(ctx context.Context, userID uuid.UUID, lifetime time.Duration) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns the claims if the token is valid, or ErrInvalidToken, ErrExpiredToken,
	// ErrTokenNotYetValid or ErrWrongTokenType.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType indicates the purpose of the token.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	Issuer    string    `json:"iss,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
