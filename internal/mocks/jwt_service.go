package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn             func(ctx context.Context, userID uuid.UUID) (string, error)
	GenerateTokenWithLifetimeFn func(ctx context.Context, userID uuid.UUID, lifetime time.Duration) (string, error)
	ValidateTokenFn             func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	ValidateErr error
	Claims      *auth.Claims
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

// GenerateTokenWithLifetime implements the auth.JWTService interface
func (m *MockJWTService) GenerateTokenWithLifetime(
	ctx context.Context,
	userID uuid.UUID,
	lifetime time.Duration,
) (string, error) {
	if m.GenerateTokenWithLifetimeFn != nil {
		return m.GenerateTokenWithLifetimeFn(ctx, userID, lifetime)
	}
	return m.Token, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}
