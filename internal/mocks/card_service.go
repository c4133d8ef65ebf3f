package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/service"
)

// MockCardService implements service.CardService for testing
type MockCardService struct {
	CreateCardFn        func(ctx context.Context, userID uuid.UUID, front, back string) (*domain.Card, error)
	GetCardFn           func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	ListCardsFn         func(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	UpdateCardContentFn func(ctx context.Context, userID, cardID uuid.UUID, front, back string) (*domain.Card, error)
	DeleteCardFn        func(ctx context.Context, userID, cardID uuid.UUID) error

	// Default return values
	Card         *domain.Card
	Cards        []domain.Card
	DefaultError error
}

var _ service.CardService = (*MockCardService)(nil)

// CreateCard implements the CardService.CreateCard method
func (m *MockCardService) CreateCard(ctx context.Context, userID uuid.UUID, front, back string) (*domain.Card, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, userID, front, back)
	}
	return m.Card, m.DefaultError
}

// GetCard implements the CardService.GetCard method
func (m *MockCardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, userID, cardID)
	}
	return m.Card, m.DefaultError
}

// ListCards implements the CardService.ListCards method
func (m *MockCardService) ListCards(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, userID)
	}
	return m.Cards, m.DefaultError
}

// UpdateCardContent implements the CardService.UpdateCardContent method
func (m *MockCardService) UpdateCardContent(
	ctx context.Context,
	userID, cardID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	if m.UpdateCardContentFn != nil {
		return m.UpdateCardContentFn(ctx, userID, cardID, front, back)
	}
	return m.Card, m.DefaultError
}

// DeleteCard implements the CardService.DeleteCard method
func (m *MockCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, userID, cardID)
	}
	return m.DefaultError
}
