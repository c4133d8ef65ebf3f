package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/domain/session"
	"github.com/phrazzld/bilingo/internal/domain/stats"
	"github.com/phrazzld/bilingo/internal/service/study"
)

// MockStudyService implements study.Service for testing
type MockStudyService struct {
	ReviewCardFn  func(ctx context.Context, userID, cardID uuid.UUID, grade int) (*domain.Card, error)
	PlanSessionFn func(ctx context.Context, userID uuid.UUID, limit int) (session.Session, error)
	GetStatsFn    func(ctx context.Context, userID uuid.UUID) (stats.UserStats, error)

	// Default return values
	Card         *domain.Card
	Session      session.Session
	Stats        stats.UserStats
	DefaultError error
}

var _ study.Service = (*MockStudyService)(nil)

// ReviewCard implements the study.Service.ReviewCard method
func (m *MockStudyService) ReviewCard(ctx context.Context, userID, cardID uuid.UUID, grade int) (*domain.Card, error) {
	if m.ReviewCardFn != nil {
		return m.ReviewCardFn(ctx, userID, cardID, grade)
	}
	return m.Card, m.DefaultError
}

// PlanSession implements the study.Service.PlanSession method
func (m *MockStudyService) PlanSession(ctx context.Context, userID uuid.UUID, limit int) (session.Session, error) {
	if m.PlanSessionFn != nil {
		return m.PlanSessionFn(ctx, userID, limit)
	}
	return m.Session, m.DefaultError
}

// GetStats implements the study.Service.GetStats method
func (m *MockStudyService) GetStats(ctx context.Context, userID uuid.UUID) (stats.UserStats, error) {
	if m.GetStatsFn != nil {
		return m.GetStatsFn(ctx, userID)
	}
	return m.Stats, m.DefaultError
}
