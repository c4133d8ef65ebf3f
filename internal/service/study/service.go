// Package study implements the study workflow: grading a card review,
// planning a study session and summarizing a user's progress.
package study

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/domain/session"
	"github.com/phrazzld/bilingo/internal/domain/stats"
)

// DefaultReviewRetries is how many times a review is retried after losing a
// compare-and-swap race before the conflict is reported to the caller.
const DefaultReviewRetries = 3

// Service provides the study operations for a single user's cards.
type Service interface {
	// ReviewCard records a graded review of a card and reschedules it with the
	// configured scheduling policy.
	//
	// The read-modify-write runs in a single transaction: the card is loaded
	// with a row lock where the backend supports one, its owner is checked,
	// the policy computes the next state and the result is saved with a
	// compare-and-swap on the card version. A lost race is retried a bounded
	// number of times.
	//
	// Returns:
	//   - (*domain.Card, nil): the card with its new scheduling state
	//   - (nil, srs.ErrInvalidGrade): grade outside 0..5, nothing is written
	//   - (nil, store.ErrCardNotFound): the card does not exist
	//   - (nil, service.ErrCardNotOwned): the card belongs to another user
	//   - (nil, store.ErrConflict): the card kept changing underneath every retry
	//
	// All errors are wrapped in a *service.ServiceError.
	ReviewCard(ctx context.Context, userID, cardID uuid.UUID, grade int) (*domain.Card, error)

	// PlanSession builds a prioritized study session of at most limit cards
	// (capped at session.MaxSize) from the user's new, due and overdue cards.
	// Returns session.ErrInvalidSessionLimit when limit is not positive.
	// This method only reads data.
	PlanSession(ctx context.Context, userID uuid.UUID, limit int) (session.Session, error)

	// GetStats summarizes the user's collection and adds study recommendations.
	// This method only reads data.
	GetStats(ctx context.Context, userID uuid.UUID) (stats.UserStats, error)
}
