package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/store"
	"github.com/stretchr/testify/require"
)

// FixedTime is a stable reference instant for tests.
var FixedTime = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

// CardOption customizes a card built by NewCard.
type CardOption func(*domain.Card)

// WithCardID sets the card ID.
func WithCardID(id uuid.UUID) CardOption {
	return func(c *domain.Card) { c.ID = id }
}

// WithOwnerID sets the owning user.
func WithOwnerID(id uuid.UUID) CardOption {
	return func(c *domain.Card) { c.OwnerID = id }
}

// WithContent sets the front and back text.
func WithContent(front, back string) CardOption {
	return func(c *domain.Card) {
		c.Front = front
		c.Back = back
	}
}

// WithCreatedAt sets both timestamps.
func WithCreatedAt(t time.Time) CardOption {
	return func(c *domain.Card) {
		c.CreatedAt = t
		c.UpdatedAt = t
	}
}

// WithReviewState gives the card a consistent reviewed state: the last review
// happened at lastReviewedAt and the next one is interval days later.
func WithReviewState(repetitions, interval int, ease float64, lastReviewedAt time.Time) CardOption {
	return func(c *domain.Card) {
		last := lastReviewedAt.UTC()
		next := last.Add(time.Duration(interval) * 24 * time.Hour)
		c.Repetitions = repetitions
		c.IntervalDays = interval
		c.EaseFactor = ease
		c.LastReviewedAt = &last
		c.NextReviewAt = &next
		if c.ReviewCount < repetitions {
			c.ReviewCount = repetitions
		}
		if c.ReviewCount == 0 {
			c.ReviewCount = 1
		}
	}
}

// WithReviewCount overrides the total number of reviews.
func WithReviewCount(n int) CardOption {
	return func(c *domain.Card) { c.ReviewCount = n }
}

// NewCard builds a valid, unsaved card. Defaults: random IDs, Spanish/English
// content, created at FixedTime, never reviewed.
func NewCard(t *testing.T, opts ...CardOption) *domain.Card {
	t.Helper()

	card, err := domain.NewCard(uuid.New(), "el gato", "the cat", FixedTime)
	require.NoError(t, err, "failed to build test card")

	for _, opt := range opts {
		opt(card)
	}
	require.NoError(t, card.Validate(), "test card options produced an invalid card")
	return card
}

// CreateCards persists cards through s and fails the test on error.
func CreateCards(t *testing.T, s store.CardStore, cards ...*domain.Card) {
	t.Helper()
	for _, c := range cards {
		require.NoError(t, s.Create(context.Background(), c), "failed to create card %s", c.ID)
	}
}
