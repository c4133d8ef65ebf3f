package srs

import (
	"fmt"
	"time"

	"github.com/phrazzld/bilingo/internal/domain"
)

// legacyIntervals is the fixed interval table of the retired level-based
// scheduler, indexed by level 0-5.
var legacyIntervals = [...]int{1, 2, 4, 8, 16, 32}

// MaxLegacyLevel is the highest level the retired scheduler produced.
const MaxLegacyLevel = len(legacyIntervals) - 1

// MigrateLegacyState converts a card scheduled by the retired level-based
// scheduler into SM-2 state.
//
// Cards that were never reviewed come back as new cards with default state.
// Reviewed cards keep their last review time and the interval the old table
// assigned to their level, so the next review date does not move. The level
// becomes the success streak and the ease factor is reset to the default,
// since the old scheduler tracked no per-card ease.
func MigrateLegacyState(card domain.Card, level int, lastReviewedAt *time.Time) (domain.Card, error) {
	if level < 0 || level > MaxLegacyLevel {
		return card, fmt.Errorf("%w: %d is outside 0..%d", ErrInvalidLegacyLevel, level, MaxLegacyLevel)
	}

	migrated := card
	migrated.EaseFactor = domain.DefaultEaseFactor

	if lastReviewedAt == nil {
		migrated.Repetitions = 0
		migrated.IntervalDays = 0
		migrated.LastReviewedAt = nil
		migrated.NextReviewAt = nil
		return migrated, nil
	}

	reviewedAt := lastReviewedAt.UTC()
	interval := legacyIntervals[level]
	nextReview := calculateNextReviewDate(interval, reviewedAt)

	migrated.Repetitions = level
	migrated.IntervalDays = interval
	migrated.LastReviewedAt = &reviewedAt
	migrated.NextReviewAt = &nextReview
	if migrated.ReviewCount < level {
		migrated.ReviewCount = level
	}

	return migrated, nil
}
