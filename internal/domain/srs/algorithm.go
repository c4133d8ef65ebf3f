package srs

import (
	"math"
	"time"

	"github.com/phrazzld/bilingo/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease update for a successful review.
//
// With q = maxGrade - grade the adjustment is 0.1 - q*(0.08 + q*0.02): a
// perfect grade adds 0.1, a grade one below perfect leaves the ease alone and
// a bare pass lowers it by 0.14. The result never drops below MinEaseFactor.
// There is no ceiling.
func calculateNewEaseFactor(currentEF float64, grade int, params *Params) float64 {
	q := float64(params.MaxGrade - grade)
	newEF := currentEF + (0.1 - q*(0.08+q*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval returns the interval in days after a successful review.
//
// repetitions is the streak length including this review. The first two
// successes walk a fixed ladder (1 then 6 days by default); from the third
// success on, the previous interval is multiplied by the ease factor in force
// before this review and rounded to whole days. The result never exceeds
// params.MaxInterval.
func calculateNewInterval(previousInterval, repetitions int, easeFactor float64, params *Params) int {
	switch repetitions {
	case 1:
		return min(params.FirstInterval, params.MaxInterval)
	case 2:
		return min(params.SecondInterval, params.MaxInterval)
	}

	// Clamp before converting so the float never overflows int.
	grown := math.Round(float64(previousInterval) * easeFactor)
	if grown >= float64(params.MaxInterval) {
		return params.MaxInterval
	}
	return max(int(grown), 1)
}

// calculateNextReviewDate schedules the next review a whole number of days after now.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.Add(time.Duration(interval) * 24 * time.Hour)
}

// calculateNextState returns a copy of card with the scheduling fields
// updated for the given grade. The input card is never modified, and no
// pointer in the result aliases one in the input.
//
// Failures (grade below the passing grade) reset the streak and schedule the
// card for tomorrow while keeping the ease factor, so a single lapse does not
// erase what the ease says about the card's long-run difficulty.
func calculateNextState(card domain.Card, grade int, now time.Time, params *Params) domain.Card {
	next := card

	if grade < params.PassingGrade {
		next.Repetitions = 0
		next.IntervalDays = params.FirstInterval
	} else {
		next.Repetitions = card.Repetitions + 1
		next.IntervalDays = calculateNewInterval(card.IntervalDays, next.Repetitions, card.EaseFactor, params)
		next.EaseFactor = calculateNewEaseFactor(card.EaseFactor, grade, params)
	}

	reviewedAt := now
	nextReview := calculateNextReviewDate(next.IntervalDays, now)
	next.LastReviewedAt = &reviewedAt
	next.NextReviewAt = &nextReview
	next.ReviewCount = card.ReviewCount + 1
	next.UpdatedAt = now

	return next
}
