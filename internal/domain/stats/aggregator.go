// Package stats computes a read-only summary of a user's card collection.
package stats

import (
	"time"

	"github.com/phrazzld/bilingo/internal/domain"
)

// DifficultyBuckets is the number of whole difficulty levels, 0 through 5.
const DifficultyBuckets = domain.MaxDifficulty + 1

// UserStats is derived from a user's cards on demand and never stored.
type UserStats struct {
	TotalCards      int `json:"total_cards"`
	ReviewedCards   int `json:"reviewed_cards"`
	UnreviewedCards int `json:"unreviewed_cards"`
	TotalReviews    int `json:"total_reviews"`

	// Averages cover reviewed cards only; they are 0 when nothing has been reviewed.
	AverageEase       float64 `json:"average_ease"`
	AverageDifficulty float64 `json:"average_difficulty"`

	// DifficultyDistribution counts every card by its rounded difficulty level.
	DifficultyDistribution [DifficultyBuckets]int `json:"difficulty_distribution"`

	// DueCards includes overdue cards.
	DueCards     int `json:"due_cards"`
	OverdueCards int `json:"overdue_cards"`
	NewCards     int `json:"new_cards"`

	LastStudySession *time.Time `json:"last_study_session,omitempty"`

	Recommendations []Recommendation `json:"study_recommendations"`
}

// Aggregate summarizes cards as of now. It only reads its input.
func Aggregate(cards []domain.Card, now time.Time) UserStats {
	stats := UserStats{
		TotalCards: len(cards),
	}

	var easeSum, difficultySum float64
	for i := range cards {
		card := &cards[i]

		stats.TotalReviews += card.ReviewCount
		stats.DifficultyDistribution[card.DifficultyBucket()]++

		switch card.Classify(now) {
		case domain.ClassNew:
			stats.NewCards++
		case domain.ClassOverdue:
			stats.OverdueCards++
			stats.DueCards++
		case domain.ClassDue:
			stats.DueCards++
		}

		if card.IsNew() {
			stats.UnreviewedCards++
			continue
		}

		stats.ReviewedCards++
		easeSum += card.EaseFactor
		difficultySum += card.Difficulty()

		if stats.LastStudySession == nil || card.LastReviewedAt.After(*stats.LastStudySession) {
			last := *card.LastReviewedAt
			stats.LastStudySession = &last
		}
	}

	if stats.ReviewedCards > 0 {
		stats.AverageEase = easeSum / float64(stats.ReviewedCards)
		stats.AverageDifficulty = difficultySum / float64(stats.ReviewedCards)
	}

	stats.Recommendations = Recommend(stats)

	return stats
}
