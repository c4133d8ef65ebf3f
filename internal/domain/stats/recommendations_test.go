package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommend(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name     string
		stats    UserStats
		expected []RecommendationType
	}{
		{
			name:     "nothing fires",
			stats:    UserStats{ReviewedCards: 10, AverageDifficulty: 3, DueCards: 4, NewCards: 3},
			expected: []RecommendationType{},
		},
		{
			name:     "overdue threshold is exclusive",
			stats:    UserStats{OverdueCards: 5, ReviewedCards: 5, AverageDifficulty: 3},
			expected: []RecommendationType{},
		},
		{
			name:     "overdue",
			stats:    UserStats{OverdueCards: 6, DueCards: 6, ReviewedCards: 6, AverageDifficulty: 3},
			expected: []RecommendationType{RecommendationCatchUp},
		},
		{
			name:     "many new cards",
			stats:    UserStats{NewCards: 21},
			expected: []RecommendationType{RecommendationReviewNew},
		},
		{
			name:     "easy collection",
			stats:    UserStats{ReviewedCards: 3, AverageDifficulty: 1.9, DueCards: 5},
			expected: []RecommendationType{RecommendationPositive},
		},
		{
			name:     "no praise without reviews",
			stats:    UserStats{NewCards: 7},
			expected: []RecommendationType{},
		},
		{
			name:     "maintenance mode",
			stats:    UserStats{TotalReviews: 101, ReviewedCards: 30, AverageDifficulty: 2.5, DueCards: 2, NewCards: 2},
			expected: []RecommendationType{RecommendationMaintenance},
		},
		{
			name: "all rules fire in order",
			stats: UserStats{
				OverdueCards:      6,
				NewCards:          21,
				ReviewedCards:     40,
				AverageDifficulty: 0.5,
				TotalReviews:      500,
				// Inconsistent on purpose so every rule can fire together.
				DueCards: -20,
			},
			expected: []RecommendationType{
				RecommendationCatchUp,
				RecommendationReviewNew,
				RecommendationPositive,
				RecommendationMaintenance,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			recs := Recommend(tc.stats)
			got := make([]RecommendationType, 0, len(recs))
			for _, rec := range recs {
				got = append(got, rec.Type)
				assert.NotEmpty(t, rec.Message)
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}
