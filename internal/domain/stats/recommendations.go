package stats

// Priority ranks a recommendation.
type Priority string

// Valid priorities
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RecommendationType identifies which rule produced a recommendation.
type RecommendationType string

// Valid recommendation types
const (
	RecommendationCatchUp     RecommendationType = "catch_up"
	RecommendationReviewNew   RecommendationType = "review_new"
	RecommendationPositive    RecommendationType = "positive"
	RecommendationMaintenance RecommendationType = "maintenance"
)

// Rule thresholds
const (
	overdueThreshold          = 5
	newCardThreshold          = 20
	lowDifficultyThreshold    = 2.0
	maintenanceReviewsMinimum = 100
	maintenanceBacklogMaximum = 5
)

// Recommendation is an advisory message shown on the study dashboard.
type Recommendation struct {
	Type     RecommendationType `json:"type"`
	Priority Priority           `json:"priority"`
	Message  string             `json:"message"`
}

// Recommend applies the threshold rules to s. Rules are independent and the
// result is always in rule order: catch up, review new, positive, maintenance.
func Recommend(s UserStats) []Recommendation {
	recs := make([]Recommendation, 0, 4)

	if s.OverdueCards > overdueThreshold {
		recs = append(recs, Recommendation{
			Type:     RecommendationCatchUp,
			Priority: PriorityHigh,
			Message:  "You have overdue cards. Catch up on overdue reviews to keep them from slipping.",
		})
	}

	if s.NewCards > newCardThreshold {
		recs = append(recs, Recommendation{
			Type:     RecommendationReviewNew,
			Priority: PriorityMedium,
			Message:  "You have many new cards. Gradually review your new cards a few at a time.",
		})
	}

	// With nothing reviewed the average is meaningless, so the praise waits.
	if s.ReviewedCards > 0 && s.AverageDifficulty < lowDifficultyThreshold {
		recs = append(recs, Recommendation{
			Type:     RecommendationPositive,
			Priority: PriorityLow,
			Message:  "Great work! Most of your cards feel easy.",
		})
	}

	if s.TotalReviews > maintenanceReviewsMinimum && s.DueCards+s.NewCards < maintenanceBacklogMaximum {
		recs = append(recs, Recommendation{
			Type:     RecommendationMaintenance,
			Priority: PriorityLow,
			Message:  "You're in maintenance mode. Add new cards or keep up with short daily reviews.",
		})
	}

	return recs
}
