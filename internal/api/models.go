package api

import (
	"strings"
	"time"

	"github.com/phrazzld/bilingo/internal/domain"
	"github.com/phrazzld/bilingo/internal/domain/session"
)

// CardRequest is the payload for creating or editing a card. Text is trimmed
// before validation, the same way the domain stores it.
type CardRequest struct {
	Front string `json:"front" validate:"required,max=500"`
	Back  string `json:"back"  validate:"required,max=500"`
}

// Normalize trims surrounding whitespace from both sides of the card.
func (r *CardRequest) Normalize() {
	r.Front = strings.TrimSpace(r.Front)
	r.Back = strings.TrimSpace(r.Back)
}

// ReviewRequest is the payload for grading a card. The grade range is
// enforced by the scheduling policy.
type ReviewRequest struct {
	Grade *int `json:"grade" validate:"required"`
}

// CardResponse represents a card in API responses
type CardResponse struct {
	ID             string     `json:"id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	EaseFactor     float64    `json:"ease_factor"`
	Repetitions    int        `json:"repetitions"`
	IntervalDays   int        `json:"interval_days"`
	ReviewCount    int        `json:"review_count"`
	Difficulty     float64    `json:"difficulty"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CardListResponse wraps a list of cards.
type CardListResponse struct {
	Cards []CardResponse `json:"cards"`
	Count int            `json:"count"`
}

// SessionCardResponse is a card in a planned study session.
type SessionCardResponse struct {
	CardResponse
	Classification string  `json:"classification"`
	Score          float64 `json:"score"`
}

// SessionResponse is the planned study session.
type SessionResponse struct {
	Cards             []SessionCardResponse `json:"cards"`
	NewCount          int                   `json:"new_count"`
	ReviewCount       int                   `json:"review_count"`
	OverdueCount      int                   `json:"overdue_count"`
	AverageDifficulty float64               `json:"average_difficulty"`
	GeneratedAt       time.Time             `json:"generated_at"`
}

// cardToResponse converts a domain.Card to a CardResponse
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:             card.ID.String(),
		Front:          card.Front,
		Back:           card.Back,
		EaseFactor:     card.EaseFactor,
		Repetitions:    card.Repetitions,
		IntervalDays:   card.IntervalDays,
		ReviewCount:    card.ReviewCount,
		Difficulty:     card.Difficulty(),
		LastReviewedAt: card.LastReviewedAt,
		NextReviewAt:   card.NextReviewAt,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

func cardsToResponse(cards []domain.Card) CardListResponse {
	resp := CardListResponse{
		Cards: make([]CardResponse, 0, len(cards)),
		Count: len(cards),
	}
	for i := range cards {
		resp.Cards = append(resp.Cards, cardToResponse(&cards[i]))
	}
	return resp
}

func sessionToResponse(s session.Session) SessionResponse {
	resp := SessionResponse{
		Cards:             make([]SessionCardResponse, 0, len(s.Items)),
		NewCount:          s.NewCount,
		ReviewCount:       s.ReviewCount,
		OverdueCount:      s.OverdueCount,
		AverageDifficulty: s.AverageDifficulty,
		GeneratedAt:       s.GeneratedAt,
	}
	for i := range s.Items {
		item := &s.Items[i]
		resp.Cards = append(resp.Cards, SessionCardResponse{
			CardResponse:   cardToResponse(&item.Card),
			Classification: string(item.Classification),
			Score:          item.Score,
		})
	}
	return resp
}
