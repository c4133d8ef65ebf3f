// Package session selects and orders the cards a user should study now.
//
// Planning is a pure function over a snapshot of the user's cards. It never
// touches storage, so a session computed just before a concurrent review
// commits may still contain that card.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/phrazzld/bilingo/internal/domain"
)

// MaxSize is the hard cap on cards per session, whatever the caller asks for.
const MaxSize = 50

// Scoring weights
const (
	baseScore        = 100.0
	newCardBonus     = 50.0
	difficultyWeight = 10.0
	recencyPerDay    = 2.0
	maxRecencyBonus  = 40.0
	youngCardBonus   = 10.0
	youngCardReviews = 3
)

// ErrInvalidSessionLimit is returned when the requested session size is not positive.
var ErrInvalidSessionLimit = errors.New("invalid session limit")

// Item is one card in a study session.
type Item struct {
	Card           domain.Card           `json:"card"`
	Score          float64               `json:"score"`
	Classification domain.Classification `json:"classification"`
}

// Session is an ordered study plan. It is computed on demand and never stored.
type Session struct {
	Items []Item `json:"items"`

	NewCount int `json:"new_count"`
	// ReviewCount counts due and overdue cards.
	ReviewCount       int       `json:"review_count"`
	OverdueCount      int       `json:"overdue_count"`
	AverageDifficulty float64   `json:"average_difficulty"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// Cards returns the session's cards in study order.
func (s Session) Cards() []domain.Card {
	cards := make([]domain.Card, 0, len(s.Items))
	for _, item := range s.Items {
		cards = append(cards, item.Card)
	}
	return cards
}

// Plan picks at most min(limit, MaxSize) new, due or overdue cards from cards
// and orders them by descending priority. Ties go to the earlier next review
// time (never-reviewed cards first) and then to the lower card ID, so the
// same input always yields the same order.
func Plan(cards []domain.Card, now time.Time, limit int) (Session, error) {
	if limit <= 0 {
		return Session{}, fmt.Errorf("%w: %d", ErrInvalidSessionLimit, limit)
	}
	if limit > MaxSize {
		limit = MaxSize
	}

	items := make([]Item, 0, len(cards))
	for _, card := range cards {
		class := card.Classify(now)
		if !class.IsStudyable() {
			continue
		}
		items = append(items, Item{
			Card:           card,
			Score:          Score(card, class, now),
			Classification: class,
		})
	}

	slices.SortFunc(items, compareItems)

	if len(items) > limit {
		items = items[:limit]
	}

	session := Session{
		Items:       items,
		GeneratedAt: now,
	}

	var difficultySum float64
	for _, item := range items {
		switch item.Classification {
		case domain.ClassNew:
			session.NewCount++
		case domain.ClassOverdue:
			session.OverdueCount++
			session.ReviewCount++
		case domain.ClassDue:
			session.ReviewCount++
		}
		difficultySum += item.Card.Difficulty()
	}
	if len(items) > 0 {
		session.AverageDifficulty = difficultySum / float64(len(items))
	}

	return session, nil
}

// Score is the priority of a studyable card; higher scores are studied first.
//
// New cards score a flat 150. Reviewed cards start at 100, lose 10 per
// difficulty level, gain 2 per day since their last review (at most 40) and
// gain 10 more while they have fewer than 3 reviews. Scores never go below 0.
func Score(card domain.Card, class domain.Classification, now time.Time) float64 {
	if class == domain.ClassNew {
		return baseScore + newCardBonus
	}

	score := baseScore - card.Difficulty()*difficultyWeight
	score += math.Min(card.DaysSinceLastReview(now)*recencyPerDay, maxRecencyBonus)
	if card.ReviewCount < youngCardReviews {
		score += youngCardBonus
	}

	return math.Max(0, score)
}

func compareItems(a, b Item) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}

	if c := compareNextReview(a.Card.NextReviewAt, b.Card.NextReviewAt); c != 0 {
		return c
	}

	return bytes.Compare(a.Card.ID[:], b.Card.ID[:])
}

// compareNextReview orders missing times before any set time.
func compareNextReview(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
