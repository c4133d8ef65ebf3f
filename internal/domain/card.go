package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// DefaultEaseFactor is the ease assigned to a freshly created card.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor below which the ease factor never drops.
	MinEaseFactor = 1.3

	// MaxTextLength bounds the front and back text, counted in characters.
	MaxTextLength = 500

	// MaxDifficulty is the upper end of the 0-5 difficulty scale.
	MaxDifficulty = 5

	// MaxIntervalDays caps the review interval at roughly a century. It keeps
	// interval arithmetic well inside the range of time.Duration.
	MaxIntervalDays = 36500

	// overdueFactor is how many intervals past its due date a card must be
	// before it counts as overdue rather than merely due.
	overdueFactor = 1.5

	// difficultyEaseSpan is the ease range mapped onto the difficulty scale.
	difficultyEaseSpan = DefaultEaseFactor - MinEaseFactor
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = fmt.Errorf("%w: card ID cannot be empty", ErrValidation)

	// ErrCardOwnerIDEmpty is returned when a card's owner ID is empty or nil.
	ErrCardOwnerIDEmpty = fmt.Errorf("%w: card owner ID cannot be empty", ErrValidation)

	// ErrCardFrontEmpty is returned when the front text is blank.
	ErrCardFrontEmpty = fmt.Errorf("%w: card front cannot be empty", ErrValidation)

	// ErrCardBackEmpty is returned when the back text is blank.
	ErrCardBackEmpty = fmt.Errorf("%w: card back cannot be empty", ErrValidation)

	// ErrCardFrontTooLong is returned when the front text exceeds MaxTextLength.
	ErrCardFrontTooLong = fmt.Errorf("%w: card front exceeds %d characters", ErrValidation, MaxTextLength)

	// ErrCardBackTooLong is returned when the back text exceeds MaxTextLength.
	ErrCardBackTooLong = fmt.Errorf("%w: card back exceeds %d characters", ErrValidation, MaxTextLength)

	// ErrCardEaseFactorInvalid is returned when the ease factor is below MinEaseFactor.
	ErrCardEaseFactorInvalid = fmt.Errorf("%w: card ease factor below %.1f", ErrValidation, MinEaseFactor)

	// ErrCardSchedulingInvalid is returned when the scheduling fields are
	// negative or inconsistent with each other.
	ErrCardSchedulingInvalid = fmt.Errorf("%w: card scheduling state is inconsistent", ErrValidation)
)

// Classification describes where a card stands relative to its schedule.
type Classification string

// Valid classifications
const (
	// ClassNew marks a card that has never been reviewed.
	ClassNew Classification = "new"
	// ClassDue marks a reviewed card whose next review time has arrived.
	ClassDue Classification = "due"
	// ClassOverdue marks a due card that is late by more than 1.5 intervals.
	ClassOverdue Classification = "overdue"
	// ClassScheduled marks a reviewed card that is not due yet.
	ClassScheduled Classification = "scheduled"
)

// IsStudyable reports whether a card in this class belongs in a study session.
func (c Classification) IsStudyable() bool {
	return c == ClassNew || c == ClassDue || c == ClassOverdue
}

// Card is a bilingual flashcard together with its spaced-repetition state.
//
// Scheduling fields are only changed by the srs package; content edits go
// through UpdateContent and never touch them.
type Card struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Front   string    `json:"front"`
	Back    string    `json:"back"`

	EaseFactor     float64    `json:"ease_factor"`
	Repetitions    int        `json:"repetitions"`
	IntervalDays   int        `json:"interval_days"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	ReviewCount    int        `json:"review_count"`

	// Version is bumped by the store on every save and used for
	// compare-and-swap updates.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card with default scheduling state for the given owner.
// It generates a new UUID for the card and stamps both timestamps with now.
// Returns an error if validation fails.
func NewCard(ownerID uuid.UUID, front, back string, now time.Time) (*Card, error) {
	now = now.UTC()
	card := &Card{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Front:       strings.TrimSpace(front),
		Back:        strings.TrimSpace(back),
		EaseFactor:  DefaultEaseFactor,
		Repetitions: 0,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.OwnerID == uuid.Nil {
		return ErrCardOwnerIDEmpty
	}

	if err := validateContent(c.Front, c.Back); err != nil {
		return err
	}

	if c.EaseFactor < MinEaseFactor {
		return ErrCardEaseFactorInvalid
	}

	if c.Repetitions < 0 || c.IntervalDays < 0 || c.ReviewCount < 0 {
		return ErrCardSchedulingInvalid
	}

	// Once reviewed, both timestamps and a positive interval must be present.
	if c.LastReviewedAt != nil {
		if c.NextReviewAt == nil || c.IntervalDays < 1 {
			return ErrCardSchedulingInvalid
		}
	} else if c.NextReviewAt != nil {
		return ErrCardSchedulingInvalid
	}

	return nil
}

// UpdateContent replaces the front and back text and bumps UpdatedAt.
// Scheduling state is left untouched. The card is unchanged on error.
func (c *Card) UpdateContent(front, back string, now time.Time) error {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)

	if err := validateContent(front, back); err != nil {
		return err
	}

	c.Front = front
	c.Back = back
	c.UpdatedAt = now.UTC()
	return nil
}

// IsNew reports whether the card has never been reviewed.
func (c *Card) IsNew() bool {
	return c.LastReviewedAt == nil
}

// Classify places the card relative to now.
func (c *Card) Classify(now time.Time) Classification {
	if c.IsNew() {
		return ClassNew
	}

	// A reviewed card without a next review time cannot be scheduled, so it
	// is offered again immediately.
	if c.NextReviewAt == nil {
		return ClassDue
	}

	if c.NextReviewAt.After(now) {
		return ClassScheduled
	}

	late := now.Sub(*c.NextReviewAt)
	threshold := overdueFactor * float64(c.IntervalDays) * float64(24*time.Hour)
	if threshold < float64(math.MaxInt64) && late > time.Duration(threshold) {
		return ClassOverdue
	}

	return ClassDue
}

// Difficulty maps the ease factor onto a 0-5 scale. A card at the default
// ease or above scores 0; a card at the ease floor scores 5.
func (c *Card) Difficulty() float64 {
	d := (DefaultEaseFactor - c.EaseFactor) / difficultyEaseSpan * MaxDifficulty
	return math.Max(0, math.Min(MaxDifficulty, d))
}

// DifficultyBucket returns Difficulty rounded to the nearest whole level.
func (c *Card) DifficultyBucket() int {
	return int(math.Round(c.Difficulty()))
}

// DaysSinceLastReview returns the fractional number of days between the last
// review and now, or 0 for a card that was never reviewed.
func (c *Card) DaysSinceLastReview(now time.Time) float64 {
	if c.LastReviewedAt == nil {
		return 0
	}
	days := now.Sub(*c.LastReviewedAt).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}

func validateContent(front, back string) error {
	if strings.TrimSpace(front) == "" {
		return ErrCardFrontEmpty
	}
	if strings.TrimSpace(back) == "" {
		return ErrCardBackEmpty
	}
	if utf8.RuneCountInString(front) > MaxTextLength {
		return ErrCardFrontTooLong
	}
	if utf8.RuneCountInString(back) > MaxTextLength {
		return ErrCardBackTooLong
	}
	return nil
}
