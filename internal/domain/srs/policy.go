package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/bilingo/internal/domain"
)

// Common errors
var (
	// ErrInvalidGrade is returned when a grade falls outside the 0-5 scale.
	// No state is changed when it is returned.
	ErrInvalidGrade = errors.New("invalid grade")

	// ErrInvalidParams is returned when a policy is built from unusable parameters.
	ErrInvalidParams = errors.New("invalid srs parameters")

	// ErrInvalidLegacyLevel is returned when a legacy difficulty level is out of range.
	ErrInvalidLegacyLevel = errors.New("invalid legacy level")
)

// PolicySM2 is the name reported by the SM-2 policy.
const PolicySM2 = "sm2"

// Policy turns a review grade into the card's next scheduling state.
//
// Implementations must be pure: the same card, grade and time always produce
// the same result, and the input card is never mutated. Persisting the result
// is the caller's job.
type Policy interface {
	// Name identifies the policy, e.g. for logging.
	Name() string

	// Review validates grade and returns the card's updated scheduling state.
	Review(card domain.Card, grade int, now time.Time) (domain.Card, error)
}

// sm2Policy is the SuperMemo-2 derived Policy
type sm2Policy struct {
	params *Params
}

var _ Policy = (*sm2Policy)(nil)

// NewDefaultPolicy creates an SM-2 policy with default parameters
func NewDefaultPolicy() Policy {
	return &sm2Policy{params: NewDefaultParams()}
}

// NewSM2Policy creates an SM-2 policy with custom parameters.
// A nil params value selects the defaults.
func NewSM2Policy(params *Params) (Policy, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &sm2Policy{params: params}, nil
}

// Name implements Policy.
func (p *sm2Policy) Name() string {
	return PolicySM2
}

// Review implements Policy.
func (p *sm2Policy) Review(card domain.Card, grade int, now time.Time) (domain.Card, error) {
	if grade < 0 || grade > p.params.MaxGrade {
		return card, fmt.Errorf("%w: %d is outside 0..%d", ErrInvalidGrade, grade, p.params.MaxGrade)
	}

	return calculateNextState(card, grade, now, p.params), nil
}
