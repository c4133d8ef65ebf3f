package srs

import (
	"fmt"

	"github.com/phrazzld/bilingo/internal/domain"
)

// Params defines all configurable parameters for the SM-2 policy
type Params struct {
	// Floor for the ease factor
	MinEaseFactor float64

	// Interval ladder used before ease-based growth takes over
	FirstInterval  int
	SecondInterval int

	// Ceiling for any interval, in days
	MaxInterval int

	// Grade scale
	PassingGrade int
	MaxGrade     int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	MinEaseFactor  float64
	FirstInterval  int
	SecondInterval int
	MaxInterval    int
	PassingGrade   int
	MaxGrade       int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  domain.MinEaseFactor,
		FirstInterval:  1,
		SecondInterval: 6,
		MaxInterval:    domain.MaxIntervalDays,
		PassingGrade:   3,
		MaxGrade:       5,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.MaxInterval > 0 {
		params.MaxInterval = config.MaxInterval
	}
	if config.PassingGrade > 0 {
		params.PassingGrade = config.PassingGrade
	}
	if config.MaxGrade > 0 {
		params.MaxGrade = config.MaxGrade
	}

	return params
}

// Validate checks that the parameters describe a usable schedule.
func (p *Params) Validate() error {
	switch {
	case p.MinEaseFactor < domain.MinEaseFactor:
		return fmt.Errorf("%w: min ease factor %.2f is below %.1f", ErrInvalidParams, p.MinEaseFactor, domain.MinEaseFactor)
	case p.FirstInterval < 1:
		return fmt.Errorf("%w: first interval must be at least 1 day", ErrInvalidParams)
	case p.SecondInterval < p.FirstInterval:
		return fmt.Errorf("%w: second interval must not be shorter than the first", ErrInvalidParams)
	case p.MaxInterval < p.SecondInterval || p.MaxInterval > domain.MaxIntervalDays:
		return fmt.Errorf("%w: max interval must be within %d..%d days", ErrInvalidParams, p.SecondInterval, domain.MaxIntervalDays)
	case p.PassingGrade < 1 || p.PassingGrade > p.MaxGrade:
		return fmt.Errorf("%w: passing grade must be within 1..%d", ErrInvalidParams, p.MaxGrade)
	}
	return nil
}
