package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MaxDuration is the longest calendar, in days, that can be requested.
const MaxDuration = 365

var (
	// ErrInvalidGoal indicates an empty or blank learning goal.
	ErrInvalidGoal = errors.New("goal must not be blank")
	// ErrInvalidDuration indicates a duration outside 1..MaxDuration.
	ErrInvalidDuration = errors.New("invalid duration")
)

// ValidateGenerationInput checks a goal and duration before any network work is done.
func ValidateGenerationInput(goal string, duration int) error {
	if strings.TrimSpace(goal) == "" {
		return ErrInvalidGoal
	}
	if duration < 1 || duration > MaxDuration {
		return fmt.Errorf("%w: must be between 1 and %d days, got %d", ErrInvalidDuration, MaxDuration, duration)
	}
	return nil
}
