package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validatePlan(schema)...)
	errs = append(errs, validatePhases(schema.Phases)...)
	errs = append(errs, validateCalendar(schema.Calendar, schema.Duration)...)

	return errs
}

func validatePlan(s *ImportSchema) []error {
	var errs []error

	if strings.TrimSpace(s.Goal) == "" {
		errs = append(errs, fmt.Errorf("goal is required"))
	}
	if s.Duration < 1 || s.Duration > domain.MaxDuration {
		errs = append(errs, fmt.Errorf("duration: must be between 1 and %d, got %d", domain.MaxDuration, s.Duration))
	}
	if s.StartDate != "" {
		if _, err := time.Parse(time.DateOnly, s.StartDate); err != nil {
			errs = append(errs, fmt.Errorf("startDate: invalid date format %q (expected YYYY-MM-DD)", s.StartDate))
		}
	}

	return errs
}

func validatePhases(phases []PhaseImport) []error {
	var errs []error
	seen := make(map[int]bool)

	for i, ph := range phases {
		prefix := fmt.Sprintf("phases[%d]", i)

		if ph.Number <= 0 {
			errs = append(errs, fmt.Errorf("%s.number must be positive", prefix))
		} else if seen[ph.Number] {
			errs = append(errs, fmt.Errorf("%s.number: duplicate phase %d", prefix, ph.Number))
		} else {
			seen[ph.Number] = true
		}
		if strings.TrimSpace(ph.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
	}

	return errs
}

func validateCalendar(items []CalendarImport, duration int) []error {
	var errs []error
	seen := make(map[int]bool)

	for i, item := range items {
		prefix := fmt.Sprintf("calendar[%d]", i)

		switch {
		case item.Day <= 0:
			errs = append(errs, fmt.Errorf("%s.day must be positive", prefix))
		case duration > 0 && item.Day > duration:
			errs = append(errs, fmt.Errorf("%s.day %d exceeds duration %d", prefix, item.Day, duration))
		case seen[item.Day]:
			errs = append(errs, fmt.Errorf("%s.day: duplicate day %d", prefix, item.Day))
		default:
			seen[item.Day] = true
		}

		if strings.TrimSpace(item.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if item.Phase < 0 {
			errs = append(errs, fmt.Errorf("%s.phase must not be negative", prefix))
		}
	}

	return errs
}

// JoinErrors folds validation errors into one error listing each problem.
func JoinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("import validation failed (%d errors): %w", len(errs), errors.Join(errs...))
}
