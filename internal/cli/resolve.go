package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/DaWei8/phasely/internal/domain"
	"github.com/DaWei8/phasely/internal/repository"
	"github.com/DaWei8/phasely/internal/service"
)

// resolvePlan looks a plan up by full ID or unique ID prefix and turns the
// service errors into messages that name the user's input.
func resolvePlan(ctx context.Context, app *App, input string) (*domain.StudyPlan, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("plan ID is required")
	}

	p, err := app.Plans.Resolve(ctx, input)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("plan not found: %q", input)
	case errors.Is(err, service.ErrAmbiguousID):
		return nil, fmt.Errorf("plan ID prefix %q is ambiguous", input)
	case err != nil:
		return nil, err
	}
	return p, nil
}

// parseDay parses a 1-based calendar day argument.
func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || day <= 0 {
		return 0, fmt.Errorf("invalid day %q: expected a positive number", s)
	}
	return day, nil
}

// resolvePlanDay resolves the common "<plan> <day>" argument pair.
func resolvePlanDay(ctx context.Context, app *App, args []string) (*domain.StudyPlan, int, error) {
	p, err := resolvePlan(ctx, app, args[0])
	if err != nil {
		return nil, 0, err
	}
	day, err := parseDay(args[1])
	if err != nil {
		return nil, 0, err
	}
	return p, day, nil
}
