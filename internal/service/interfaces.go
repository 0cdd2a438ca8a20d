package service

import (
	"context"
	"errors"

	"github.com/DaWei8/phasely/internal/domain"
	"github.com/DaWei8/phasely/internal/generation"
	"github.com/DaWei8/phasely/internal/importer"
)

var (
	// ErrAmbiguousID is returned when a plan ID prefix matches more than one plan.
	ErrAmbiguousID = errors.New("ambiguous plan id")
	// ErrItemNotFound is returned when a plan has no calendar item for a day.
	ErrItemNotFound = errors.New("calendar item not found")
)

// PlanGenerator produces a merged calendar for a goal. *generation.Generator
// satisfies it.
type PlanGenerator interface {
	Generate(ctx context.Context, req generation.Request) (*generation.Result, error)
}

// GenerateRequest asks for a new plan to be generated and stored.
type GenerateRequest struct {
	Goal       string
	Duration   int
	OnProgress generation.ProgressFunc
}

type PlanService interface {
	Generate(ctx context.Context, req GenerateRequest) (*domain.StudyPlan, error)
	// Import validates a plan document and stores it as a new plan.
	Import(ctx context.Context, schema *importer.ImportSchema) (*domain.StudyPlan, error)
	Get(ctx context.Context, id string) (*domain.StudyPlan, error)
	// Resolve finds a plan by exact ID or unique ID prefix.
	Resolve(ctx context.Context, idOrPrefix string) (*domain.StudyPlan, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.StudyPlan, error)
	Delete(ctx context.Context, id string) error

	ToggleComplete(ctx context.Context, planID string, day int) (*domain.StudyPlan, error)
	SetCompleted(ctx context.Context, planID string, day int, completed bool) (*domain.StudyPlan, error)
	UpdateItem(ctx context.Context, planID string, day int, patch domain.ItemPatch) (*domain.StudyPlan, error)
	RemoveItem(ctx context.Context, planID string, day int) (*domain.StudyPlan, error)
	ClearCalendar(ctx context.Context, planID string) (*domain.StudyPlan, error)
}
