package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/db"
	"github.com/DaWei8/phasely/internal/domain"
	"github.com/DaWei8/phasely/internal/generation"
	"github.com/DaWei8/phasely/internal/importer"
	"github.com/DaWei8/phasely/internal/repository"
	"github.com/google/uuid"
)

type planService struct {
	generator PlanGenerator
	plans     repository.PlanRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewPlanService(
	generator PlanGenerator,
	plans repository.PlanRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		generator: generator,
		plans:     plans,
		uow:       uow,
		observer:  combineObservers(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *planService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Err:       err,
		Fields:    fields,
	})
}

func (s *planService) Generate(ctx context.Context, req GenerateRequest) (plan *domain.StudyPlan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"duration": req.Duration}
	defer func() { s.observe(ctx, "generate-plan", startedAt, fields, err) }()

	if err = domain.ValidateGenerationInput(req.Goal, req.Duration); err != nil {
		return nil, err
	}
	fields["chunks"] = generation.NumChunks(req.Duration)

	var result *generation.Result
	result, err = s.generator.Generate(ctx, generation.Request{
		Goal:       req.Goal,
		Duration:   req.Duration,
		OnProgress: req.OnProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}

	now := s.now()
	plan = &domain.StudyPlan{
		ID:           uuid.New().String(),
		Goal:         strings.TrimSpace(req.Goal),
		Duration:     req.Duration,
		Overview:     result.Overview,
		Calendar:     result.Calendar,
		ModelVersion: result.ModelVersion,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	fields["plan_id"] = plan.ID
	fields["items"] = len(plan.Calendar)
	if missing := domain.MissingDays(plan.Calendar, plan.Duration); len(missing) > 0 {
		fields["missing_days"] = len(missing)
	}

	if err = s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("saving plan: %w", err)
	}
	return plan, nil
}

func (s *planService) Import(ctx context.Context, schema *importer.ImportSchema) (plan *domain.StudyPlan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "import-plan", startedAt, fields, err) }()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, importer.JoinErrors(errs)
	}

	plan = importer.Convert(schema, s.now())
	fields["plan_id"] = plan.ID
	fields["items"] = len(plan.Calendar)

	if err = s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("saving plan: %w", err)
	}
	return plan, nil
}

func (s *planService) Get(ctx context.Context, id string) (*domain.StudyPlan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) Resolve(ctx context.Context, idOrPrefix string) (*domain.StudyPlan, error) {
	input := strings.TrimSpace(idOrPrefix)
	if input == "" {
		return nil, fmt.Errorf("plan id is required")
	}

	plan, err := s.plans.GetByID(ctx, input)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	ids, err := s.plans.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("plan %q: %w", input, repository.ErrNotFound)
	case 1:
		return s.plans.GetByID(ctx, matches[0])
	default:
		return nil, fmt.Errorf("%w: %q matches %d plans", ErrAmbiguousID, input, len(matches))
	}
}

func (s *planService) ListRecent(ctx context.Context, limit int) ([]*domain.StudyPlan, error) {
	return s.plans.ListRecent(ctx, limit)
}

func (s *planService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "delete-plan", startedAt, map[string]any{"plan_id": id}, err) }()

	return s.plans.Delete(ctx, id)
}

func (s *planService) ToggleComplete(ctx context.Context, planID string, day int) (*domain.StudyPlan, error) {
	return s.mutateCalendar(ctx, "toggle-item", planID, day, func(items []domain.CalendarItem) ([]domain.CalendarItem, error) {
		idx := domain.FindItem(items, day)
		if idx < 0 {
			return nil, itemNotFound(planID, day)
		}
		items[idx].Completed = !items[idx].Completed
		return items, nil
	})
}

func (s *planService) SetCompleted(ctx context.Context, planID string, day int, completed bool) (*domain.StudyPlan, error) {
	return s.mutateCalendar(ctx, "set-item-completed", planID, day, func(items []domain.CalendarItem) ([]domain.CalendarItem, error) {
		idx := domain.FindItem(items, day)
		if idx < 0 {
			return nil, itemNotFound(planID, day)
		}
		items[idx].Completed = completed
		return items, nil
	})
}

func (s *planService) UpdateItem(ctx context.Context, planID string, day int, patch domain.ItemPatch) (*domain.StudyPlan, error) {
	return s.mutateCalendar(ctx, "update-item", planID, day, func(items []domain.CalendarItem) ([]domain.CalendarItem, error) {
		idx := domain.FindItem(items, day)
		if idx < 0 {
			return nil, itemNotFound(planID, day)
		}
		if err := patch.Apply(&items[idx]); err != nil {
			return nil, fmt.Errorf("editing day %d: %w", day, err)
		}
		return items, nil
	})
}

func (s *planService) RemoveItem(ctx context.Context, planID string, day int) (*domain.StudyPlan, error) {
	return s.mutateCalendar(ctx, "remove-item", planID, day, func(items []domain.CalendarItem) ([]domain.CalendarItem, error) {
		idx := domain.FindItem(items, day)
		if idx < 0 {
			return nil, itemNotFound(planID, day)
		}
		return append(items[:idx], items[idx+1:]...), nil
	})
}

func (s *planService) ClearCalendar(ctx context.Context, planID string) (*domain.StudyPlan, error) {
	return s.mutateCalendar(ctx, "clear-calendar", planID, 0, func([]domain.CalendarItem) ([]domain.CalendarItem, error) {
		return []domain.CalendarItem{}, nil
	})
}

// mutateCalendar loads the plan, applies fn to its calendar and writes the
// result back inside one transaction.
func (s *planService) mutateCalendar(
	ctx context.Context,
	name, planID string,
	day int,
	fn func([]domain.CalendarItem) ([]domain.CalendarItem, error),
) (plan *domain.StudyPlan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"plan_id": planID}
	if day > 0 {
		fields["day"] = day
	}
	defer func() { s.observe(ctx, name, startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)

		current, err := txPlans.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		items := make([]domain.CalendarItem, len(current.Calendar))
		copy(items, current.Calendar)

		items, err = fn(items)
		if err != nil {
			return err
		}
		updatedAt := s.now()
		if err := txPlans.UpdateCalendar(ctx, planID, items, updatedAt); err != nil {
			return err
		}

		current.Calendar = items
		current.UpdatedAt = updatedAt
		plan = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func itemNotFound(planID string, day int) error {
	return fmt.Errorf("day %d in plan %s: %w", day, planID, ErrItemNotFound)
}
