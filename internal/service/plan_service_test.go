package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
	"github.com/DaWei8/phasely/internal/export"
	"github.com/DaWei8/phasely/internal/generation"
	"github.com/DaWei8/phasely/internal/importer"
	"github.com/DaWei8/phasely/internal/repository"
	"github.com/DaWei8/phasely/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func setupPlanService(t *testing.T, endpoint generation.Endpoint) (PlanService, *repository.SQLitePlanRepo, *recordingObserver) {
	t.Helper()
	database := testutil.NewTestDB(t)
	plans := repository.NewSQLitePlanRepo(database)
	obs := &recordingObserver{}
	svc := NewPlanService(generation.NewGenerator(endpoint), plans, testutil.NewTestUoW(database), obs)
	return svc, plans, obs
}

func seedPlan(t *testing.T, plans repository.PlanRepo, days int, opts ...testutil.PlanOption) *domain.StudyPlan {
	t.Helper()
	p := testutil.NewTestPlan("Learn Go", days, opts...)
	require.NoError(t, plans.Create(context.Background(), p))
	return p
}

func TestGenerate_PersistsMergedPlan(t *testing.T) {
	endpoint := &testutil.FakeEndpoint{}
	svc, plans, obs := setupPlanService(t, endpoint)
	ctx := context.Background()

	var events []generation.ProgressEvent
	plan, err := svc.Generate(ctx, GenerateRequest{
		Goal:       "  Learn Rust  ",
		Duration:   45,
		OnProgress: func(e generation.ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	assert.Equal(t, 2, endpoint.Calls())
	assert.Equal(t, "Learn Rust", plan.Goal)
	assert.Equal(t, "fake-model", plan.ModelVersion)
	require.Len(t, plan.Calendar, 45)
	for i, item := range plan.Calendar {
		assert.Equal(t, i+1, item.Day)
		assert.False(t, item.Completed)
	}
	require.NotNil(t, plan.Overview.Introduction)
	assert.Len(t, plan.Overview.Phases, 7)
	assert.Len(t, events, 4)

	stored, err := plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Calendar, stored.Calendar)
	assert.Equal(t, "Overview", stored.Overview.Introduction.Title)

	last := obs.last()
	assert.Equal(t, "generate-plan", last.Name)
	assert.True(t, last.Success())
	assert.Equal(t, plan.ID, last.Fields["plan_id"])
	assert.Equal(t, 2, last.Fields["chunks"])
}

func TestGenerate_InvalidInputSkipsEndpoint(t *testing.T) {
	endpoint := &testutil.FakeEndpoint{}
	svc, plans, obs := setupPlanService(t, endpoint)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateRequest{Goal: "   ", Duration: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidGoal)

	_, err = svc.Generate(ctx, GenerateRequest{Goal: "Go", Duration: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = svc.Generate(ctx, GenerateRequest{Goal: "Go", Duration: domain.MaxDuration + 1})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	assert.Zero(t, endpoint.Calls())
	ids, err := plans.ListIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.False(t, obs.last().Success())
}

func TestGenerate_EndpointFailureStoresNothing(t *testing.T) {
	endpoint := &testutil.FakeEndpoint{Err: &generation.EndpointError{StatusCode: 503, Body: "down"}}
	svc, plans, _ := setupPlanService(t, endpoint)
	ctx := context.Background()

	plan, err := svc.Generate(ctx, GenerateRequest{Goal: "Go", Duration: 10})
	require.Error(t, err)
	assert.Nil(t, plan)

	var epErr *generation.EndpointError
	require.True(t, errors.As(err, &epErr))
	assert.Equal(t, 503, epErr.StatusCode)

	ids, err := plans.ListIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestResolve_ByExactIDAndPrefix(t *testing.T) {
	svc, plans, _ := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()

	a := seedPlan(t, plans, 3, testutil.WithID("aaaa1111-0000-0000-0000-000000000000"))
	seedPlan(t, plans, 3, testutil.WithID("aaaa2222-0000-0000-0000-000000000000"))
	seedPlan(t, plans, 3, testutil.WithID("bbbb1111-0000-0000-0000-000000000000"))

	got, err := svc.Resolve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = svc.Resolve(ctx, "aaaa1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = svc.Resolve(ctx, "aaaa")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = svc.Resolve(ctx, "cccc")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Resolve(ctx, "  ")
	assert.Error(t, err)
}

func TestListRecent_NewestFirst(t *testing.T) {
	svc, plans, _ := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	old := seedPlan(t, plans, 2, testutil.WithCreatedAt(base))
	mid := seedPlan(t, plans, 2, testutil.WithCreatedAt(base.Add(time.Hour)))
	newest := seedPlan(t, plans, 2, testutil.WithCreatedAt(base.Add(2*time.Hour)))

	got, err := svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newest.ID, got[0].ID)
	assert.Equal(t, mid.ID, got[1].ID)

	all, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, old.ID, all[2].ID)
}

func TestToggleComplete_FlipsAndPersists(t *testing.T) {
	svc, plans, obs := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 5)

	updated, err := svc.ToggleComplete(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, updated.Calendar[2].Completed)

	stored, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Calendar[2].Completed)
	assert.Equal(t, 1, stored.Progress().Completed)

	_, err = svc.ToggleComplete(ctx, p.ID, 3)
	require.NoError(t, err)
	stored, err = plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Calendar[2].Completed)

	last := obs.last()
	assert.Equal(t, "toggle-item", last.Name)
	assert.Equal(t, 3, last.Fields["day"])
}

func TestSetCompleted_IsIdempotent(t *testing.T) {
	svc, plans, _ := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 4)

	for range 2 {
		_, err := svc.SetCompleted(ctx, p.ID, 1, true)
		require.NoError(t, err)
	}
	stored, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Calendar[0].Completed)

	_, err = svc.SetCompleted(ctx, p.ID, 1, false)
	require.NoError(t, err)
	stored, err = plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Calendar[0].Completed)
}

func TestItemMutations_UnknownDayOrPlan(t *testing.T) {
	svc, plans, obs := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 2)

	_, err := svc.ToggleComplete(ctx, p.ID, 9)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.False(t, obs.last().Success())

	_, err = svc.RemoveItem(ctx, p.ID, 0)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.ToggleComplete(ctx, "missing", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateItem_AppliesPatch(t *testing.T) {
	svc, plans, _ := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 3)

	title := "Read the tour"
	phase := 2
	_, err := svc.UpdateItem(ctx, p.ID, 2, domain.ItemPatch{
		Title:     &title,
		Phase:     &phase,
		Resources: []string{"https://go.dev/tour", "https://go.dev/doc"},
	})
	require.NoError(t, err)

	stored, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	item := stored.Calendar[1]
	assert.Equal(t, "Read the tour", item.Title)
	assert.Equal(t, 2, item.Phase)
	assert.Equal(t, []string{"https://go.dev/tour", "https://go.dev/doc"}, item.Resources)
	assert.Equal(t, p.Calendar[1].Time, item.Time)
}

func TestUpdateItem_RejectsResourceCountAndLeavesPlan(t *testing.T) {
	svc, plans, _ := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 3)

	title := "Changed"
	_, err := svc.UpdateItem(ctx, p.ID, 1, domain.ItemPatch{
		Title:     &title,
		Resources: []string{"only-one"},
	})
	require.Error(t, err)

	stored, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Calendar[0], stored.Calendar[0])
}

func TestUpdateItem_RejectsBlankTitleAndDuplicateResources(t *testing.T) {
	svc, plans, _ := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 3)

	blank := "   "
	_, err := svc.UpdateItem(ctx, p.ID, 1, domain.ItemPatch{Title: &blank})
	require.Error(t, err)

	_, err = svc.UpdateItem(ctx, p.ID, 1, domain.ItemPatch{
		Resources: []string{"http://a", "http://a", "  "},
	})
	require.Error(t, err)

	stored, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Calendar[0], stored.Calendar[0])

	updated, err := svc.UpdateItem(ctx, p.ID, 1, domain.ItemPatch{
		Resources: []string{" http://a", "http://b ", "http://a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a", "http://b"}, updated.Calendar[0].Resources)
}

func TestToggleComplete_StoresServiceTimestamp(t *testing.T) {
	svc, plans, _ := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 2)

	fixed := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)
	svc.(*planService).now = func() time.Time { return fixed }

	updated, err := svc.ToggleComplete(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(updated.UpdatedAt))

	stored, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, fixed.Equal(stored.UpdatedAt))
}

func TestRemoveItem_ExposesMissingDay(t *testing.T) {
	svc, plans, _ := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 4)

	updated, err := svc.RemoveItem(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Len(t, updated.Calendar, 3)

	stored, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, stored.Progress().MissingDays)
}

func TestClearCalendar_EmptiesButKeepsPlan(t *testing.T) {
	svc, plans, _ := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 4, testutil.WithIntroduction("Intro"))

	_, err := svc.ClearCalendar(ctx, p.ID)
	require.NoError(t, err)

	stored, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Calendar)
	assert.Equal(t, "Intro", stored.Overview.Introduction.Title)
}

func TestDelete_RemovesPlan(t *testing.T) {
	svc, plans, obs := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	p := seedPlan(t, plans, 2)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err := svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, "delete-plan", obs.last().Name)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), repository.ErrNotFound)
}

func TestItemMutation_WriteFailureRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := repository.NewSQLitePlanRepo(database)
	ctx := context.Background()
	p := seedPlan(t, plans, 3)

	writeErr := errors.New("disk full")
	uow := &testutil.FailWritesUoW{DB: database, Err: writeErr}
	svc := NewPlanService(generation.NewGenerator(&testutil.FakeEndpoint{}), plans, uow)

	_, err := svc.ToggleComplete(ctx, p.ID, 1)
	require.ErrorIs(t, err, writeErr)

	stored, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Calendar[0].Completed)
}

func TestImport_RoundTripsExportedPlan(t *testing.T) {
	svc, plans, obs := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()
	original := seedPlan(t, plans, 5, testutil.WithIntroduction("Intro"))
	original.Calendar[1].Completed = true
	require.NoError(t, plans.UpdateCalendar(ctx, original.ID, original.Calendar, time.Now()))

	var buf bytes.Buffer
	require.NoError(t, export.Render(&buf, original, export.FormatJSON, export.Options{}))
	schema, err := importer.ParseJSON(buf.Bytes())
	require.NoError(t, err)

	imported, err := svc.Import(ctx, schema)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, imported.ID)
	assert.Equal(t, "import-plan", obs.last().Name)
	assert.True(t, obs.last().Success())

	stored, err := plans.GetByID(ctx, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Goal, stored.Goal)
	assert.Equal(t, original.Duration, stored.Duration)
	assert.Equal(t, "Intro", stored.Overview.Introduction.Title)
	require.Len(t, stored.Calendar, 5)
	assert.Equal(t, original.Calendar[0].Title, stored.Calendar[0].Title)
	assert.True(t, stored.Calendar[1].Completed)
}

func TestImport_InvalidSchemaStoresNothing(t *testing.T) {
	svc, plans, obs := setupPlanService(t, &testutil.FakeEndpoint{})
	ctx := context.Background()

	_, err := svc.Import(ctx, &importer.ImportSchema{Goal: "Learn Go", Duration: 2,
		Calendar: []importer.CalendarImport{{Day: 3, Title: "Too late"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds duration")
	assert.False(t, obs.last().Success())

	recent, err := plans.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
