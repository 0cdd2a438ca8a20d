package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_WritesSortedFields(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "set-completed",
		Duration: 12 * time.Millisecond,
		Fields:   map[string]any{"plan_id": "p1", "day": 3},
	})

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "msg=plan_use_case")
	assert.Contains(t, out, "use_case=set-completed")
	assert.Contains(t, out, "duration_ms=12")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("day=3")), bytes.Index(buf.Bytes(), []byte("plan_id=p1")))
}

func TestLogUseCaseObserver_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "delete-plan", Err: errors.New("boom")})

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestNewLogUseCaseObserver_NilLogger(t *testing.T) {
	assert.Equal(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestCombineObservers(t *testing.T) {
	assert.Equal(t, NoopUseCaseObserver{}, combineObservers(nil))
	assert.Equal(t, NoopUseCaseObserver{}, combineObservers([]UseCaseObserver{nil}))

	single := &recordingObserver{}
	assert.Same(t, single, combineObservers([]UseCaseObserver{nil, single}))

	var names []string
	fn := ObserverFunc(func(_ context.Context, e UseCaseEvent) { names = append(names, e.Name) })
	combined := combineObservers([]UseCaseObserver{single, nil, fn})
	combined.ObserveUseCase(context.Background(), UseCaseEvent{Name: "import-plan"})

	assert.Equal(t, []string{"import-plan"}, names)
	assert.Equal(t, "import-plan", single.last().Name)
	assert.True(t, single.last().Success())
}
