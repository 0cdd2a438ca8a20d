package llm

import (
	"context"
	"log/slog"
	"time"
)

// LLMCallEvent describes one Generate call, retries included.
type LLMCallEvent struct {
	Task      TaskType
	Provider  Provider
	Model     string
	Latency   time.Duration
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer is notified after every Generate call.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(LLMCallEvent)

func (f ObserverFunc) OnCallComplete(event LLMCallEvent) { f(event) }

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}

// NewLogObserver logs one "llm_call" record per event: info on success,
// warn on failure with the error code.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return ObserverFunc(func(e LLMCallEvent) {
		level, status := slog.LevelInfo, "ok"
		if !e.Success {
			level, status = slog.LevelWarn, "err:"+e.ErrorCode
		}
		logger.LogAttrs(context.Background(), level, "llm_call",
			slog.String("task", string(e.Task)),
			slog.String("provider", string(e.Provider)),
			slog.String("model", e.Model),
			slog.Int64("latency_ms", e.Latency.Milliseconds()),
			slog.Int("attempts", e.Attempts),
			slog.String("status", status),
		)
	})
}
