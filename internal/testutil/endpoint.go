package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/DaWei8/phasely/internal/generation"
)

// FakeEndpoint answers every chunk request with a complete, well-formed
// calendar of the requested length. The first call also carries an
// introduction and a seven-phase plan.
type FakeEndpoint struct {
	mu      sync.Mutex
	Prompts []string
	// Err, when set, is returned from every call.
	Err error
}

func (f *FakeEndpoint) GeneratePlan(_ context.Context, prompt string, duration int) (generation.RawResponse, error) {
	f.mu.Lock()
	f.Prompts = append(f.Prompts, prompt)
	call := len(f.Prompts)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}

	entries := make([]any, 0, duration)
	for d := 1; d <= duration; d++ {
		entries = append(entries, map[string]any{
			"day":             d,
			"phaseNumber":     (d-1)*7/duration + 1,
			"taskName":        fmt.Sprintf("Chunk %d task %d", call, d),
			"timeCommitment":  "1 hour",
			"taskDescription": "Study and practise.",
			"resources":       []any{"https://example.com/a", map[string]any{"link": "https://example.com/b"}},
		})
	}
	plan := map[string]any{"calendar": entries}
	if call == 1 {
		phases := make([]any, 0, 7)
		for i := 1; i <= 7; i++ {
			phases = append(phases, map[string]any{"phaseNumber": i, "title": fmt.Sprintf("Phase %d", i)})
		}
		plan["introduction"] = map[string]any{"title": "Overview", "overview": "A plan.", "goals": []any{"Learn"}}
		plan["plan"] = phases
	}
	return generation.RawResponse{"plan": plan, "modelVersion": "fake-model"}, nil
}

// Calls returns the number of requests received.
func (f *FakeEndpoint) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}
