package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DaWei8/phasely/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ProgressEvent reports the start (Done == false) or completion (Done == true)
// of a chunk. Completed never decreases within one run.
type ProgressEvent struct {
	Chunk     Chunk
	Total     int
	Completed int
	Done      bool
}

// ProgressFunc receives progress events. Calls are serialized.
type ProgressFunc func(ProgressEvent)

// Request describes one generation run.
type Request struct {
	Goal       string
	Duration   int
	OnProgress ProgressFunc
}

// Result is the merged output of all chunks.
type Result struct {
	Overview     domain.PlanOverview
	Calendar     []domain.CalendarItem
	ModelVersion string
}

// Generator drives the endpoint once per chunk and merges the normalized
// results into one calendar with global day numbers.
type Generator struct {
	endpoint    Endpoint
	concurrency int
	strict      bool
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithConcurrency allows up to n chunk requests in flight. Values below 2 keep
// the default sequential behaviour.
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 1 {
			g.concurrency = n
		}
	}
}

// WithStrict makes a chunk without a calendar array fail the whole run.
func WithStrict(strict bool) Option {
	return func(g *Generator) { g.strict = strict }
}

// WithLogger sets the logger used for chunk-level diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator creates a Generator that calls endpoint.
func NewGenerator(endpoint Endpoint, opts ...Option) *Generator {
	g := &Generator{
		endpoint:    endpoint,
		concurrency: 1,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FromConfig builds generator options from cfg.
func FromConfig(cfg Config) []Option {
	return []Option{WithConcurrency(cfg.Concurrency), WithStrict(cfg.Strict)}
}

// GenerateCalendar returns the merged calendar for goal over totalDuration days.
// Any failed chunk aborts the run and no partial calendar is returned.
func (g *Generator) GenerateCalendar(ctx context.Context, goal string, totalDuration int) ([]domain.CalendarItem, error) {
	res, err := g.Generate(ctx, Request{Goal: goal, Duration: totalDuration})
	if err != nil {
		return nil, err
	}
	return res.Calendar, nil
}

// Generate runs the full chunked pipeline and also returns the overview from
// the first chunk.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := domain.ValidateGenerationInput(req.Goal, req.Duration); err != nil {
		return nil, err
	}

	chunks := PlanChunks(req.Duration)
	progress := newProgressReporter(req.OnProgress, len(chunks))

	if g.concurrency > 1 && len(chunks) > 1 {
		return g.generateParallel(ctx, req, chunks, progress)
	}

	res := &Result{Calendar: make([]domain.CalendarItem, 0, req.Duration)}
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := g.runChunk(ctx, req, c, progress)
		if err != nil {
			return nil, err
		}
		if c.Index == 0 {
			res.Overview = out.overview
			res.ModelVersion = out.modelVersion
		}
		res.Calendar = append(res.Calendar, out.items...)
	}
	return res, nil
}

// generateParallel issues up to g.concurrency chunk requests at once and
// concatenates the results by chunk index.
func (g *Generator) generateParallel(ctx context.Context, req Request, chunks []Chunk, progress *progressReporter) (*Result, error) {
	perChunk := make([]chunkOutput, len(chunks))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for _, c := range chunks {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			out, err := g.runChunk(egCtx, req, c, progress)
			if err != nil {
				return err
			}
			perChunk[c.Index] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Overview:     perChunk[0].overview,
		ModelVersion: perChunk[0].modelVersion,
		Calendar:     make([]domain.CalendarItem, 0, req.Duration),
	}
	for _, out := range perChunk {
		res.Calendar = append(res.Calendar, out.items...)
	}
	return res, nil
}

type chunkOutput struct {
	items        []domain.CalendarItem
	overview     domain.PlanOverview
	modelVersion string
}

func (g *Generator) runChunk(ctx context.Context, req Request, c Chunk, progress *progressReporter) (chunkOutput, error) {
	progress.started(c)

	prompt := BuildChunkPrompt(req.Goal, req.Duration, c.StartDay, c.EndDay)
	raw, err := g.endpoint.GeneratePlan(ctx, prompt, c.ChunkDuration)
	if err != nil {
		g.logger.ErrorContext(ctx, "generation_chunk_failed",
			"chunk", c.Index+1, "start_day", c.StartDay, "end_day", c.EndDay, "error", err.Error())
		return chunkOutput{}, fmt.Errorf("generating days %d-%d: %w", c.StartDay, c.EndDay, err)
	}

	if _, ok := calendarEntries(raw); !ok {
		if g.strict {
			return chunkOutput{}, fmt.Errorf("generating days %d-%d: %w", c.StartDay, c.EndDay, ErrMalformedChunk)
		}
		g.logger.WarnContext(ctx, "generation_chunk_missing_calendar",
			"chunk", c.Index+1, "start_day", c.StartDay, "end_day", c.EndDay)
	}

	out := chunkOutput{
		items:        NormalizeChunk(raw, c.Offset),
		modelVersion: toString(raw["modelVersion"]),
	}
	if c.StartDay == 1 {
		out.overview = ExtractOverview(raw)
	}

	g.logger.InfoContext(ctx, "generation_chunk_complete",
		"chunk", c.Index+1, "start_day", c.StartDay, "end_day", c.EndDay, "items", len(out.items))
	progress.finished(c)
	return out, nil
}

type progressReporter struct {
	mu        sync.Mutex
	fn        ProgressFunc
	total     int
	completed int
}

func newProgressReporter(fn ProgressFunc, total int) *progressReporter {
	return &progressReporter{fn: fn, total: total}
}

func (p *progressReporter) started(c Chunk) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn(ProgressEvent{Chunk: c, Total: p.total, Completed: p.completed})
}

func (p *progressReporter) finished(c Chunk) {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	p.fn(ProgressEvent{Chunk: c, Total: p.total, Completed: p.completed, Done: true})
}
