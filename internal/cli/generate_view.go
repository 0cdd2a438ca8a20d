package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/DaWei8/phasely/internal/cli/formatter"
	"github.com/DaWei8/phasely/internal/domain"
	"github.com/DaWei8/phasely/internal/generation"
	"github.com/DaWei8/phasely/internal/service"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type progressMsg generation.ProgressEvent

type generateDoneMsg struct {
	plan *domain.StudyPlan
	err  error
}

// generateModel shows a spinner and a chunk progress bar while a plan is
// being generated. Ctrl+C or Esc cancels the run.
type generateModel struct {
	goal     string
	duration int

	total     int
	completed int
	current   generation.Chunk
	started   bool

	spinner spinner.Model
	bar     progress.Model
	cancel  context.CancelFunc

	plan      *domain.StudyPlan
	err       error
	done      bool
	cancelled bool
}

func newGenerateModel(goal string, duration int, cancel context.CancelFunc) generateModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(formatter.ColorHeader)

	return generateModel{
		goal:     goal,
		duration: duration,
		total:    generation.NumChunks(duration),
		spinner:  s,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		cancel:   cancel,
	}
}

func (m generateModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(msg.Width-8, 60))
		return m, nil

	case progressMsg:
		m.started = true
		m.current = msg.Chunk
		m.completed = msg.Completed
		m.total = msg.Total
		return m, nil

	case generateDoneMsg:
		m.plan = msg.plan
		m.err = msg.err
		m.done = true
		if msg.err == nil && m.total > 0 {
			m.completed = m.total
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m generateModel) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.completed) / float64(m.total)
}

func (m generateModel) View() string {
	var b strings.Builder

	switch {
	case m.cancelled:
		b.WriteString(formatter.StyleYellow.Render("Generation cancelled."))
		b.WriteString("\n")
		return b.String()
	case m.done && m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Generation failed: " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	case m.done:
		fmt.Fprintf(&b, "%s %s\n", formatter.CheckMark(true), formatter.Bold(fmt.Sprintf("Generated %s for %q", formatter.Plural(m.duration, "day"), m.goal)))
		return b.String()
	}

	fmt.Fprintf(&b, "%s Generating %s for %s\n",
		m.spinner.View(),
		formatter.Plural(m.duration, "day"),
		formatter.Bold(fmt.Sprintf("%q", m.goal)))
	fmt.Fprintf(&b, "  %s\n", m.bar.ViewAs(m.percent()))
	if m.started {
		fmt.Fprintf(&b, "  %s\n", formatter.Dim(fmt.Sprintf("chunk %d of %d · days %d-%d",
			m.current.Index+1, m.total, m.current.StartDay, m.current.EndDay)))
	} else {
		fmt.Fprintf(&b, "  %s\n", formatter.Dim("contacting generation endpoint..."))
	}
	b.WriteString(formatter.Dim("  ctrl+c to cancel"))
	b.WriteString("\n")
	return b.String()
}

type generateResult struct {
	plan *domain.StudyPlan
	err  error
}

// generateWithView runs the plan service behind the progress view. If the
// view fails, generation still runs to completion and its result is
// returned; see viewOutcome.
func generateWithView(ctx context.Context, app *App, req service.GenerateRequest, out io.Writer) (*domain.StudyPlan, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newGenerateModel(req.Goal, req.Duration, cancel), tea.WithOutput(out))

	results := make(chan generateResult, 1)
	req.OnProgress = func(e generation.ProgressEvent) { p.Send(progressMsg(e)) }
	go func() {
		plan, err := app.Plans.Generate(ctx, req)
		results <- generateResult{plan: plan, err: err}
		p.Send(generateDoneMsg{plan: plan, err: err})
	}()

	_, viewErr := p.Run()
	return viewOutcome(viewErr, <-results)
}

// viewOutcome prefers the generation result over a progress view failure:
// a saved plan is returned as is, and the view error is only surfaced
// alongside a failed generation.
func viewOutcome(viewErr error, res generateResult) (*domain.StudyPlan, error) {
	if res.err != nil && viewErr != nil {
		return nil, errors.Join(res.err, fmt.Errorf("running progress view: %w", viewErr))
	}
	return res.plan, res.err
}

// progressPrinter writes one line per chunk event for non-interactive runs.
func progressPrinter(w io.Writer) generation.ProgressFunc {
	return func(e generation.ProgressEvent) {
		if e.Done {
			fmt.Fprintf(w, "  %s days %d-%d ready (%d/%d)\n",
				formatter.CheckMark(true), e.Chunk.StartDay, e.Chunk.EndDay, e.Completed, e.Total)
			return
		}
		fmt.Fprintf(w, "Generating days %d-%d (chunk %d of %d)...\n",
			e.Chunk.StartDay, e.Chunk.EndDay, e.Chunk.Index+1, e.Total)
	}
}
