package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
)

func renderMarkdown(w io.Writer, p *domain.StudyPlan, items []domain.CalendarItem, start time.Time) error {
	var b strings.Builder
	prog := p.Progress()

	fmt.Fprintf(&b, "# %s\n\n", p.Goal)
	fmt.Fprintf(&b, "%d-day study plan starting %s. %d of %d days completed.\n",
		p.Duration, start.Format(time.DateOnly), prog.Completed, prog.Total)

	if intro := p.Overview.Introduction; intro != nil {
		b.WriteString("\n## Introduction\n\n")
		if intro.Title != "" {
			fmt.Fprintf(&b, "**%s**\n\n", intro.Title)
		}
		if intro.Overview != "" {
			fmt.Fprintf(&b, "%s\n\n", intro.Overview)
		}
		for _, g := range intro.Goals {
			fmt.Fprintf(&b, "- %s\n", g)
		}
	}

	if len(p.Overview.Phases) > 0 {
		b.WriteString("\n## Phases\n\n")
		for _, ph := range p.Overview.Phases {
			fmt.Fprintf(&b, "%d. **%s**", ph.Number, ph.Title)
			if ph.Duration != "" {
				fmt.Fprintf(&b, " (%s)", ph.Duration)
			}
			if ph.Description != "" {
				fmt.Fprintf(&b, ": %s", ph.Description)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Calendar\n")
	currentPhase := -1
	for _, item := range items {
		if item.Phase != currentPhase {
			currentPhase = item.Phase
			heading := fmt.Sprintf("Phase %d", item.Phase)
			if title := phaseTitle(p.Overview.Phases, item.Phase); title != "" {
				heading += ": " + title
			}
			fmt.Fprintf(&b, "\n### %s\n\n", heading)
		}

		check := " "
		if item.Completed {
			check = "x"
		}
		fmt.Fprintf(&b, "- [%s] **Day %d (%s): %s**", check, item.Day,
			DayDate(start, item.Day).Format("Mon Jan 2"), item.Title)
		if item.Time != "" {
			fmt.Fprintf(&b, " _%s_", item.Time)
		}
		b.WriteString("\n")
		if item.Description != "" {
			fmt.Fprintf(&b, "  %s\n", item.Description)
		}
		for _, r := range item.Resources {
			fmt.Fprintf(&b, "  - <%s>\n", r)
		}
	}

	if len(prog.MissingDays) > 0 {
		fmt.Fprintf(&b, "\n> Days without a task: %s\n", joinInts(prog.MissingDays))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
