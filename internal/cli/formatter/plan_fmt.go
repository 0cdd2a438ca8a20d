package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
)

// FormatPlanList renders the history table of stored plans.
func FormatPlanList(plans []*domain.StudyPlan, now time.Time) string {
	if len(plans) == 0 {
		return Dim("No study plans yet. Run 'phasely generate' to create one.") + "\n"
	}

	headers := []string{"ID", "GOAL", "DAYS", "PROGRESS", "CREATED"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		prog := p.Progress()
		rows = append(rows, []string{
			TruncID(p.ID),
			Truncate(p.Goal, 40),
			fmt.Sprintf("%d", p.Duration),
			fmt.Sprintf("%s %s", RenderCompactBar(prog.Percent/100, 10, false), Dim(fmt.Sprintf("%d/%d", prog.Completed, prog.Total))),
			Dim(RelativeDateFrom(p.CreatedAt, now)),
		})
	}
	return RenderTable(headers, rows)
}

// DetailOptions controls FormatPlanDetail.
type DetailOptions struct {
	// Verbose includes descriptions and resources for every day.
	Verbose bool
}

// FormatPlanDetail renders a plan with its overview and calendar.
func FormatPlanDetail(p *domain.StudyPlan, opts DetailOptions) string {
	var b strings.Builder
	prog := p.Progress()

	b.WriteString(Title(p.Goal))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s  %s\n",
		TruncID(p.ID),
		Dim(Plural(p.Duration, "day")),
		RenderProgress(prog.Percent/100, 20),
	)
	if p.ModelVersion != "" {
		fmt.Fprintf(&b, "%s\n", Dim("model: "+p.ModelVersion))
	}

	if intro := p.Overview.Introduction; intro != nil {
		var ib strings.Builder
		if intro.Overview != "" {
			ib.WriteString(intro.Overview)
		}
		for _, g := range intro.Goals {
			if ib.Len() > 0 {
				ib.WriteString("\n")
			}
			ib.WriteString(StyleGreen.Render("• ") + g)
		}
		title := intro.Title
		if title == "" {
			title = "Introduction"
		}
		b.WriteString("\n")
		b.WriteString(RenderBox(title, ib.String()))
		b.WriteString("\n")
	}

	if len(p.Overview.Phases) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Phases"))
		b.WriteString("\n")
		for _, ph := range p.Overview.Phases {
			line := fmt.Sprintf("%s %s", PhaseBadge(ph.Number), Bold(ph.Title))
			if ph.Duration != "" {
				line += " " + Dim("("+ph.Duration+")")
			}
			b.WriteString(line + "\n")
			if opts.Verbose && ph.Description != "" {
				b.WriteString("   " + Dim(ph.Description) + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(Header("Calendar"))
	b.WriteString("\n")
	if len(p.Calendar) == 0 {
		b.WriteString(Dim("The calendar is empty.") + "\n")
	}

	items := make([]domain.CalendarItem, len(p.Calendar))
	copy(items, p.Calendar)
	domain.SortCalendar(items)
	for _, item := range items {
		b.WriteString(formatItemLine(item))
		b.WriteString("\n")
		if opts.Verbose {
			b.WriteString(formatItemBody(item, "      "))
		}
	}

	if len(prog.MissingDays) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleYellow.Render(fmt.Sprintf("⚠ %s without a task: %s",
			Plural(len(prog.MissingDays), "day"), joinDays(prog.MissingDays))))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatItem renders one calendar item with all of its fields.
func FormatItem(item domain.CalendarItem) string {
	return formatItemLine(item) + "\n" + formatItemBody(item, "      ")
}

// FormatItemChange renders a one-line confirmation for an item mutation.
func FormatItemChange(verb string, p *domain.StudyPlan, day int) string {
	prog := p.Progress()
	return fmt.Sprintf("%s day %d of %s  %s\n",
		verb, day, Bold(Truncate(p.Goal, 40)), Dim(fmt.Sprintf("(%d/%d done)", prog.Completed, prog.Total)))
}

func formatItemLine(item domain.CalendarItem) string {
	line := fmt.Sprintf("%s %s %s %s",
		CheckMark(item.Completed),
		StyleFg.Render(fmt.Sprintf("Day %3d", item.Day)),
		PhaseBadge(item.Phase),
		item.Title,
	)
	if item.Time != "" {
		line += "  " + Dim(item.Time)
	}
	return line
}

func formatItemBody(item domain.CalendarItem, indent string) string {
	var b strings.Builder
	if item.Description != "" {
		b.WriteString(indent + item.Description + "\n")
	}
	for _, r := range item.Resources {
		b.WriteString(indent + StyleBlue.Render("↳ "+r) + "\n")
	}
	return b.String()
}

func joinDays(days []int) string {
	const maxShown = 10
	parts := make([]string, 0, min(len(days), maxShown))
	for i, d := range days {
		if i == maxShown {
			break
		}
		parts = append(parts, fmt.Sprintf("%d", d))
	}
	s := strings.Join(parts, ", ")
	if len(days) > maxShown {
		s += fmt.Sprintf(" and %d more", len(days)-maxShown)
	}
	return s
}
