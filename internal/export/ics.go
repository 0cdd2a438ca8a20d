package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const productID = "-//phasely//study plan//EN"

// eventUID is stable for a plan and day so re-exports update existing
// events instead of duplicating them.
func eventUID(planID string, day int) string {
	name := fmt.Sprintf("phasely:%s:%d", planID, day)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@phasely"
}

func renderICS(w io.Writer, p *domain.StudyPlan, items []domain.CalendarItem, start time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	stamp := p.UpdatedAt.UTC()
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}

	for _, item := range items {
		date := DayDate(start, item.Day)

		event := cal.AddEvent(eventUID(p.ID, item.Day))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))

		summary := fmt.Sprintf("Day %d: %s", item.Day, item.Title)
		if item.Completed {
			summary = "[done] " + summary
		}
		event.SetSummary(summary)
		event.SetDescription(eventDescription(p, item))
		if len(item.Resources) > 0 {
			event.SetURL(item.Resources[0])
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("writing ics: %w", err)
	}
	return nil
}

func eventDescription(p *domain.StudyPlan, item domain.CalendarItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
	if phase := phaseTitle(p.Overview.Phases, item.Phase); phase != "" {
		fmt.Fprintf(&b, "Phase %d: %s\n", item.Phase, phase)
	} else if item.Phase > 0 {
		fmt.Fprintf(&b, "Phase %d\n", item.Phase)
	}
	if item.Time != "" {
		fmt.Fprintf(&b, "Time: %s\n", item.Time)
	}
	if item.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", item.Description)
	}
	if len(item.Resources) > 0 {
		b.WriteString("\nResources:\n")
		for _, r := range item.Resources {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func phaseTitle(phases []domain.Phase, number int) string {
	for _, ph := range phases {
		if ph.Number == number {
			return ph.Title
		}
	}
	return ""
}
