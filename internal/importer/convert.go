package importer

import (
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
	"github.com/google/uuid"
)

// Convert transforms a validated ImportSchema into a plan ready for
// persistence. The plan always gets a fresh ID so importing the same file
// twice yields two plans. Call ValidateImportSchema first; Convert assumes
// the schema is valid.
func Convert(schema *ImportSchema, now time.Time) *domain.StudyPlan {
	plan := &domain.StudyPlan{
		ID:           uuid.New().String(),
		Goal:         strings.TrimSpace(schema.Goal),
		Duration:     schema.Duration,
		ModelVersion: schema.ModelVersion,
		Calendar:     make([]domain.CalendarItem, 0, len(schema.Calendar)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if intro := schema.Introduction; intro != nil {
		plan.Overview.Introduction = &domain.Introduction{
			Title:    intro.Title,
			Overview: intro.Overview,
			Goals:    intro.Goals,
		}
	}
	for _, ph := range schema.Phases {
		plan.Overview.Phases = append(plan.Overview.Phases, domain.Phase{
			Number:      ph.Number,
			Title:       ph.Title,
			Description: ph.Description,
			Duration:    ph.Duration,
		})
	}

	for _, item := range schema.Calendar {
		plan.Calendar = append(plan.Calendar, domain.CalendarItem{
			Day:         item.Day,
			Phase:       item.Phase,
			Title:       strings.TrimSpace(item.Title),
			Time:        item.Time,
			Description: item.Description,
			Resources:   domain.CleanResources(item.Resources),
			Completed:   item.Completed,
		})
	}
	domain.SortCalendar(plan.Calendar)

	return plan
}
