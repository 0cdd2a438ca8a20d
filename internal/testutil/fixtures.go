package testutil

import (
	"fmt"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
	"github.com/google/uuid"
)

// PlanOption customises a plan built by NewTestPlan.
type PlanOption func(*domain.StudyPlan)

func WithCreatedAt(t time.Time) PlanOption {
	return func(p *domain.StudyPlan) {
		p.CreatedAt = t
		p.UpdatedAt = t
	}
}

func WithCalendar(items []domain.CalendarItem) PlanOption {
	return func(p *domain.StudyPlan) {
		p.Calendar = items
	}
}

func WithIntroduction(title string) PlanOption {
	return func(p *domain.StudyPlan) {
		p.Overview.Introduction = &domain.Introduction{Title: title}
	}
}

func WithID(id string) PlanOption {
	return func(p *domain.StudyPlan) {
		p.ID = id
	}
}

// NewTestPlan returns a plan with one calendar item per day.
func NewTestPlan(goal string, duration int, opts ...PlanOption) *domain.StudyPlan {
	now := time.Now().UTC()
	p := &domain.StudyPlan{
		ID:        uuid.New().String(),
		Goal:      goal,
		Duration:  duration,
		Calendar:  NewTestCalendar(duration),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestCalendar returns items for days 1..days spread over seven phases.
func NewTestCalendar(days int) []domain.CalendarItem {
	items := make([]domain.CalendarItem, 0, days)
	for d := 1; d <= days; d++ {
		items = append(items, domain.CalendarItem{
			Day:         d,
			Phase:       (d-1)*7/days + 1,
			Title:       fmt.Sprintf("Task %d", d),
			Time:        "1 hour",
			Description: fmt.Sprintf("Work for day %d", d),
			Resources:   []string{fmt.Sprintf("https://example.com/day/%d", d)},
		})
	}
	return items
}
