package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
	"github.com/stretchr/testify/assert"
)

func fmtPlan() *domain.StudyPlan {
	return &domain.StudyPlan{
		ID:       "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		Goal:     "Learn Go",
		Duration: 4,
		Overview: domain.PlanOverview{
			Introduction: &domain.Introduction{Title: "Go fast", Overview: "Four days.", Goals: []string{"Ship a CLI"}},
			Phases:       []domain.Phase{{Number: 1, Title: "Basics", Duration: "Days 1-2"}},
		},
		Calendar: []domain.CalendarItem{
			{Day: 2, Phase: 1, Title: "Structs", Time: "1 hour", Resources: []string{"https://go.dev/tour"}},
			{Day: 1, Phase: 1, Title: "Install", Completed: true, Description: "Set up the toolchain."},
			{Day: 4, Phase: 2, Title: "Ship"},
		},
		ModelVersion: "llama3.2",
		CreatedAt:    time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestFormatPlanDetail(t *testing.T) {
	out := FormatPlanDetail(fmtPlan(), DetailOptions{})

	assert.Contains(t, out, "Learn Go\n────────")
	assert.NotContains(t, out, "LEARN GO")
	assert.Contains(t, out, "PHASES")
	assert.Contains(t, out, "CALENDAR")
	assert.Contains(t, out, "a1b2c3d4")
	assert.Contains(t, out, "model: llama3.2")
	assert.Contains(t, out, "Go fast")
	assert.Contains(t, out, "Ship a CLI")
	assert.Contains(t, out, "Basics")
	assert.Contains(t, out, "Day   1")
	assert.Contains(t, out, "1 day without a task: 3")
	assert.NotContains(t, out, "Set up the toolchain.")

	verbose := FormatPlanDetail(fmtPlan(), DetailOptions{Verbose: true})
	assert.Contains(t, verbose, "Set up the toolchain.")
	assert.Contains(t, verbose, "https://go.dev/tour")
}

func TestFormatPlanDetail_SortsByDay(t *testing.T) {
	out := FormatPlanDetail(fmtPlan(), DetailOptions{})
	first := strings.Index(out, "Install")
	second := strings.Index(out, "Structs")
	assert.True(t, first >= 0 && second > first)
}

func TestFormatPlanDetail_EmptyCalendar(t *testing.T) {
	p := fmtPlan()
	p.Calendar = nil
	out := FormatPlanDetail(p, DetailOptions{})
	assert.Contains(t, out, "The calendar is empty.")
	assert.Contains(t, out, "4 days without a task")
}

func TestFormatPlanList(t *testing.T) {
	now := time.Date(2026, 2, 4, 9, 0, 0, 0, time.UTC)
	out := FormatPlanList([]*domain.StudyPlan{fmtPlan()}, now)
	assert.Contains(t, out, "GOAL")
	assert.Contains(t, out, "Learn Go")
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "3d ago")

	assert.Contains(t, FormatPlanList(nil, now), "No study plans yet")
}

func TestFormatItem(t *testing.T) {
	out := FormatItem(fmtPlan().Calendar[0])
	assert.Contains(t, out, "Structs")
	assert.Contains(t, out, "1 hour")
	assert.Contains(t, out, "https://go.dev/tour")
}

func TestJoinDays(t *testing.T) {
	assert.Equal(t, "1, 2", joinDays([]int{1, 2}))
	long := make([]int, 12)
	for i := range long {
		long[i] = i + 1
	}
	assert.Equal(t, "1, 2, 3, 4, 5, 6, 7, 8, 9, 10 and 2 more", joinDays(long))
}
