package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// StudyPlan is a persisted generation run: the user's goal, the requested
// duration and everything the generation endpoint produced for it.
type StudyPlan struct {
	ID       string
	Goal     string
	Duration int
	Overview PlanOverview
	Calendar []CalendarItem
	// ModelVersion is the model reported by the endpoint for the first chunk.
	ModelVersion string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PlanProgress summarises completion of a plan's calendar.
type PlanProgress struct {
	Total       int
	Completed   int
	Percent     float64
	MissingDays []int
}

// Progress computes completion counts and the days in 1..Duration that have
// no calendar item.
func (p *StudyPlan) Progress() PlanProgress {
	prog := PlanProgress{Total: len(p.Calendar)}
	for _, item := range p.Calendar {
		if item.Completed {
			prog.Completed++
		}
	}
	if prog.Total > 0 {
		prog.Percent = float64(prog.Completed) / float64(prog.Total) * 100
	}
	prog.MissingDays = MissingDays(p.Calendar, p.Duration)
	return prog
}

// SortCalendar orders items by day in place.
func SortCalendar(items []CalendarItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Day < items[j].Day })
}

// MissingDays returns the days in 1..duration not covered by any item.
func MissingDays(items []CalendarItem, duration int) []int {
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		seen[item.Day] = true
	}
	var missing []int
	for d := 1; d <= duration; d++ {
		if !seen[d] {
			missing = append(missing, d)
		}
	}
	return missing
}

// DisplayID returns the first 8 characters of the plan ID.
func (p *StudyPlan) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// ItemPatch carries user edits to a single calendar item. Nil fields are left unchanged.
type ItemPatch struct {
	Title       *string
	Time        *string
	Description *string
	Phase       *int
	Resources   []string
}

const (
	MinManualResources = 2
	MaxManualResources = 5
)

// Apply merges the patch into item. Manually supplied resources are cleaned
// with CleanResources and must then number between MinManualResources and
// MaxManualResources.
func (pt ItemPatch) Apply(item *CalendarItem) error {
	next := *item
	if pt.Title != nil {
		title := strings.TrimSpace(*pt.Title)
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}
		next.Title = title
	}
	if pt.Time != nil {
		next.Time = *pt.Time
	}
	if pt.Description != nil {
		next.Description = *pt.Description
	}
	if pt.Phase != nil {
		if *pt.Phase <= 0 {
			return fmt.Errorf("phase must be positive, got %d", *pt.Phase)
		}
		next.Phase = *pt.Phase
	}
	if pt.Resources != nil {
		res := CleanResources(pt.Resources)
		if len(res) < MinManualResources || len(res) > MaxManualResources {
			return fmt.Errorf("expected %d-%d resources, got %d", MinManualResources, MaxManualResources, len(res))
		}
		next.Resources = res
	}
	*item = next
	return nil
}

// CleanResources trims entries and drops empty and repeated ones, keeping
// first-seen order.
func CleanResources(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
