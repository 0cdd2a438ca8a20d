package domain

// CalendarItem is one day of a generated study calendar.
type CalendarItem struct {
	Day         int      `json:"day" yaml:"day"`
	Phase       int      `json:"phase" yaml:"phase"`
	Title       string   `json:"title" yaml:"title"`
	Time        string   `json:"time" yaml:"time"`
	Description string   `json:"description" yaml:"description"`
	Resources   []string `json:"resources" yaml:"resources"`
	Completed   bool     `json:"completed" yaml:"completed"`
}

// Introduction is the optional preamble returned with the first chunk.
type Introduction struct {
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Overview string   `json:"overview,omitempty" yaml:"overview,omitempty"`
	Goals    []string `json:"goals,omitempty" yaml:"goals,omitempty"`
}

// Phase is one of the plan phases (normally seven) the calendar days belong to.
type Phase struct {
	Number      int    `json:"number" yaml:"number"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Duration    string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// PlanOverview holds the non-calendar parts of a generated plan.
type PlanOverview struct {
	Introduction *Introduction `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	Phases       []Phase       `json:"plan,omitempty" yaml:"plan,omitempty"`
}

// FindItem returns the index of the item scheduled on day, or -1.
func FindItem(items []CalendarItem, day int) int {
	for i := range items {
		if items[i].Day == day {
			return i
		}
	}
	return -1
}
