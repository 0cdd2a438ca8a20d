// Package export renders stored study plans as calendar files and documents.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DaWei8/phasely/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatICS      Format = "ics"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "md"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatICS, FormatJSON, FormatYAML, FormatMarkdown}

// ParseFormat accepts a format name or common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ics", "ical", "icalendar":
		return FormatICS, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want ics, json, yaml or md)", s)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Options controls rendering.
type Options struct {
	// StartDate is the calendar date of day 1. Only the date part is used.
	// The zero value means the plan's creation date.
	StartDate time.Time
}

func (o Options) startDate(p *domain.StudyPlan) time.Time {
	start := o.StartDate
	if start.IsZero() {
		start = p.CreatedAt
	}
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}

// DayDate returns the calendar date of day within a plan starting on start.
func DayDate(start time.Time, day int) time.Time {
	return start.AddDate(0, 0, day-1)
}

// Render writes p to w in format.
func Render(w io.Writer, p *domain.StudyPlan, format Format, opts Options) error {
	items := make([]domain.CalendarItem, len(p.Calendar))
	copy(items, p.Calendar)
	domain.SortCalendar(items)

	switch format {
	case FormatICS:
		return renderICS(w, p, items, opts.startDate(p))
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newDocument(p, items, opts.startDate(p)))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDocument(p, items, opts.startDate(p))); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		return renderMarkdown(w, p, items, opts.startDate(p))
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// document is the JSON and YAML representation of a plan.
type document struct {
	ID           string                `json:"id" yaml:"id"`
	Goal         string                `json:"goal" yaml:"goal"`
	Duration     int                   `json:"duration" yaml:"duration"`
	StartDate    string                `json:"startDate" yaml:"startDate"`
	ModelVersion string                `json:"modelVersion,omitempty" yaml:"modelVersion,omitempty"`
	CreatedAt    time.Time             `json:"createdAt" yaml:"createdAt"`
	Introduction *domain.Introduction  `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	Phases       []domain.Phase        `json:"phases,omitempty" yaml:"phases,omitempty"`
	Progress     progressDocument      `json:"progress" yaml:"progress"`
	Calendar     []domain.CalendarItem `json:"calendar" yaml:"calendar"`
}

type progressDocument struct {
	Completed   int   `json:"completed" yaml:"completed"`
	Total       int   `json:"total" yaml:"total"`
	MissingDays []int `json:"missingDays,omitempty" yaml:"missingDays,omitempty"`
}

func newDocument(p *domain.StudyPlan, items []domain.CalendarItem, start time.Time) document {
	prog := p.Progress()
	if items == nil {
		items = []domain.CalendarItem{}
	}
	return document{
		ID:           p.ID,
		Goal:         p.Goal,
		Duration:     p.Duration,
		StartDate:    start.Format(time.DateOnly),
		ModelVersion: p.ModelVersion,
		CreatedAt:    p.CreatedAt,
		Introduction: p.Overview.Introduction,
		Phases:       p.Overview.Phases,
		Progress: progressDocument{
			Completed:   prog.Completed,
			Total:       prog.Total,
			MissingDays: prog.MissingDays,
		},
		Calendar: items,
	}
}
