package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the document written by the json and yaml exporters.
// Derived sections such as progress are ignored on import.
type ImportSchema struct {
	ID           string           `json:"id,omitempty" yaml:"id,omitempty"`
	Goal         string           `json:"goal" yaml:"goal"`
	Duration     int              `json:"duration" yaml:"duration"`
	StartDate    string           `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	ModelVersion string           `json:"modelVersion,omitempty" yaml:"modelVersion,omitempty"`
	Introduction *IntroImport     `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	Phases       []PhaseImport    `json:"phases,omitempty" yaml:"phases,omitempty"`
	Calendar     []CalendarImport `json:"calendar" yaml:"calendar"`
}

// IntroImport is the optional plan introduction.
type IntroImport struct {
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Overview string   `json:"overview,omitempty" yaml:"overview,omitempty"`
	Goals    []string `json:"goals,omitempty" yaml:"goals,omitempty"`
}

// PhaseImport defines one plan phase.
type PhaseImport struct {
	Number      int    `json:"number" yaml:"number"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Duration    string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// CalendarImport defines one calendar day.
type CalendarImport struct {
	Day         int      `json:"day" yaml:"day"`
	Phase       int      `json:"phase" yaml:"phase"`
	Title       string   `json:"title" yaml:"title"`
	Time        string   `json:"time,omitempty" yaml:"time,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Resources   []string `json:"resources,omitempty" yaml:"resources,omitempty"`
	Completed   bool     `json:"completed,omitempty" yaml:"completed,omitempty"`
}

// LoadImportSchema reads and parses a plan file. Files ending in .yaml or
// .yml are parsed as YAML, everything else as JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON parses a JSON plan document.
func ParseJSON(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

// ParseYAML parses a YAML plan document.
func ParseYAML(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
