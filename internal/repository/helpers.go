package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

// marshalColumn encodes v as JSON text for storage in a TEXT column.
func marshalColumn(name string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}
	return string(data), nil
}

// unmarshalColumn decodes a JSON TEXT column into v. Empty text leaves v unchanged.
func unmarshalColumn(name, text string, v any) error {
	if text == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime converts t to the UTC form stored in SQLite.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
