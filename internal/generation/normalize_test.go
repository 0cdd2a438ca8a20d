package generation

import (
	"encoding/json"
	"testing"

	"github.com/DaWei8/phasely/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrapCalendar(entries ...any) RawResponse {
	return RawResponse{"plan": map[string]any{"calendar": entries}}
}

func TestNormalizeChunk_FieldFallback(t *testing.T) {
	raw := wrapCalendar(map[string]any{
		"day":             1,
		"taskName":        "X",
		"timeCommitment":  "2h",
		"taskDescription": "D",
		"phaseNumber":     3,
		"resources": []any{
			map[string]any{"name": "R", "link": "http://a"},
			"http://b",
		},
	})

	items := NormalizeChunk(raw, 0)
	require.Len(t, items, 1)
	assert.Equal(t, domain.CalendarItem{
		Day:         1,
		Phase:       3,
		Title:       "X",
		Time:        "2h",
		Description: "D",
		Resources:   []string{"http://a", "http://b"},
		Completed:   false,
	}, items[0])
}

func TestNormalizeChunk_AlternateFieldNames(t *testing.T) {
	raw := wrapCalendar(map[string]any{
		"day":         2,
		"title":       "Y",
		"time":        "1 hour",
		"description": "E",
		"phase":       json.Number("4"),
	})

	items := NormalizeChunk(raw, 0)
	require.Len(t, items, 1)
	assert.Equal(t, "Y", items[0].Title)
	assert.Equal(t, "1 hour", items[0].Time)
	assert.Equal(t, "E", items[0].Description)
	assert.Equal(t, 4, items[0].Phase)
	assert.Empty(t, items[0].Resources)
}

func TestNormalizeChunk_PrimaryNameWins(t *testing.T) {
	raw := wrapCalendar(map[string]any{
		"day": 1, "taskName": "primary", "title": "secondary",
	})
	items := NormalizeChunk(raw, 0)
	require.Len(t, items, 1)
	assert.Equal(t, "primary", items[0].Title)
}

func TestNormalizeChunk_Offset(t *testing.T) {
	// Second chunk of a 45-day plan: days 31-45.
	chunk := PlanChunks(45)[1]
	raw := wrapCalendar(map[string]any{"day": json.Number("1"), "taskName": "first of chunk"})

	items := NormalizeChunk(raw, chunk.Offset)
	require.Len(t, items, 1)
	assert.Equal(t, 31, items[0].Day)
}

func TestNormalizeChunk_MissingCalendar(t *testing.T) {
	assert.Empty(t, NormalizeChunk(RawResponse{"plan": map[string]any{}}, 0))
	assert.Empty(t, NormalizeChunk(RawResponse{}, 0))
	assert.Empty(t, NormalizeChunk(RawResponse{"plan": map[string]any{"calendar": "nope"}}, 0))
}

func TestNormalizeChunk_ResourceFiltering(t *testing.T) {
	raw := wrapCalendar(map[string]any{
		"day":      1,
		"taskName": "T",
		"resources": []any{
			"", nil, "http://ok",
			map[string]any{"link": ""},
			map[string]any{"link": "http://ok2"},
		},
	})
	items := NormalizeChunk(raw, 0)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"http://ok", "http://ok2"}, items[0].Resources)
}

func TestNormalizeChunk_ResourceDuplicatesDropped(t *testing.T) {
	raw := wrapCalendar(map[string]any{
		"day":       1,
		"taskName":  "T",
		"resources": []any{"http://a", map[string]any{"link": "http://a"}, "http://b"},
	})
	items := NormalizeChunk(raw, 0)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"http://a", "http://b"}, items[0].Resources)
}

func TestNormalizeChunk_CompletedAlwaysFalse(t *testing.T) {
	raw := wrapCalendar(map[string]any{"day": 1, "taskName": "T", "completed": true})
	items := NormalizeChunk(raw, 0)
	require.Len(t, items, 1)
	assert.False(t, items[0].Completed)
}

func TestNormalizeChunk_SkipsUnplaceableEntries(t *testing.T) {
	raw := wrapCalendar(
		map[string]any{"taskName": "no day"},
		map[string]any{"day": 0, "taskName": "zero"},
		"not an object",
		map[string]any{"day": 2, "taskName": "ok"},
	)
	items := NormalizeChunk(raw, 10)
	require.Len(t, items, 1)
	assert.Equal(t, 12, items[0].Day)
}

func TestNormalizeChunk_TitleFallback(t *testing.T) {
	items := NormalizeChunk(wrapCalendar(map[string]any{"day": 3}), 0)
	require.Len(t, items, 1)
	assert.Equal(t, "Day 3", items[0].Title)
}

func TestExtractOverview(t *testing.T) {
	raw := RawResponse{"plan": map[string]any{
		"introduction": map[string]any{
			"title":    "Go in 60 days",
			"overview": "From zero to services",
			"goals":    []any{"syntax", "", "concurrency"},
		},
		"plan": []any{
			map[string]any{"phaseNumber": json.Number("1"), "title": "Basics", "duration": "Days 1-8"},
			map[string]any{"title": "Types"},
		},
	}}

	ov := ExtractOverview(raw)
	require.NotNil(t, ov.Introduction)
	assert.Equal(t, "Go in 60 days", ov.Introduction.Title)
	assert.Equal(t, []string{"syntax", "concurrency"}, ov.Introduction.Goals)
	require.Len(t, ov.Phases, 2)
	assert.Equal(t, 1, ov.Phases[0].Number)
	assert.Equal(t, "Days 1-8", ov.Phases[0].Duration)
	assert.Equal(t, 2, ov.Phases[1].Number)
}

func TestExtractOverview_Missing(t *testing.T) {
	ov := ExtractOverview(RawResponse{"plan": map[string]any{"calendar": []any{}}})
	assert.Nil(t, ov.Introduction)
	assert.Empty(t, ov.Phases)
}
