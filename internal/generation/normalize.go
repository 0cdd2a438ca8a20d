package generation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/DaWei8/phasely/internal/domain"
)

// NormalizeChunk maps the endpoint's calendar entries onto CalendarItem and
// shifts each locally numbered day by offset. A response without a
// plan.calendar array yields an empty slice. Entries without a positive day
// cannot be placed and are skipped.
func NormalizeChunk(raw RawResponse, offset int) []domain.CalendarItem {
	entries, _ := calendarEntries(raw)
	items := make([]domain.CalendarItem, 0, len(entries))
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		item, ok := normalizeEntry(entry, offset)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// calendarEntries returns raw.plan.calendar and whether it was present as an array.
func calendarEntries(raw RawResponse) ([]any, bool) {
	plan, ok := raw["plan"].(map[string]any)
	if !ok {
		return nil, false
	}
	entries, ok := plan["calendar"].([]any)
	return entries, ok
}

func normalizeEntry(e map[string]any, offset int) (domain.CalendarItem, bool) {
	localDay, ok := toInt(e["day"])
	if !ok || localDay < 1 {
		return domain.CalendarItem{}, false
	}
	day := localDay + offset

	return domain.CalendarItem{
		Day:         day,
		Phase:       domain.IntFromPtrWithDefault(0, positiveInt(e["phaseNumber"]), positiveInt(e["phase"])),
		Title:       domain.CoalesceStr(toString(e["taskName"]), toString(e["title"]), fmt.Sprintf("Day %d", day)),
		Time:        domain.CoalesceStr(toString(e["timeCommitment"]), toString(e["time"])),
		Description: domain.CoalesceStr(toString(e["taskDescription"]), toString(e["description"])),
		Resources:   normalizeResources(e["resources"]),
		Completed:   false,
	}, true
}

// normalizeResources flattens string and {name, link} entries into URLs,
// dropping empty values and duplicates while keeping order.
func normalizeResources(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, r := range list {
		var link string
		switch rv := r.(type) {
		case string:
			link = rv
		case map[string]any:
			link, _ = rv["link"].(string)
		}
		link = strings.TrimSpace(link)
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		out = append(out, link)
	}
	return out
}

func positiveInt(v any) *int {
	n, ok := toInt(v)
	if !ok || n <= 0 {
		return nil
	}
	return &n
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}
