package generation

import "github.com/DaWei8/phasely/internal/domain"

// ExtractOverview reads the optional plan.introduction and plan.plan fields
// returned with the first chunk. Missing or malformed fields are left empty.
func ExtractOverview(raw RawResponse) domain.PlanOverview {
	var ov domain.PlanOverview
	plan, ok := raw["plan"].(map[string]any)
	if !ok {
		return ov
	}

	if intro, ok := plan["introduction"].(map[string]any); ok {
		ov.Introduction = &domain.Introduction{
			Title:    toString(intro["title"]),
			Overview: domain.CoalesceStr(toString(intro["overview"]), toString(intro["description"])),
			Goals:    stringList(intro["goals"]),
		}
	}

	phases, _ := plan["plan"].([]any)
	for i, p := range phases {
		pm, ok := p.(map[string]any)
		if !ok {
			continue
		}
		ov.Phases = append(ov.Phases, domain.Phase{
			Number:      domain.IntFromPtrWithDefault(i+1, positiveInt(pm["phaseNumber"]), positiveInt(pm["phase"]), positiveInt(pm["number"])),
			Title:       domain.CoalesceStr(toString(pm["title"]), toString(pm["phaseName"]), toString(pm["name"])),
			Description: toString(pm["description"]),
			Duration:    domain.CoalesceStr(toString(pm["duration"]), toString(pm["timeframe"])),
		})
	}
	return ov
}

func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, s := range list {
		if str := toString(s); str != "" {
			out = append(out, str)
		}
	}
	return out
}
