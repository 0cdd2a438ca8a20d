package generation

import (
	"fmt"
	"strings"
)

// BuildChunkPrompt returns the instruction text for days startDay..endDay of a
// totalDuration-day plan. The first chunk (startDay == 1) additionally asks for
// the introduction and the seven-phase outline. The output depends only on
// its arguments.
func BuildChunkPrompt(goal string, totalDuration, startDay, endDay int) string {
	chunkDuration := endDay - startDay + 1
	first := startDay == 1

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert learning coach. The learner's goal is: %q.\n", goal)
	fmt.Fprintf(&b, "The complete study plan lasts %d days. ", totalDuration)
	if startDay == 1 && endDay == totalDuration {
		fmt.Fprintf(&b, "Produce the calendar for all %d days.\n", chunkDuration)
	} else {
		fmt.Fprintf(&b, "Produce ONLY days %d to %d of the plan (%d days).\n", startDay, endDay, chunkDuration)
	}
	b.WriteString("\n")

	b.WriteString("Respond with a single JSON object and nothing else. Required fields:\n")
	fmt.Fprintf(&b, "- \"calendar\": an array of exactly %d entries, one per day, with \"day\" numbered from 1 to %d", chunkDuration, chunkDuration)
	if !first {
		fmt.Fprintf(&b, " (day 1 here is day %d of the overall plan)", startDay)
	}
	b.WriteString(".\n")
	b.WriteString("  Each entry has: \"day\" (integer), \"phaseNumber\" (integer 1-7), \"taskName\" (short title),\n")
	b.WriteString("  \"timeCommitment\" (e.g. \"2 hours\"), \"taskDescription\" (what to do that day),\n")
	b.WriteString("  \"resources\" (2 to 5 objects with \"name\" and \"link\" pointing at real, freely available material).\n")

	if first {
		b.WriteString("- \"introduction\": an object with \"title\", \"overview\" and \"goals\" (array of strings).\n")
		b.WriteString("- \"plan\": an array of exactly 7 phases, each with \"phaseNumber\", \"title\", \"description\" and \"duration\".\n")
		fmt.Fprintf(&b, "  The 7 phases must together span all %d days of the plan.\n", totalDuration)
	} else {
		b.WriteString("Do not include an introduction or phase outline; they were produced earlier.\n")
		fmt.Fprintf(&b, "Assign each day to the phase it falls in when the %d-day plan is divided into 7 phases.\n", totalDuration)
	}

	b.WriteString("\nDays must build on each other progressively. Do not wrap the JSON in markdown fences.")
	return b.String()
}
