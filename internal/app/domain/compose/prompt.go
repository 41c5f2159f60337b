package compose

import (
	"fmt"
	"strings"
)

// systemPrompt pins the completion to the exact textual grammar Parse
// understands. The format is deliberately rigid: every deviation degrades to
// a placeholder on our side.
const systemPrompt = `You are a travel planner. You produce day-by-day itineraries in a strict plain-text format. Follow the format EXACTLY:

ITINERARY TITLE: <short trip title>

DAY <n> - <YYYY-MM-DD> - <day title> **<Region>**
<one or two sentences describing the day>
**<Place Name>** (lat: <latitude>, lng: <longitude>)
<a short paragraph about the place; you may embed a short display name as [[Short Name]]>

Rules:
- Number days starting at 1, one DAY header per day.
- Every place line must carry real WGS84 coordinates in the (lat: X, lng: Y) form.
- Put the region marker **Region** on the day title only when the region changes.
- Do not use markdown headings, bullet lists, or code fences.`

// BuildUserPrompt renders the trip request into the user prompt.
func BuildUserPrompt(destination, startDate string, totalDays int, interests []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Plan a %d-day trip to %s starting on %s.", totalDays, destination, startDate)
	if len(interests) > 0 {
		fmt.Fprintf(&sb, " The traveler is interested in: %s.", strings.Join(interests, ", "))
	}
	sb.WriteString(" Aim for 2-4 places per day and include where to stay when it matters.")
	return sb.String()
}

// SystemPrompt exposes the parser contract prompt.
func SystemPrompt() string {
	return systemPrompt
}
