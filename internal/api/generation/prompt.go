package generation

import (
	"fmt"
	"strings"

	"github.com/kazantrip/routegen/internal/types"
)

// buildSuggestionPrompt grounds the model in the sanctioned candidate
// pool and asks for a strict-JSON ordered pick. Names outside the list
// are dropped by the parser, so the prompt insists on reusing them.
func buildSuggestionPrompt(pref types.Preference, candidateNames []string, maxSuggestions int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are planning a one-day tourist itinerary of about %d minutes.\n", pref.TargetDuration)
	if len(pref.Categories) > 0 {
		fmt.Fprintf(&b, "The visitor is interested in: %s.\n", strings.Join(pref.Categories, ", "))
	}
	if pref.MaxBudget != nil {
		fmt.Fprintf(&b, "The total entry budget is %.2f currency units.\n", *pref.MaxBudget)
	}
	if pref.Description != "" {
		fmt.Fprintf(&b, "The visitor describes the trip as: %s\n", pref.Description)
	}

	b.WriteString("\nAvailable attractions (pick ONLY from this list, using the exact names):\n")
	for _, name := range candidateNames {
		fmt.Fprintf(&b, "- %s\n", name)
	}

	fmt.Fprintf(&b, `
Pick at most %d attractions that best fit the time, budget and interests,
in a sensible visiting order.
Return the response STRICTLY as a JSON object with:
{
  "attractions": [
    {"name": "Exact attraction name from the list above"}
  ]
}
Do not add any text, comments or markdown outside the JSON object.`, maxSuggestions)

	return b.String()
}
