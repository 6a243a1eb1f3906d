package generation

import (
	"strings"

	"github.com/kazantrip/routegen/internal/types"
)

// FilterCandidates narrows the attraction pool by the preference's
// categories and budget, preserving the pool's relative order. An empty
// result is not an error here; downstream decides how to react.
func FilterCandidates(pool []types.Attraction, pref types.Preference) []types.Attraction {
	filtered := make([]types.Attraction, 0, len(pool))
	for _, a := range pool {
		if !matchesCategory(a, pref.Categories) {
			continue
		}
		// Price screening applies only to positive budgets. A zero
		// budget still reaches selection, where the single-cheapest
		// rule can force an over-budget stop.
		if pref.MaxBudget != nil && *pref.MaxBudget > 0 && a.Price > *pref.MaxBudget {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}

// An empty category list means "no restriction".
func matchesCategory(a types.Attraction, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if strings.EqualFold(a.Category, c) {
			return true
		}
	}
	return false
}
