package generation

import (
	"math"
	"sort"

	"github.com/kazantrip/routegen/internal/types"
)

// selection is the outcome of the greedy subset step.
type selection struct {
	attractions []types.Attraction
	// forced reports that nothing fit the bounds and the single cheapest
	// candidate was included regardless of duration/budget fit.
	forced bool
}

// selectCandidates picks a feasible subset under the duration and budget
// bounds. Candidates are ranked by a composite score (rating weighted
// inversely by price), ties broken by original pool order, then added
// greedily until the next candidate would violate either bound.
func selectCandidates(filtered []types.Attraction, pref types.Preference, tolerance float64, maxStops int) selection {
	if len(filtered) == 0 {
		return selection{}
	}

	ranked := make([]types.Attraction, len(filtered))
	copy(ranked, filtered)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})

	durationCap := float64(pref.TargetDuration) * (1 + tolerance)

	var picked []types.Attraction
	var totalVisit float64
	var totalCost float64
	for _, cand := range ranked {
		if len(picked) >= maxStops {
			break
		}
		if totalVisit+float64(cand.VisitDuration) > durationCap {
			break
		}
		if pref.MaxBudget != nil && totalCost+cand.Price > *pref.MaxBudget {
			break
		}
		picked = append(picked, cand)
		totalVisit += float64(cand.VisitDuration)
		totalCost += cand.Price
	}

	if len(picked) > 0 {
		return selection{attractions: picked}
	}

	// Nothing fit: force the single cheapest candidate so the generator
	// never returns nothing when something is available. Strict less-than
	// keeps the earliest pool entry on price ties.
	cheapest := filtered[0]
	for _, cand := range filtered[1:] {
		if cand.Price < cheapest.Price {
			cheapest = cand
		}
	}
	return selection{attractions: []types.Attraction{cheapest}, forced: true}
}

func score(a types.Attraction) float64 {
	return a.Rating / (1 + a.Price)
}

// orderNearestNeighbor orders the selected subset by repeatedly visiting
// the nearest unvisited candidate. The walk starts from start when given,
// otherwise from the first selected candidate. Distance ties break on the
// lower attraction ID so the ordering is deterministic. O(n^2), fine for
// the bounded stop counts itineraries use.
func orderNearestNeighbor(selected []types.Attraction, start *types.Coordinate) []types.Attraction {
	if len(selected) <= 1 {
		return append([]types.Attraction(nil), selected...)
	}

	remaining := append([]types.Attraction(nil), selected...)
	ordered := make([]types.Attraction, 0, len(remaining))

	var current types.Coordinate
	if start != nil {
		current = *start
	} else {
		ordered = append(ordered, remaining[0])
		current = remaining[0].Location
		remaining = remaining[1:]
	}

	for len(remaining) > 0 {
		best := -1
		bestDist := math.MaxFloat64
		for i, cand := range remaining {
			d := haversine(current, cand.Location)
			if d < bestDist ||
				(d == bestDist && best >= 0 && cand.ID.String() < remaining[best].ID.String()) {
				best = i
				bestDist = d
			}
		}
		next := remaining[best]
		ordered = append(ordered, next)
		current = next.Location
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return ordered
}

// OptimizeStops re-orders an existing stop list with the same
// nearest-neighbor pass and recomputes leg metrics. There is no selection
// step; every stop stays on the route.
func OptimizeStops(stops []types.RouteStop, start *types.Coordinate, mode types.TravelMode) []types.RouteStop {
	attractions := make([]types.Attraction, len(stops))
	for i, s := range stops {
		attractions[i] = s.Attraction
	}
	ordered := orderNearestNeighbor(attractions, start)
	return buildStops(ordered, start, mode)
}
