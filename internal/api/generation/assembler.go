package generation

import "github.com/kazantrip/routegen/internal/types"

// buildStops attaches 0-based positions and per-leg distance/time to an
// already-ordered attraction list. The first leg is measured from start
// when given, otherwise it is zero.
func buildStops(ordered []types.Attraction, start *types.Coordinate, mode types.TravelMode) []types.RouteStop {
	stops := make([]types.RouteStop, 0, len(ordered))
	var prev *types.Coordinate
	if start != nil {
		p := *start
		prev = &p
	}
	for i, a := range ordered {
		stop := types.RouteStop{Attraction: a, Position: i}
		if prev != nil {
			stop.LegDistanceKm = haversine(*prev, a.Location)
			stop.LegTravelMin = TravelTime(stop.LegDistanceKm, mode)
		}
		stops = append(stops, stop)
		loc := a.Location
		prev = &loc
	}
	return stops
}

// assembleRoute computes aggregate totals and the budget/duration flags.
// This is the only place totals are computed, keeping them consistent
// with the per-stop legs.
func assembleRoute(ordered []types.Attraction, pref types.Preference, mode types.GenerationMode, fallback bool, tolerance float64) *types.GeneratedRoute {
	stops := buildStops(ordered, pref.Start, pref.TravelMode)

	var distance, duration, cost float64
	for _, s := range stops {
		distance += s.LegDistanceKm
		duration += s.LegTravelMin + float64(s.Attraction.VisitDuration)
		cost += s.Attraction.Price
	}

	route := &types.GeneratedRoute{
		Stops:            stops,
		TotalDistanceKm:  distance,
		TotalDurationMin: duration,
		TotalCost:        cost,
		Mode:             mode,
		Fallback:         fallback,
	}
	if pref.MaxBudget != nil && cost > *pref.MaxBudget {
		route.BudgetExceeded = true
	}
	target := float64(pref.TargetDuration)
	if duration < target*(1-tolerance) || duration > target*(1+tolerance) {
		route.DurationOffTarget = true
	}
	return route
}
