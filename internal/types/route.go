package types

import (
	"time"

	"github.com/google/uuid"
)

// RouteStop is one visit in an ordered itinerary. Position is the 0-based
// visiting order; leg values are measured from the previous stop (or the
// start coordinate for the first stop).
type RouteStop struct {
	Attraction    Attraction `json:"attraction"`
	Position      int        `json:"position"`
	LegDistanceKm float64    `json:"leg_distance_km"`
	LegTravelMin  float64    `json:"leg_travel_min"`
}

// GeneratedRoute is the engine's output. It is constructed fresh per
// request and owned by the caller afterwards.
type GeneratedRoute struct {
	Stops            []RouteStop    `json:"stops"`
	TotalDistanceKm  float64        `json:"total_distance_km"`
	TotalDurationMin float64        `json:"total_duration_min"` // visits + travel
	TotalCost        float64        `json:"total_cost"`
	Mode             GenerationMode `json:"mode"`
	// Fallback reports that LLM suggestions were partially or fully
	// replaced by algorithmic selection.
	Fallback bool `json:"fallback"`
	// BudgetExceeded is set when the single forced stop costs more than
	// the requested budget. Selection itself never exceeds the budget.
	BudgetExceeded bool `json:"budget_exceeded"`
	// DurationOffTarget is set when the total falls outside the
	// configured tolerance band around the requested duration.
	DurationOffTarget bool `json:"duration_off_target"`
}

// Route is a persisted itinerary.
type Route struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	Mode             GenerationMode `json:"mode"`
	Fallback         bool           `json:"fallback"`
	TotalDistanceKm  float64        `json:"total_distance_km"`
	TotalDurationMin float64        `json:"total_duration_min"`
	TotalCost        float64        `json:"total_cost"`
	IsPublic         bool           `json:"is_public"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Stops            []RouteStop    `json:"stops,omitempty"`
}
