package types

import (
	"fmt"

	"github.com/google/uuid"
)

// Coordinate is a WGS84 point in floating-point degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate against the valid degree ranges.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f out of range [-90,90]", ErrValidation, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f out of range [-180,180]", ErrValidation, c.Longitude)
	}
	return nil
}

// Attraction is an immutable candidate snapshot supplied by the
// persistence layer. The engine never mutates it.
type Attraction struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category"`
	Location      Coordinate `json:"location"`
	Address       string     `json:"address,omitempty"`
	VisitDuration int        `json:"visit_duration"` // minutes
	Price         float64    `json:"price"`
	Rating        float64    `json:"rating"`
}

// AttractionFilter narrows attraction queries at the repository level.
type AttractionFilter struct {
	Category  string   `json:"category,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinRating float64  `json:"min_rating,omitempty"`
}
