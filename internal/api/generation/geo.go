package generation

import (
	"math"

	"github.com/kazantrip/routegen/internal/types"
)

const (
	earthRadiusKm = 6371.0

	// Fixed average speeds used for travel-time estimates.
	walkingSpeedKmh = 5.0
	drivingSpeedKmh = 30.0
)

// Distance returns the great-circle distance between two coordinates in
// kilometers. It fails only on out-of-range coordinates.
func Distance(a, b types.Coordinate) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return haversine(a, b), nil
}

// TravelTime converts a distance to estimated travel minutes for the
// given mode. Unknown or empty modes default to walking.
func TravelTime(distanceKm float64, mode types.TravelMode) float64 {
	speed := walkingSpeedKmh
	if mode == types.TravelDriving {
		speed = drivingSpeedKmh
	}
	return distanceKm / speed * 60
}

// haversine assumes already-validated coordinates.
func haversine(a, b types.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(h))

	return earthRadiusKm * c
}
