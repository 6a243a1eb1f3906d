package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazantrip/routegen/internal/types"
)

func TestDistance(t *testing.T) {
	t.Run("one degree of longitude at the equator", func(t *testing.T) {
		d, err := Distance(
			types.Coordinate{Latitude: 0, Longitude: 0},
			types.Coordinate{Latitude: 0, Longitude: 1},
		)
		require.NoError(t, err)
		assert.InDelta(t, 111.19, d, 0.1)
	})

	t.Run("zero distance for identical points", func(t *testing.T) {
		p := types.Coordinate{Latitude: 55.7512, Longitude: 37.6184}
		d, err := Distance(p, p)
		require.NoError(t, err)
		assert.Zero(t, d)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := types.Coordinate{Latitude: 55.7512, Longitude: 37.6184}
		b := types.Coordinate{Latitude: 59.9343, Longitude: 30.3351}
		d1, err := Distance(a, b)
		require.NoError(t, err)
		d2, err := Distance(b, a)
		require.NoError(t, err)
		assert.Equal(t, d1, d2)
	})

	t.Run("rejects out-of-range latitude", func(t *testing.T) {
		_, err := Distance(
			types.Coordinate{Latitude: 91, Longitude: 0},
			types.Coordinate{Latitude: 0, Longitude: 0},
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
	})

	t.Run("rejects out-of-range longitude", func(t *testing.T) {
		_, err := Distance(
			types.Coordinate{Latitude: 0, Longitude: 0},
			types.Coordinate{Latitude: 0, Longitude: -181},
		)
		assert.ErrorIs(t, err, types.ErrValidation)
	})
}

func TestTravelTime(t *testing.T) {
	assert.InDelta(t, 60.0, TravelTime(5, types.TravelWalking), 1e-9)
	assert.InDelta(t, 10.0, TravelTime(5, types.TravelDriving), 1e-9)
	// Unknown mode falls back to walking speed.
	assert.InDelta(t, 60.0, TravelTime(5, types.TravelMode("")), 1e-9)
	assert.Zero(t, TravelTime(0, types.TravelWalking))
}
