package routes

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazantrip/routegen/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPostgresRepositoryCreateRoute(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	routeID := uuid.New()
	attractionID := uuid.New()
	now := time.Now()

	route := &types.Route{
		UserID:           userID,
		Name:             "Saturday walk",
		Mode:             types.ModeAlgorithmic,
		TotalDistanceKm:  3.5,
		TotalDurationMin: 180,
		Stops: []types.RouteStop{
			{Attraction: types.Attraction{ID: attractionID}, Position: 0, LegDistanceKm: 1.2, LegTravelMin: 14.4},
		},
	}

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`INSERT INTO routes`).
		WithArgs(userID, "Saturday walk", "", types.ModeAlgorithmic, false, 3.5, 180.0, 0.0, false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(routeID, now, now))
	mockPool.ExpectExec(`INSERT INTO route_stops`).
		WithArgs(routeID, attractionID, 0, 1.2, 14.4).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()
	mockPool.ExpectRollback()

	repo := NewPostgresRepository(mockPool, nil, testLogger())
	saved, err := repo.CreateRoute(context.Background(), route)
	require.NoError(t, err)

	assert.Equal(t, routeID, saved.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepositoryCreateRouteRollsBackOnStopFailure(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	routeID := uuid.New()
	now := time.Now()

	route := &types.Route{
		UserID: userID,
		Name:   "Broken",
		Mode:   types.ModeAlgorithmic,
		Stops: []types.RouteStop{
			{Attraction: types.Attraction{ID: uuid.New()}, Position: 0},
		},
	}

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`INSERT INTO routes`).
		WithArgs(userID, "Broken", "", types.ModeAlgorithmic, false, 0.0, 0.0, 0.0, false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(routeID, now, now))
	mockPool.ExpectExec(`INSERT INTO route_stops`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(assert.AnError)
	mockPool.ExpectRollback()

	repo := NewPostgresRepository(mockPool, nil, testLogger())
	_, err = repo.CreateRoute(context.Background(), route)
	require.Error(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepositoryDeleteRoute(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresRepository(mockPool, nil, testLogger())
	id := uuid.New()
	userID := uuid.New()

	t.Run("deletes owned route", func(t *testing.T) {
		mockPool.ExpectExec(`DELETE FROM routes`).
			WithArgs(id, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.DeleteRoute(context.Background(), id, userID))
	})

	t.Run("missing route maps to ErrNotFound", func(t *testing.T) {
		mockPool.ExpectExec(`DELETE FROM routes`).
			WithArgs(id, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.DeleteRoute(context.Background(), id, userID), types.ErrNotFound)
	})

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepositoryReplaceStops(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	routeID := uuid.New()
	attractionID := uuid.New()
	stops := []types.RouteStop{
		{Attraction: types.Attraction{ID: attractionID}, Position: 0, LegDistanceKm: 0.5, LegTravelMin: 6.0},
	}

	mockPool.ExpectBegin()
	mockPool.ExpectExec(`DELETE FROM route_stops`).
		WithArgs(routeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mockPool.ExpectExec(`INSERT INTO route_stops`).
		WithArgs(routeID, attractionID, 0, 0.5, 6.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec(`UPDATE routes`).
		WithArgs(routeID, 0.5, 66.0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()
	mockPool.ExpectRollback()

	repo := NewPostgresRepository(mockPool, nil, testLogger())
	err = repo.ReplaceStops(context.Background(), routeID, stops, 0.5, 66.0)
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
