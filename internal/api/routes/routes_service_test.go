package routes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kazantrip/routegen/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateRoute(ctx context.Context, route *types.Route) (*types.Route, error) {
	args := m.Called(ctx, route)
	if r := args.Get(0); r != nil {
		return r.(*types.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetRoute(ctx context.Context, id uuid.UUID) (*types.Route, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*types.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListRoutes(ctx context.Context, userID uuid.UUID) ([]types.Route, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]types.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) DeleteRoute(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockRepository) ReplaceStops(ctx context.Context, routeID uuid.UUID, stops []types.RouteStop, totalDistanceKm, totalDurationMin float64) error {
	return m.Called(ctx, routeID, stops, totalDistanceKm, totalDurationMin).Error(0)
}

func stopAt(name string, lat, lon float64, position int) types.RouteStop {
	return types.RouteStop{
		Attraction: types.Attraction{
			ID:            uuid.New(),
			Name:          name,
			Location:      types.Coordinate{Latitude: lat, Longitude: lon},
			VisitDuration: 30,
		},
		Position: position,
	}
}

func TestSaveGeneratedRoute(t *testing.T) {
	userID := uuid.New()
	generated := &types.GeneratedRoute{
		Stops:            []types.RouteStop{stopAt("Kremlin", 55.752, 37.617, 0)},
		TotalDistanceKm:  1.5,
		TotalDurationMin: 120,
		TotalCost:        10,
		Mode:             types.ModeHybrid,
		Fallback:         true,
	}

	repo := new(MockRepository)
	repo.On("CreateRoute", mock.Anything, mock.MatchedBy(func(r *types.Route) bool {
		return r.UserID == userID &&
			r.Mode == types.ModeHybrid &&
			r.Fallback &&
			len(r.Stops) == 1
	})).Return(&types.Route{ID: uuid.New(), UserID: userID}, nil)

	svc := NewServiceImpl(repo, testLogger())
	saved, err := svc.SaveGeneratedRoute(context.Background(), userID, "Weekend", generated)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	repo.AssertExpectations(t)
}

func TestSaveGeneratedRouteDefaultsName(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CreateRoute", mock.Anything, mock.MatchedBy(func(r *types.Route) bool {
		return r.Name != ""
	})).Return(&types.Route{ID: uuid.New()}, nil)

	svc := NewServiceImpl(repo, testLogger())
	_, err := svc.SaveGeneratedRoute(context.Background(), uuid.New(), "", &types.GeneratedRoute{})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetHidesForeignPrivateRoutes(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	routeID := uuid.New()

	repo := new(MockRepository)
	repo.On("GetRoute", mock.Anything, routeID).
		Return(&types.Route{ID: routeID, UserID: owner, IsPublic: false}, nil)

	svc := NewServiceImpl(repo, testLogger())

	_, err := svc.Get(context.Background(), routeID, stranger)
	assert.ErrorIs(t, err, types.ErrNotFound)

	got, err := svc.Get(context.Background(), routeID, owner)
	require.NoError(t, err)
	assert.Equal(t, routeID, got.ID)
}

func TestGetAllowsPublicRoutes(t *testing.T) {
	routeID := uuid.New()
	repo := new(MockRepository)
	repo.On("GetRoute", mock.Anything, routeID).
		Return(&types.Route{ID: routeID, UserID: uuid.New(), IsPublic: true}, nil)

	svc := NewServiceImpl(repo, testLogger())
	got, err := svc.Get(context.Background(), routeID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, routeID, got.ID)
}

func TestOptimizeReordersAndPersists(t *testing.T) {
	userID := uuid.New()
	routeID := uuid.New()
	start := &types.Coordinate{Latitude: 55.7500, Longitude: 37.6100}

	near := stopAt("Near", 55.7500, 37.6200, 0)
	far := stopAt("Far", 55.7500, 37.6400, 1)
	stored := &types.Route{
		ID:     routeID,
		UserID: userID,
		Stops:  []types.RouteStop{far, near},
	}

	repo := new(MockRepository)
	repo.On("GetRoute", mock.Anything, routeID).Return(stored, nil)
	repo.On("ReplaceStops", mock.Anything, routeID, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewServiceImpl(repo, testLogger())
	got, err := svc.Optimize(context.Background(), routeID, userID, start, types.TravelWalking)
	require.NoError(t, err)

	require.Len(t, got.Stops, 2)
	assert.Equal(t, "Near", got.Stops[0].Attraction.Name)
	assert.Equal(t, "Far", got.Stops[1].Attraction.Name)
	assert.Equal(t, 0, got.Stops[0].Position)
	assert.Equal(t, 1, got.Stops[1].Position)
	repo.AssertExpectations(t)
}

func TestOptimizeSkipsTrivialRoutes(t *testing.T) {
	userID := uuid.New()
	routeID := uuid.New()
	stored := &types.Route{
		ID:     routeID,
		UserID: userID,
		Stops:  []types.RouteStop{stopAt("Only", 55.75, 37.61, 0)},
	}

	repo := new(MockRepository)
	repo.On("GetRoute", mock.Anything, routeID).Return(stored, nil)

	svc := NewServiceImpl(repo, testLogger())
	got, err := svc.Optimize(context.Background(), routeID, userID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	// No ReplaceStops call expected.
	repo.AssertExpectations(t)
}

func TestOptimizeRejectsForeignRoutes(t *testing.T) {
	routeID := uuid.New()
	repo := new(MockRepository)
	repo.On("GetRoute", mock.Anything, routeID).
		Return(&types.Route{ID: routeID, UserID: uuid.New()}, nil)

	svc := NewServiceImpl(repo, testLogger())
	_, err := svc.Optimize(context.Background(), routeID, uuid.New(), nil, "")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
