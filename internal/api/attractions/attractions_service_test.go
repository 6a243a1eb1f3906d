package attractions

import (
	"context"
	"errors"
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

func (m *MockRepository) ListActive(ctx context.Context) ([]types.Attraction, error) {
	args := m.Called(ctx)
	if pool := args.Get(0); pool != nil {
		return pool.([]types.Attraction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*types.Attraction, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*types.Attraction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Attraction, error) {
	args := m.Called(ctx, ids)
	if pool := args.Get(0); pool != nil {
		return pool.([]types.Attraction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Search(ctx context.Context, filter types.AttractionFilter) ([]types.Attraction, error) {
	args := m.Called(ctx, filter)
	if pool := args.Get(0); pool != nil {
		return pool.([]types.Attraction), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestServiceListActiveCachesThePool(t *testing.T) {
	pool := []types.Attraction{attractionAt("Kremlin", 55.752, 37.617)}
	repo := new(MockRepository)
	repo.On("ListActive", mock.Anything).Return(pool, nil).Once()

	svc := NewServiceImpl(repo, testLogger())

	first, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	second, err := svc.ListActive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// The second call must be served from cache.
	repo.AssertNumberOfCalls(t, "ListActive", 1)
}

func TestServiceListActiveRepositoryError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListActive", mock.Anything).Return(nil, errors.New("timeout"))

	svc := NewServiceImpl(repo, testLogger())
	_, err := svc.ListActive(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "active attractions")
}

func TestServiceNearbyUsesTheIndex(t *testing.T) {
	near := attractionAt("Near", 55.7510, 37.6110)
	far := attractionAt("Far", 56.5000, 38.5000)
	repo := new(MockRepository)
	repo.On("ListActive", mock.Anything).Return([]types.Attraction{near, far}, nil)

	svc := NewServiceImpl(repo, testLogger())
	got, err := svc.Nearby(context.Background(), types.Coordinate{Latitude: 55.75, Longitude: 37.61}, 2)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Near", got[0].Name)
}

func TestServiceNearbyDefaultsRadius(t *testing.T) {
	near := attractionAt("Near", 55.7510, 37.6110)
	repo := new(MockRepository)
	repo.On("ListActive", mock.Anything).Return([]types.Attraction{near}, nil)

	svc := NewServiceImpl(repo, testLogger())
	got, err := svc.Nearby(context.Background(), types.Coordinate{Latitude: 55.75, Longitude: 37.61}, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
