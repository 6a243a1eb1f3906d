package attractions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kazantrip/routegen/internal/types"
)

const (
	poolCacheKey        = "attractions:active"
	poolCacheTTL        = 5 * time.Minute
	poolCacheSweep      = 10 * time.Minute
	defaultNearbyRadius = 2.0
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes the attraction catalog. ListActive doubles as the
// engine's candidate source.
type Service interface {
	ListActive(ctx context.Context) ([]types.Attraction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Attraction, error)
	Search(ctx context.Context, filter types.AttractionFilter) ([]types.Attraction, error)
	Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]types.Attraction, error)
}

// ServiceImpl caches the active pool and keeps the spatial index in
// sync with it. The catalog changes rarely, so a short TTL cache keeps
// generation requests off the database.
type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
	index  *GeoIndex
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(poolCacheTTL, poolCacheSweep),
		index:  NewGeoIndex(),
	}
}

func (s *ServiceImpl) ListActive(ctx context.Context) ([]types.Attraction, error) {
	if cached, found := s.cache.Get(poolCacheKey); found {
		if pool, ok := cached.([]types.Attraction); ok {
			return pool, nil
		}
	}

	ctx, span := otel.Tracer("AttractionsService").Start(ctx, "ListActive")
	defer span.End()

	pool, err := s.repo.ListActive(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load active attractions: %w", err)
	}

	s.cache.Set(poolCacheKey, pool, cache.DefaultExpiration)
	s.index.Rebuild(pool)
	span.SetAttributes(attribute.Int("attractions.count", len(pool)))
	s.logger.DebugContext(ctx, "refreshed attraction pool cache", slog.Int("count", len(pool)))
	return pool, nil
}

func (s *ServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*types.Attraction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) Search(ctx context.Context, filter types.AttractionFilter) ([]types.Attraction, error) {
	return s.repo.Search(ctx, filter)
}

func (s *ServiceImpl) Nearby(ctx context.Context, center types.Coordinate, radiusKm float64) ([]types.Attraction, error) {
	if radiusKm <= 0 {
		radiusKm = defaultNearbyRadius
	}
	// Make sure the index reflects a current pool snapshot.
	if _, err := s.ListActive(ctx); err != nil {
		return nil, err
	}
	return s.index.Nearby(center, radiusKm)
}
