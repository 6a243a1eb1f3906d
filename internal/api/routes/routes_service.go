package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kazantrip/routegen/internal/api/generation"
	"github.com/kazantrip/routegen/internal/types"
)

var _ Service = (*ServiceImpl)(nil)
var _ generation.RouteSaver = (*ServiceImpl)(nil)

// Service manages persisted routes. SaveGeneratedRoute is the
// persistence hook the generation handler calls; Optimize re-runs the
// nearest-neighbor ordering over a stored route without re-selecting
// stops.
type Service interface {
	SaveGeneratedRoute(ctx context.Context, userID uuid.UUID, name string, route *types.GeneratedRoute) (*types.Route, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*types.Route, error)
	List(ctx context.Context, userID uuid.UUID) ([]types.Route, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Optimize(ctx context.Context, id, userID uuid.UUID, start *types.Coordinate, travelMode types.TravelMode) (*types.Route, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) SaveGeneratedRoute(ctx context.Context, userID uuid.UUID, name string, generated *types.GeneratedRoute) (*types.Route, error) {
	ctx, span := otel.Tracer("RoutesService").Start(ctx, "SaveGeneratedRoute")
	defer span.End()

	if name == "" {
		name = fmt.Sprintf("Route %s", time.Now().Format("2006-01-02 15:04"))
	}

	route := &types.Route{
		UserID:           userID,
		Name:             name,
		Mode:             generated.Mode,
		Fallback:         generated.Fallback,
		TotalDistanceKm:  generated.TotalDistanceKm,
		TotalDurationMin: generated.TotalDurationMin,
		TotalCost:        generated.TotalCost,
		Stops:            generated.Stops,
	}

	saved, err := s.repo.CreateRoute(ctx, route)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("route.id", saved.ID.String()))
	s.logger.InfoContext(ctx, "route saved",
		slog.String("routeID", saved.ID.String()),
		slog.Int("stops", len(saved.Stops)))
	return saved, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id, userID uuid.UUID) (*types.Route, error) {
	route, err := s.repo.GetRoute(ctx, id)
	if err != nil {
		return nil, err
	}
	if route.UserID != userID && !route.IsPublic {
		return nil, types.ErrNotFound
	}
	return route, nil
}

func (s *ServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]types.Route, error) {
	return s.repo.ListRoutes(ctx, userID)
}

func (s *ServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.DeleteRoute(ctx, id, userID)
}

func (s *ServiceImpl) Optimize(ctx context.Context, id, userID uuid.UUID, start *types.Coordinate, travelMode types.TravelMode) (*types.Route, error) {
	ctx, span := otel.Tracer("RoutesService").Start(ctx, "Optimize")
	defer span.End()

	route, err := s.repo.GetRoute(ctx, id)
	if err != nil {
		return nil, err
	}
	if route.UserID != userID {
		return nil, types.ErrNotFound
	}
	if len(route.Stops) < 2 {
		return route, nil
	}
	if travelMode == "" {
		travelMode = types.TravelWalking
	}

	reordered := generation.OptimizeStops(route.Stops, start, travelMode)
	totalDistance := 0.0
	totalDuration := 0.0
	for _, stop := range reordered {
		totalDistance += stop.LegDistanceKm
		totalDuration += stop.LegTravelMin + float64(stop.Attraction.VisitDuration)
	}
	if err := s.repo.ReplaceStops(ctx, route.ID, reordered, totalDistance, totalDuration); err != nil {
		span.RecordError(err)
		return nil, err
	}

	route.Stops = reordered
	route.TotalDistanceKm = totalDistance
	route.TotalDurationMin = totalDuration
	span.SetAttributes(attribute.Int("route.stops", len(reordered)))
	return route, nil
}
