package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "github.com/kazantrip/routegen/app/db"
	"github.com/kazantrip/routegen/app/observability/metrics"
	"github.com/kazantrip/routegen/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository persists routes together with their ordered stops. Stop
// order is authoritative in route_stops.position; the unique
// (route_id, position) constraint enforces it at the schema level.
type Repository interface {
	CreateRoute(ctx context.Context, route *types.Route) (*types.Route, error)
	GetRoute(ctx context.Context, id uuid.UUID) (*types.Route, error)
	ListRoutes(ctx context.Context, userID uuid.UUID) ([]types.Route, error)
	DeleteRoute(ctx context.Context, id, userID uuid.UUID) error
	ReplaceStops(ctx context.Context, routeID uuid.UUID, stops []types.RouteStop, totalDistanceKm, totalDurationMin float64) error
}

type PostgresRepository struct {
	logger  *slog.Logger
	pgpool  database.PGXPool
	metrics *metrics.AppMetrics
}

func NewPostgresRepository(pgpool database.PGXPool, m *metrics.AppMetrics, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger:  logger,
		pgpool:  pgpool,
		metrics: m,
	}
}

func (r *PostgresRepository) CreateRoute(ctx context.Context, route *types.Route) (*types.Route, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.WarnContext(ctx, "transaction rollback failed", slog.Any("error", rbErr))
		}
	}()

	err = tx.QueryRow(ctx, `
        INSERT INTO routes (user_id, name, description, mode, fallback,
            total_distance_km, total_duration_min, total_cost, is_public)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`,
		route.UserID, route.Name, route.Description, route.Mode, route.Fallback,
		route.TotalDistanceKm, route.TotalDurationMin, route.TotalCost, route.IsPublic,
	).Scan(&route.ID, &route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert route: %w", err)
	}

	if err := insertStops(ctx, tx, route.ID, route.Stops); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit route: %w", err)
	}
	return route, nil
}

func insertStops(ctx context.Context, tx pgx.Tx, routeID uuid.UUID, stops []types.RouteStop) error {
	for _, stop := range stops {
		_, err := tx.Exec(ctx, `
            INSERT INTO route_stops (route_id, attraction_id, position, leg_distance_km, leg_travel_min)
            VALUES ($1, $2, $3, $4, $5)`,
			routeID, stop.Attraction.ID, stop.Position, stop.LegDistanceKm, stop.LegTravelMin,
		)
		if err != nil {
			return fmt.Errorf("failed to insert stop %d: %w", stop.Position, err)
		}
	}
	return nil
}

func (r *PostgresRepository) GetRoute(ctx context.Context, id uuid.UUID) (*types.Route, error) {
	var route types.Route
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, user_id, name, description, mode, fallback,
               total_distance_km, total_duration_min, total_cost, is_public,
               created_at, updated_at
        FROM routes
        WHERE id = $1`,
		id,
	).Scan(&route.ID, &route.UserID, &route.Name, &route.Description, &route.Mode,
		&route.Fallback, &route.TotalDistanceKm, &route.TotalDurationMin,
		&route.TotalCost, &route.IsPublic, &route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query route %s: %w", id, err)
	}

	stops, err := r.queryStops(ctx, id)
	if err != nil {
		return nil, err
	}
	route.Stops = stops
	return &route, nil
}

func (r *PostgresRepository) queryStops(ctx context.Context, routeID uuid.UUID) ([]types.RouteStop, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx, `
        SELECT s.position, s.leg_distance_km, s.leg_travel_min,
               a.id, a.name, a.description, a.category, a.latitude, a.longitude,
               a.address, a.visit_duration, a.price, a.rating
        FROM route_stops s
        JOIN attractions a ON a.id = s.attraction_id
        WHERE s.route_id = $1
        ORDER BY s.position`,
		routeID,
	)
	if r.metrics != nil {
		r.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
		if err != nil {
			r.metrics.DbQueryErrorsTotal.Add(ctx, 1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query route stops: %w", err)
	}
	defer rows.Close()

	var stops []types.RouteStop
	for rows.Next() {
		var s types.RouteStop
		a := &s.Attraction
		err := rows.Scan(&s.Position, &s.LegDistanceKm, &s.LegTravelMin,
			&a.ID, &a.Name, &a.Description, &a.Category,
			&a.Location.Latitude, &a.Location.Longitude,
			&a.Address, &a.VisitDuration, &a.Price, &a.Rating)
		if err != nil {
			return nil, fmt.Errorf("failed to scan route stop: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("route stop rows iteration failed: %w", err)
	}
	return stops, nil
}

func (r *PostgresRepository) ListRoutes(ctx context.Context, userID uuid.UUID) ([]types.Route, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT id, user_id, name, description, mode, fallback,
               total_distance_km, total_duration_min, total_cost, is_public,
               created_at, updated_at
        FROM routes
        WHERE user_id = $1
        ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes for user %s: %w", userID, err)
	}
	defer rows.Close()

	var out []types.Route
	for rows.Next() {
		var route types.Route
		err := rows.Scan(&route.ID, &route.UserID, &route.Name, &route.Description,
			&route.Mode, &route.Fallback, &route.TotalDistanceKm,
			&route.TotalDurationMin, &route.TotalCost, &route.IsPublic,
			&route.CreatedAt, &route.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan route row: %w", err)
		}
		out = append(out, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("route rows iteration failed: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) DeleteRoute(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM routes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete route %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// ReplaceStops swaps a route's stop list for a re-ordered one in a
// single transaction.
func (r *PostgresRepository) ReplaceStops(ctx context.Context, routeID uuid.UUID, stops []types.RouteStop, totalDistanceKm, totalDurationMin float64) error {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.WarnContext(ctx, "transaction rollback failed", slog.Any("error", rbErr))
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM route_stops WHERE route_id = $1`, routeID); err != nil {
		return fmt.Errorf("failed to clear route stops: %w", err)
	}
	if err := insertStops(ctx, tx, routeID, stops); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
        UPDATE routes
        SET total_distance_km = $2, total_duration_min = $3, updated_at = now()
        WHERE id = $1`,
		routeID, totalDistanceKm, totalDurationMin,
	)
	if err != nil {
		return fmt.Errorf("failed to update route totals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stop reorder: %w", err)
	}
	return nil
}
