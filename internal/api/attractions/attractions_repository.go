package attractions

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

// Repository reads the attraction catalog. The engine only ever sees
// snapshots returned from here; nothing writes attractions at runtime.
type Repository interface {
	ListActive(ctx context.Context) ([]types.Attraction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Attraction, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Attraction, error)
	Search(ctx context.Context, filter types.AttractionFilter) ([]types.Attraction, error)
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

const attractionColumns = `id, name, description, category, latitude, longitude, address, visit_duration, price, rating`

func scanAttraction(row pgx.Row) (types.Attraction, error) {
	var a types.Attraction
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Category,
		&a.Location.Latitude, &a.Location.Longitude,
		&a.Address, &a.VisitDuration, &a.Price, &a.Rating)
	return a, err
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]types.Attraction, error) {
	query := `SELECT ` + attractionColumns + ` FROM attractions WHERE is_active ORDER BY created_at, id`
	return r.queryAttractions(ctx, query)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*types.Attraction, error) {
	query := `SELECT ` + attractionColumns + ` FROM attractions WHERE id = $1`
	a, err := scanAttraction(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query attraction %s: %w", id, err)
	}
	return &a, nil
}

func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Attraction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + attractionColumns + ` FROM attractions WHERE id = ANY($1)`
	return r.queryAttractions(ctx, query, ids)
}

func (r *PostgresRepository) Search(ctx context.Context, filter types.AttractionFilter) ([]types.Attraction, error) {
	query := `SELECT ` + attractionColumns + ` FROM attractions WHERE is_active`
	args := []interface{}{}
	argPos := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category ILIKE $%d", argPos)
		args = append(args, filter.Category)
		argPos++
	}
	if filter.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", argPos)
		args = append(args, *filter.MaxPrice)
		argPos++
	}
	if filter.MinRating > 0 {
		query += fmt.Sprintf(" AND rating >= $%d", argPos)
		args = append(args, filter.MinRating)
	}
	query += " ORDER BY rating DESC, id"

	return r.queryAttractions(ctx, query, args...)
}

func (r *PostgresRepository) queryAttractions(ctx context.Context, query string, args ...interface{}) ([]types.Attraction, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx, query, args...)
	if r.metrics != nil {
		r.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
		if err != nil {
			r.metrics.DbQueryErrorsTotal.Add(ctx, 1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query attractions: %w", err)
	}
	defer rows.Close()

	var out []types.Attraction
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attraction row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("attraction rows iteration failed: %w", err)
	}
	return out, nil
}
