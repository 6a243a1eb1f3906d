package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kazantrip/routegen/app/observability/metrics"
	"github.com/kazantrip/routegen/internal/types"
)

// CandidateSource supplies the read-only attraction pool. The engine
// treats the returned slice as an immutable per-request snapshot.
type CandidateSource interface {
	ListActive(ctx context.Context) ([]types.Attraction, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service is the route generation and optimization engine.
type Service interface {
	GenerateRoute(ctx context.Context, pref types.Preference, mode types.GenerationMode) (*types.GeneratedRoute, error)
}

// Options are the engine's design parameters. Zero values take the
// documented defaults.
type Options struct {
	// DurationTolerance widens the accepted total-duration band around
	// the requested duration (0.2 = +-20%).
	DurationTolerance float64
	// MinResolvedSuggestions is the threshold below which LLM output is
	// discarded entirely in favor of algorithmic selection.
	MinResolvedSuggestions int
	MaxSuggestions         int
	MaxStops               int
}

func (o Options) withDefaults() Options {
	if o.DurationTolerance <= 0 {
		o.DurationTolerance = 0.2
	}
	if o.MinResolvedSuggestions <= 0 {
		o.MinResolvedSuggestions = 1
	}
	if o.MaxSuggestions <= 0 {
		o.MaxSuggestions = 10
	}
	if o.MaxStops <= 0 {
		o.MaxStops = 20
	}
	return o
}

// ServiceImpl wires the filter, suggestion adapter, selection/ordering
// and assembly steps. All state is request-scoped; concurrent requests
// share nothing mutable.
type ServiceImpl struct {
	logger    *slog.Logger
	source    CandidateSource
	suggester Suggester
	opts      Options
	metrics   *metrics.AppMetrics
}

// NewServiceImpl creates the engine. metrics may be nil (tests).
func NewServiceImpl(source CandidateSource, suggester Suggester, opts Options, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		source:    source,
		suggester: suggester,
		opts:      opts.withDefaults(),
		metrics:   m,
	}
}

func (s *ServiceImpl) GenerateRoute(ctx context.Context, pref types.Preference, mode types.GenerationMode) (*types.GeneratedRoute, error) {
	ctx, span := otel.Tracer("GenerationService").Start(ctx, "GenerateRoute", trace.WithAttributes(
		attribute.String("generation.mode", string(mode)),
	))
	defer span.End()
	start := time.Now()

	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown generation mode %q", types.ErrValidation, mode)
	}
	if err := pref.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	pool, err := s.source.ListActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load candidate pool", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	route, err := s.GenerateFromPool(ctx, pool, pref, mode)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.GenerationRequestsTotal.Add(ctx, 1)
		s.metrics.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds())
		if route.Fallback {
			s.metrics.GenerationFallbacksTotal.Add(ctx, 1)
		}
	}
	span.SetAttributes(
		attribute.Int("route.stops", len(route.Stops)),
		attribute.Bool("route.fallback", route.Fallback),
	)
	span.SetStatus(codes.Ok, "Route generated")
	return route, nil
}

// GenerateFromPool runs the engine over a caller-supplied pool snapshot.
// Exposed separately so callers that already hold a pool (and tests) can
// bypass the repository.
func (s *ServiceImpl) GenerateFromPool(ctx context.Context, pool []types.Attraction, pref types.Preference, mode types.GenerationMode) (*types.GeneratedRoute, error) {
	filtered := FilterCandidates(pool, pref)
	if len(filtered) == 0 {
		return nil, types.ErrEmptyCandidatePool
	}

	fallback := false
	var ordered []types.Attraction

	if mode == types.ModeLLM || mode == types.ModeHybrid {
		var names []string
		if s.suggester != nil {
			names = s.suggester.Suggest(ctx, pref, candidateNames(filtered))
		}
		res := resolveNames(names, filtered)
		if len(res.matched) >= s.opts.MinResolvedSuggestions {
			// The resolved set is the selected subset verbatim; only
			// the ordering step still applies.
			ordered = orderNearestNeighbor(res.matched, pref.Start)
			fallback = res.dropped > 0
			s.logger.DebugContext(ctx, "resolved LLM suggestions",
				slog.Int("suggested", len(names)),
				slog.Int("resolved", len(res.matched)),
				slog.Int("dropped", res.dropped))
		} else {
			// Full fallback: all LLM content discarded.
			fallback = true
			s.logger.InfoContext(ctx, "LLM suggestions unusable, falling back to algorithmic selection",
				slog.Int("suggested", len(names)),
				slog.Int("resolved", len(res.matched)))
		}
	}

	if ordered == nil {
		sel := selectCandidates(filtered, pref, s.opts.DurationTolerance, s.opts.MaxStops)
		ordered = orderNearestNeighbor(sel.attractions, pref.Start)
	}

	return assembleRoute(ordered, pref, mode, fallback, s.opts.DurationTolerance), nil
}

func candidateNames(pool []types.Attraction) []string {
	names := make([]string, len(pool))
	for i, a := range pool {
		names[i] = a.Name
	}
	return names
}
