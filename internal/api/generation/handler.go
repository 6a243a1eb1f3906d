package generation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kazantrip/routegen/internal/api"
	"github.com/kazantrip/routegen/internal/api/auth"
	"github.com/kazantrip/routegen/internal/types"
)

// RouteSaver persists a generated route on behalf of the caller. The
// engine itself never owns the route after returning it.
type RouteSaver interface {
	SaveGeneratedRoute(ctx context.Context, userID uuid.UUID, name string, route *types.GeneratedRoute) (*types.Route, error)
}

type Handler struct {
	service Service
	saver   RouteSaver
	logger  *slog.Logger
}

func NewHandler(service Service, saver RouteSaver, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		saver:   saver,
		logger:  logger,
	}
}

type GenerateRouteRequest struct {
	Mode       types.GenerationMode `json:"mode"`
	Name       string               `json:"name,omitempty"`
	Save       bool                 `json:"save,omitempty"`
	Preference types.Preference     `json:"preference"`
}

type GenerateRouteResponse struct {
	Route   *types.GeneratedRoute `json:"route"`
	SavedID *uuid.UUID            `json:"saved_route_id,omitempty"`
}

// GenerateRoute handles POST /routes/generate.
func (h *Handler) GenerateRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GenerationHandler").Start(r.Context(), "GenerateRoute", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/routes/generate"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateRoute"))

	var req GenerateRouteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = types.ModeAlgorithmic
	}

	route, err := h.service.GenerateRoute(ctx, req.Preference, req.Mode)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrEmptyCandidatePool):
			api.ErrorResponse(w, r, http.StatusNotFound, "no attractions match your filters")
		default:
			l.ErrorContext(ctx, "Route generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to generate route")
		}
		span.RecordError(err)
		return
	}

	resp := GenerateRouteResponse{Route: route}
	if req.Save && h.saver != nil {
		userIDStr, ok := auth.GetUserIDFromContext(ctx)
		if !ok {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required to save routes")
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
			return
		}
		saved, err := h.saver.SaveGeneratedRoute(ctx, userID, req.Name, route)
		if err != nil {
			l.ErrorContext(ctx, "Failed to persist generated route", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "route generated but could not be saved")
			return
		}
		resp.SavedID = &saved.ID
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
