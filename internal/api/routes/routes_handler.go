package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kazantrip/routegen/internal/api"
	"github.com/kazantrip/routegen/internal/api/auth"
	"github.com/kazantrip/routegen/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}

func routeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid route ID")
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /routes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	result, err := h.service.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list routes", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to list routes")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// Get handles GET /routes/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := routeID(w, r)
	if !ok {
		return
	}

	route, err := h.service.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "route not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch route", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to fetch route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, route)
}

// Delete handles DELETE /routes/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := routeID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "route not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete route", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to delete route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

type optimizeRequest struct {
	Start      *types.Coordinate `json:"start,omitempty"`
	TravelMode types.TravelMode  `json:"travel_mode,omitempty"`
}

// Optimize handles POST /routes/{id}/optimize: re-orders the stored
// stops with the nearest-neighbor pass and persists the new order.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := routeID(w, r)
	if !ok {
		return
	}

	var req optimizeRequest
	if r.ContentLength > 0 {
		if err := api.DecodeJSONBody(w, r, &req); err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Start != nil {
		if err := req.Start.Validate(); err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	route, err := h.service.Optimize(ctx, id, userID, req.Start, req.TravelMode)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "route not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to optimize route", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to optimize route")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, route)
}
