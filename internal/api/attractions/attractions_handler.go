package attractions

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kazantrip/routegen/internal/api"
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

// List handles GET /attractions with optional category, max_price and
// min_rating query filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := types.AttractionFilter{
		Category: r.URL.Query().Get("category"),
	}
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "max_price must be a non-negative number")
			return
		}
		filter.MaxPrice = &maxPrice
	}
	if raw := r.URL.Query().Get("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil || minRating < 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "min_rating must be a non-negative number")
			return
		}
		filter.MinRating = minRating
	}

	result, err := h.service.Search(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "Attraction search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to list attractions")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// Get handles GET /attractions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid attraction ID")
		return
	}

	attraction, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "attraction not found")
			return
		}
		h.logger.ErrorContext(ctx, "Attraction lookup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to fetch attraction")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, attraction)
}

// Nearby handles GET /attractions/nearby?lat=..&lon=..&radius_km=..
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	radiusKm := 0.0
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		var err error
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm < 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "radius_km must be a non-negative number")
			return
		}
	}

	result, err := h.service.Nearby(ctx, types.Coordinate{Latitude: lat, Longitude: lon}, radiusKm)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Nearby lookup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to find nearby attractions")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
