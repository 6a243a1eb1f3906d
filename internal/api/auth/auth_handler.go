package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	appMiddleware "github.com/kazantrip/routegen/app/middleware"
	"github.com/kazantrip/routegen/internal/api"
	"github.com/kazantrip/routegen/internal/types"
)

// GetUserIDFromContext returns the authenticated user's ID placed in
// the context by the Authenticate middleware.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(appMiddleware.UserIDKey).(string)
	return userID, ok && userID != ""
}

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

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrEmailExists):
			api.ErrorResponse(w, r, http.StatusConflict, "email already registered")
		default:
			l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to register user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.service.Login(ctx, req)
	if err != nil {
		if errors.Is(err, types.ErrUnauthorized) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "invalid email or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to log in")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, tokens)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /auth/refresh, rotating the refresh token.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, types.ErrUnauthorized) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "invalid or expired refresh token")
			return
		}
		h.logger.ErrorContext(ctx, "Token refresh failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to refresh token")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Logout(ctx, req.RefreshToken); err != nil {
		if errors.Is(err, types.ErrUnauthorized) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "invalid or expired refresh token")
			return
		}
		h.logger.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to log out")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
