package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	appMiddleware "github.com/kazantrip/routegen/app/middleware"
	"github.com/kazantrip/routegen/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service covers the auth surface this service needs: register, login
// and refresh-token rotation. No OAuth, no password reset.
type Service interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.UserAuth, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*types.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// TokenConfig holds the signing material and lifetimes, injected from
// the config layer.
type TokenConfig struct {
	Secret          []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	tokens TokenConfig
}

func NewServiceImpl(repo Repository, tokens TokenConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		tokens: tokens,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (*types.UserAuth, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: username, email and a password of at least 8 characters are required", types.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, req.Username, req.Email, string(hash))
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", slog.String("userID", user.ID.String()))
	return user, nil
}

func (s *ServiceImpl) Login(ctx context.Context, req types.LoginRequest) (*types.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, types.ErrUnauthorized
	}

	return s.issueTokens(ctx, user)
}

func (s *ServiceImpl) Refresh(ctx context.Context, refreshToken string) (*types.TokenPair, error) {
	userID, err := s.repo.GetUserIDByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	// Rotation: the presented token is single-use.
	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	user := &types.UserAuth{ID: userID}
	return s.issueTokens(ctx, user)
}

func (s *ServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.InvalidateRefreshToken(ctx, refreshToken)
}

func (s *ServiceImpl) issueTokens(ctx context.Context, user *types.UserAuth) (*types.TokenPair, error) {
	now := time.Now()
	claims := appMiddleware.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.tokens.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokens.AccessTokenTTL)),
		},
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokens.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := uuid.NewString()
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refresh, now.Add(s.tokens.RefreshTokenTTL)); err != nil {
		return nil, err
	}

	return &types.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
