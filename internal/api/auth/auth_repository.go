package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "github.com/kazantrip/routegen/app/db"
	"github.com/kazantrip/routegen/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository persists users and server-side refresh tokens.
type Repository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*types.UserAuth, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetUserIDByRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	InvalidateRefreshToken(ctx context.Context, token string) error
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool database.PGXPool
}

func NewPostgresRepository(pgpool database.PGXPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*types.UserAuth, error) {
	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx, `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, username, email, password_hash, created_at`,
		username, email, passwordHash,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, types.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, username, email, password_hash, created_at
        FROM users
        WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return &user, nil
}

func (r *PostgresRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx, `
        INSERT INTO refresh_tokens (user_id, token, expires_at)
        VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetUserIDByRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.pgpool.QueryRow(ctx, `
        SELECT user_id
        FROM refresh_tokens
        WHERE token = $1 AND revoked_at IS NULL AND expires_at > now()`,
		token,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, types.ErrUnauthorized
		}
		return uuid.Nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return userID, nil
}

func (r *PostgresRepository) InvalidateRefreshToken(ctx context.Context, token string) error {
	tag, err := r.pgpool.Exec(ctx, `
        UPDATE refresh_tokens
        SET revoked_at = now()
        WHERE token = $1 AND revoked_at IS NULL`,
		token,
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUnauthorized
	}
	return nil
}
