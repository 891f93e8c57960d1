package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

const (
	saveRefreshToken = `INSERT INTO refresh_tokens (id, user_id, device_id, token_hash, expires_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);`

	findActiveTokenByHash = `SELECT id, user_id, device_id, token_hash, expires_at, revoked_at, created_at
	FROM refresh_tokens
	WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > $2;`

	revokeToken = `UPDATE refresh_tokens SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL;`

	revokeDeviceTokens = `UPDATE refresh_tokens SET revoked_at = $1
	WHERE user_id = $2 AND device_id = $3 AND revoked_at IS NULL;`
)

// refreshTokenRepository is the SQL-backed implementation of
// [RefreshTokenRepository]. Only SHA-256 hashes of tokens are stored.
type refreshTokenRepository struct {
	*DB
	logger *logger.Logger
}

// NewRefreshTokenRepository constructs a [RefreshTokenRepository] backed by
// the provided database connection and logger.
func NewRefreshTokenRepository(db *DB, logger *logger.Logger) RefreshTokenRepository {
	return &refreshTokenRepository{
		DB:     db,
		logger: logger,
	}
}

// Save inserts a new token row. The repository assigns ID and CreatedAt.
func (r *refreshTokenRepository) Save(ctx context.Context, token *models.RefreshToken) error {
	log := logger.FromContext(ctx)

	token.ID = utils.NewUUID()
	token.CreatedAt = time.Now().UTC()

	_, err := r.DB.ExecContext(ctx, saveRefreshToken,
		token.ID,
		token.UserID,
		token.DeviceID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "refreshTokenRepository.Save").
			Str("user_id", token.UserID).
			Msg("error inserting refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// FindActiveByHash returns the unrevoked, unexpired token with the given
// hash, or [ErrTokenNotFound].
func (r *refreshTokenRepository) FindActiveByHash(ctx context.Context, hash string) (models.RefreshToken, error) {
	log := logger.FromContext(ctx)

	var token models.RefreshToken
	err := r.DB.QueryRowContext(ctx, findActiveTokenByHash, hash, time.Now().UTC()).Scan(
		&token.ID,
		&token.UserID,
		&token.DeviceID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RefreshToken{}, ErrTokenNotFound
		}
		log.Err(err).
			Str("func", "refreshTokenRepository.FindActiveByHash").
			Msg("error scanning refresh token row")
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return token, nil
}

// Revoke marks a single token revoked. Revoking an already revoked token is
// a no-op.
func (r *refreshTokenRepository) Revoke(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, revokeToken, time.Now().UTC(), id)
	if err != nil {
		log.Err(err).
			Str("func", "refreshTokenRepository.Revoke").
			Str("token_id", id).
			Msg("error revoking refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// RevokeAllForDevice revokes every active token of one device, used on
// logout.
func (r *refreshTokenRepository) RevokeAllForDevice(ctx context.Context, userID, deviceID string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, revokeDeviceTokens, time.Now().UTC(), userID, deviceID)
	if err != nil {
		log.Err(err).
			Str("func", "refreshTokenRepository.RevokeAllForDevice").
			Str("user_id", userID).
			Str("device_id", deviceID).
			Msg("error revoking device refresh tokens")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
