package store

import (
	"context"
	"fmt"
	"time"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

const appendAIAPILog = `INSERT INTO ai_api_logs (id, user_id, api_type, status_code, duration_ms, error, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);`

// aiAPILogRepository is the SQL-backed implementation of [AIAPILogRepository].
type aiAPILogRepository struct {
	*DB
	logger *logger.Logger
}

// NewAIAPILogRepository constructs an [AIAPILogRepository] backed by the
// provided database connection and logger.
func NewAIAPILogRepository(db *DB, logger *logger.Logger) AIAPILogRepository {
	return &aiAPILogRepository{
		DB:     db,
		logger: logger,
	}
}

// Append inserts one upstream call log entry. The repository assigns ID and
// CreatedAt.
func (r *aiAPILogRepository) Append(ctx context.Context, entry *models.AIAPILog) error {
	log := logger.FromContext(ctx)

	entry.ID = utils.NewUUID()
	entry.CreatedAt = time.Now().UTC()

	_, err := r.DB.ExecContext(ctx, appendAIAPILog,
		entry.ID,
		entry.UserID,
		entry.APIType,
		entry.StatusCode,
		entry.DurationMS,
		entry.Error,
		entry.CreatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "aiAPILogRepository.Append").
			Str("api_type", entry.APIType).
			Msg("error inserting ai api log")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
