package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

const (
	appendSyncLog = `INSERT INTO sync_logs (id, user_id, device_id, operation, status, details, started_at, completed_at, duration_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	listSyncLogsByUser = `SELECT id, user_id, device_id, operation, status, details, started_at, completed_at, duration_ms
	FROM sync_logs
	WHERE user_id = $1
	ORDER BY started_at DESC
	LIMIT $2;`
)

// syncLogRepository is the SQL-backed implementation of [SyncLogRepository].
// Entries are append-only; nothing ever updates or deletes them.
type syncLogRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncLogRepository constructs a [SyncLogRepository] backed by the
// provided database connection and logger.
func NewSyncLogRepository(db *DB, logger *logger.Logger) SyncLogRepository {
	return &syncLogRepository{
		DB:     db,
		logger: logger,
	}
}

// Append inserts one audit entry. The repository assigns ID.
func (r *syncLogRepository) Append(ctx context.Context, entry *models.SyncLog) error {
	log := logger.FromContext(ctx)

	entry.ID = utils.NewUUID()

	details, err := json.Marshal(entry.Details)
	if err != nil {
		log.Err(err).
			Str("func", "syncLogRepository.Append").
			Msg("error marshaling sync log details")
		return fmt.Errorf("error marshaling sync log details: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, appendSyncLog,
		entry.ID,
		entry.UserID,
		entry.DeviceID,
		entry.Operation,
		entry.Status,
		details,
		entry.StartedAt,
		entry.CompletedAt,
		entry.DurationMS,
	)
	if err != nil {
		log.Err(err).
			Str("func", "syncLogRepository.Append").
			Str("user_id", entry.UserID).
			Str("operation", entry.Operation).
			Msg("error inserting sync log")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ListByUser returns the most recent audit entries of the account.
func (r *syncLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.SyncLog, error) {
	log := logger.FromContext(ctx)

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.DB.QueryContext(ctx, listSyncLogsByUser, userID, limit)
	if err != nil {
		log.Err(err).
			Str("func", "syncLogRepository.ListByUser").
			Str("user_id", userID).
			Msg("error listing sync logs")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.SyncLog, 0, limit)

	for rows.Next() {
		var entry models.SyncLog
		var details []byte

		scanErr := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.DeviceID,
			&entry.Operation,
			&entry.Status,
			&details,
			&entry.StartedAt,
			&entry.CompletedAt,
			&entry.DurationMS,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "syncLogRepository.ListByUser").
				Str("user_id", userID).
				Msg("error scanning sync log row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		if details != nil {
			if unmarshalErr := json.Unmarshal(details, &entry.Details); unmarshalErr != nil {
				log.Err(unmarshalErr).
					Str("func", "syncLogRepository.ListByUser").
					Str("sync_log_id", entry.ID).
					Msg("error unmarshaling sync log details")
				return nil, fmt.Errorf("%w: %w", ErrScanningRow, unmarshalErr)
			}
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "syncLogRepository.ListByUser").
			Str("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}
