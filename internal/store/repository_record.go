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

// recordRepository is the SQL-backed implementation of [RecordRepository].
// It executes all record CRUD operations against the "records" table using
// the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (user_id, record_id, etc.).
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by the provided
// database connection and logger.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

// Create inserts a new record with a fresh server-side id and timestamps.
// The assigned values are written back into record before returning.
func (r *recordRepository) Create(ctx context.Context, record *models.Record) error {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	record.ID = utils.NewUUID()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.Version == 0 {
		record.Version = 1
	}

	_, err := r.DB.ExecContext(ctx, insertRecord,
		record.ID,
		record.UserID,
		record.Type,
		record.Transcription,
		record.AudioURL,
		record.Duration,
		record.ProcessingMode,
		record.Moods,
		record.Needs,
		[]byte(record.NVCAnalysis),
		record.Title,
		record.Summary,
		record.Date,
		record.ReferencedFragments,
		record.WeekRange,
		record.ReferencedRecords,
		record.PatternFeedback,
		record.Version,
		record.CreatedAt,
		record.UpdatedAt,
		record.CreatedDeviceID,
		record.LastModifiedDeviceID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Create").
			Str("user_id", record.UserID).
			Bool("retryable", r.isRetryable(err)).
			Msg("failed to insert record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// FindByID retrieves a single live record scoped by owner.
func (r *recordRepository) FindByID(ctx context.Context, userID, id string) (models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindByIDQuery(userID, id)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.FindByID").
			Str("record_id", id).
			Msg("failed to create query")
		return models.Record{}, err
	}

	row := r.DB.QueryRowContext(ctx, query, args...)

	record, scanErr := scanRecord(row)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Record{}, ErrRecordNotFound
		}
		log.Err(scanErr).
			Str("func", "recordRepository.FindByID").
			Str("record_id", id).
			Msg("failed to scan record row")
		return models.Record{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return record, nil
}

// FindByIDs retrieves the live records among ids; missing ids are omitted.
func (r *recordRepository) FindByIDs(ctx context.Context, userID string, ids []string) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	if len(ids) == 0 {
		return []models.Record{}, nil
	}

	query, args, err := buildFindByIDsQuery(userID, ids)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.FindByIDs").
			Str("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	return r.queryRecords(ctx, "recordRepository.FindByIDs", query, args)
}

// FindChangedSince retrieves every record, live or soft-deleted, modified
// strictly after since. This is the candidate set of a pull cycle.
func (r *recordRepository) FindChangedSince(ctx context.Context, userID string, since time.Time) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildChangedSinceQuery(userID, since)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.FindChangedSince").
			Str("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	return r.queryRecords(ctx, "recordRepository.FindChangedSince", query, args)
}

// List retrieves live records matching the listing filters.
func (r *recordRepository) List(ctx context.Context, userID string, recordQuery models.RecordQuery) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListQuery(userID, recordQuery)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.List").
			Str("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	return r.queryRecords(ctx, "recordRepository.List", query, args)
}

// Search retrieves live records whose textual fields contain term.
func (r *recordRepository) Search(ctx context.Context, userID, term string, limit, offset int) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSearchQuery(userID, term, limit, offset)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Search").
			Str("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	return r.queryRecords(ctx, "recordRepository.Search", query, args)
}

// Update applies a partial update guarded by patch.Version.
//
// It executes the CTE-based update query that returns both the updated row
// id and the current database version, enabling the caller to distinguish
// between "not found" (both NULL) and "version conflict" (updated id NULL,
// version non-NULL).
func (r *recordRepository) Update(ctx context.Context, userID, id string, patch models.RecordPatch, deviceID *string) error {
	log := logger.FromContext(ctx)

	query, args := buildUpdateRecordQuery(userID, id, patch, deviceID, time.Now().UTC())

	var updatedID *string
	var currentDBVersion *int64

	queryRowErr := r.DB.QueryRowContext(ctx, query, args...).Scan(&updatedID, &currentDBVersion)
	if queryRowErr != nil {
		log.Err(queryRowErr).
			Str("func", "recordRepository.Update").
			Str("record_id", id).
			Bool("retryable", r.isRetryable(queryRowErr)).
			Msg("failed to execute update query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	// not found: target_record empty -> both NULL
	if currentDBVersion == nil {
		log.Warn().
			Str("func", "recordRepository.Update").
			Str("record_id", id).
			Msg("record not found")
		return ErrRecordNotFound
	}

	// found but not updated -> version mismatch
	if updatedID == nil {
		log.Warn().
			Str("func", "recordRepository.Update").
			Str("record_id", id).
			Int64("db_version", *currentDBVersion).
			Int64("provided_version", patch.Version).
			Msg("optimistic lock failed: version mismatch")
		return fmt.Errorf("failed to update record: %w", ErrVersionConflict)
	}

	log.Info().
		Str("func", "recordRepository.Update").
		Str("record_id", id).
		Msg("successfully updated record")

	return nil
}

// SoftDelete marks a live record deleted and bumps its version. The row is
// preserved so that other devices can detect the deletion during pull.
func (r *recordRepository) SoftDelete(ctx context.Context, userID, id string, deviceID *string) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, softDeleteRecord, time.Now().UTC(), deviceID, id, userID)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.SoftDelete").
			Str("record_id", id).
			Bool("retryable", r.isRetryable(err)).
			Msg("failed to execute soft delete query")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "recordRepository.SoftDelete").
			Str("record_id", id).
			Msg("record not found")
		return ErrRecordNotFound
	}

	log.Info().
		Str("func", "recordRepository.SoftDelete").
		Str("record_id", id).
		Msg("successfully soft-deleted record")

	return nil
}

// queryRecords executes a prebuilt SELECT and scans the full result set.
func (r *recordRepository) queryRecords(ctx context.Context, caller, query string, args []any) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", caller).
			Msg("failed to execute query for getting records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Record, 0, 50)

	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", caller).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		results = append(results, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", caller).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one full record row in [recordColumns] order.
func scanRecord(row rowScanner) (models.Record, error) {
	var record models.Record
	var nvcAnalysis []byte

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Type,
		&record.Transcription,
		&record.AudioURL,
		&record.Duration,
		&record.ProcessingMode,
		&record.Moods,
		&record.Needs,
		&nvcAnalysis,
		&record.Title,
		&record.Summary,
		&record.Date,
		&record.ReferencedFragments,
		&record.WeekRange,
		&record.ReferencedRecords,
		&record.PatternFeedback,
		&record.Version,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.DeletedAt,
		&record.CreatedDeviceID,
		&record.LastModifiedDeviceID,
	)
	if err != nil {
		return models.Record{}, err
	}

	if nvcAnalysis != nil {
		record.NVCAnalysis = nvcAnalysis
	}

	return record, nil
}
