package service

import (
	"context"
	"fmt"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/store"
	"github.com/BinGess/Ocean-backend/models"
)

// recordsService is the concrete implementation of [RecordsService]: the
// direct CRUD surface a single device uses outside of sync cycles. All
// mutations flow through the same version-checked repository operations as
// the sync engine, so versions stay consistent no matter which path wrote
// last.
type recordsService struct {
	records store.RecordRepository
	logger  *logger.Logger
}

// NewRecordsService constructs a [RecordsService] wired to the given record
// repository.
func NewRecordsService(records store.RecordRepository, logger *logger.Logger) RecordsService {
	return &recordsService{
		records: records,
		logger:  logger,
	}
}

// Create validates the payload and inserts a new record at version 1.
func (s *recordsService) Create(ctx context.Context, userID string, deviceID *string, fields models.RecordFields) (models.Record, error) {
	log := logger.FromContext(ctx)

	if err := validateRecordFields(fields); err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	record := models.NewRecord(userID, fields, deviceID)
	if err := s.records.Create(ctx, record); err != nil {
		log.Err(err).
			Str("func", "recordsService.Create").
			Str("user_id", userID).
			Msg("failed to create record")
		return models.Record{}, fmt.Errorf("failed to create record: %w", err)
	}

	return *record, nil
}

// Get returns a single live record.
func (s *recordsService) Get(ctx context.Context, userID, id string) (models.Record, error) {
	return s.records.FindByID(ctx, userID, id)
}

// List returns live records matching the query filters.
func (s *recordsService) List(ctx context.Context, userID string, query models.RecordQuery) ([]models.Record, error) {
	return s.records.List(ctx, userID, query)
}

// ByIDs returns the live records among ids; missing ids are omitted.
func (s *recordsService) ByIDs(ctx context.Context, userID string, ids []string) ([]models.Record, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one id is required", ErrInvalidDataProvided)
	}
	return s.records.FindByIDs(ctx, userID, ids)
}

// Search returns live records whose textual fields contain term.
func (s *recordsService) Search(ctx context.Context, userID, term string, limit, offset int) ([]models.Record, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrInvalidDataProvided)
	}
	return s.records.Search(ctx, userID, term, limit, offset)
}

// Update applies a version-guarded partial update and returns the record's
// fresh state. Version mismatches surface as [store.ErrVersionConflict].
func (s *recordsService) Update(ctx context.Context, userID, id string, patch models.RecordPatch, deviceID *string) (models.Record, error) {
	log := logger.FromContext(ctx)

	if err := s.records.Update(ctx, userID, id, patch, deviceID); err != nil {
		return models.Record{}, err
	}

	updated, err := s.records.FindByID(ctx, userID, id)
	if err != nil {
		log.Err(err).
			Str("func", "recordsService.Update").
			Str("record_id", id).
			Msg("failed to reload updated record")
		return models.Record{}, fmt.Errorf("failed to reload updated record: %w", err)
	}

	return updated, nil
}

// Delete soft-deletes a live record, bumping its version so other devices
// pick the deletion up on their next pull.
func (s *recordsService) Delete(ctx context.Context, userID, id string, deviceID *string) error {
	return s.records.SoftDelete(ctx, userID, id, deviceID)
}
