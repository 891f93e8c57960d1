package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/store"
	"github.com/BinGess/Ocean-backend/models"
)

// migrateBatchSize bounds the number of inserts between progress log lines
// during bulk migration. Batches are not transactional: a crash mid-run
// leaves previously committed items intact.
const migrateBatchSize = 500

// syncService is the concrete implementation of [SyncService].
//
// It is built purely on top of the record repository's read/write contract
// and the audit recorder's append contract. There is no engine-level lock:
// correctness under concurrent devices is delegated entirely to the
// repository's compare-and-set on version.
type syncService struct {
	records store.RecordRepository
	audit   AuditRecorder
	logger  *logger.Logger
}

// NewSyncService constructs a [SyncService] wired to the given record
// repository and audit recorder.
func NewSyncService(records store.RecordRepository, audit AuditRecorder, logger *logger.Logger) SyncService {
	return &syncService{
		records: records,
		audit:   audit,
		logger:  logger,
	}
}

// Pull returns every record of the user whose updated_at is strictly
// greater than the request watermark, partitioned into three buckets:
//
//   - created: live, created after the watermark
//   - updated: live, created at or before the watermark
//   - deleted: soft-deleted (id only), regardless of creation time
//
// The response carries a fresh server-clock syncTimestamp for use as the
// next watermark. Any storage error aborts the whole pull; no partial
// result is returned.
func (s *syncService) Pull(ctx context.Context, userID string, deviceID *string, req models.PullRequest) (models.PullResponse, error) {
	log := logger.FromContext(ctx)
	startedAt := time.Now().UTC()

	if !wantsRecords(req.EntityTypes) {
		// nothing to fetch, but the invocation itself is still audited
		s.recordAudit(userID, deviceID, models.SyncOpPull, models.SyncStatusSuccess, startedAt, models.SyncDetails{})
		return models.PullResponse{
			Changes:       models.PullChanges{},
			SyncTimestamp: time.Now().UTC(),
		}, nil
	}

	changed, err := s.records.FindChangedSince(ctx, userID, req.LastSyncTimestamp)
	if err != nil {
		log.Err(err).
			Str("func", "syncService.Pull").
			Str("user_id", userID).
			Msg("failed to load changed records")
		s.recordAudit(userID, deviceID, models.SyncOpPull, models.SyncStatusFailed, startedAt, models.SyncDetails{
			Errors: []string{err.Error()},
		})
		return models.PullResponse{}, fmt.Errorf("pull failed: %w", err)
	}

	delta := bucketChanges(changed, req.LastSyncTimestamp)

	s.recordAudit(userID, deviceID, models.SyncOpPull, models.SyncStatusSuccess, startedAt, models.SyncDetails{
		RecordsCreated: len(delta.Created),
		RecordsUpdated: len(delta.Updated),
		RecordsDeleted: len(delta.Deleted),
	})

	log.Info().
		Str("func", "syncService.Pull").
		Str("user_id", userID).
		Int("created", len(delta.Created)).
		Int("updated", len(delta.Updated)).
		Int("deleted", len(delta.Deleted)).
		Msg("pull completed")

	return models.PullResponse{
		Changes:       models.PullChanges{Records: &delta},
		SyncTimestamp: time.Now().UTC(),
		HasMore:       false,
	}, nil
}

// Push applies a batch of client changes and reports the outcome per item.
//
// Creates always succeed: the server assigns a fresh id and version 1, and
// the response maps the client correlation id to it. Updates are guarded by
// the client's believed version: a mismatch produces a conflict descriptor
// in the response instead of an error, and the item is not retried. Updates
// of vanished or foreign ids are skipped silently. Deletes are applied
// unconditionally (no version check) and all reported as deleted.
//
// Only an unhandled storage error fails the whole call.
func (s *syncService) Push(ctx context.Context, userID string, deviceID *string, req models.PushRequest) (models.PushResponse, error) {
	log := logger.FromContext(ctx)
	startedAt := time.Now().UTC()

	results := models.RecordResults{
		Created: make([]models.CreatedMapping, 0),
		Updated: make([]models.UpdatedResult, 0),
		Deleted: make([]string, 0),
	}
	conflicts := make([]models.Conflict, 0)

	fail := func(err error) (models.PushResponse, error) {
		s.recordAudit(userID, deviceID, models.SyncOpPush, models.SyncStatusFailed, startedAt, models.SyncDetails{
			RecordsCreated:    len(results.Created),
			RecordsUpdated:    len(results.Updated),
			RecordsDeleted:    len(results.Deleted),
			ConflictsDetected: len(conflicts),
			Errors:            []string{err.Error()},
		})
		return models.PushResponse{}, fmt.Errorf("push failed: %w", err)
	}

	if req.Records != nil {
		for _, item := range req.Records.Created {
			record := models.NewRecord(userID, item.RecordFields, deviceID)
			if err := s.records.Create(ctx, record); err != nil {
				log.Err(err).
					Str("func", "syncService.Push").
					Str("client_id", item.ClientID).
					Msg("failed to create pushed record")
				return fail(err)
			}
			results.Created = append(results.Created, models.CreatedMapping{
				ClientID: item.ClientID,
				ServerID: record.ID,
				Data:     *record,
			})
		}

		for _, item := range req.Records.Updated {
			updated, conflict, err := s.applyUpdate(ctx, userID, deviceID, item)
			if err != nil {
				return fail(err)
			}
			if conflict != nil {
				conflicts = append(conflicts, *conflict)
				continue
			}
			if updated != nil {
				results.Updated = append(results.Updated, models.UpdatedResult{ID: updated.ID, Data: *updated})
			}
		}

		for _, id := range req.Records.Deleted {
			err := s.records.SoftDelete(ctx, userID, id, deviceID)
			if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
				log.Err(err).
					Str("func", "syncService.Push").
					Str("record_id", id).
					Msg("failed to soft-delete pushed record")
				return fail(err)
			}
			// absent ids are still acknowledged: the client's goal state
			// (record gone) already holds
			results.Deleted = append(results.Deleted, id)
		}
	}

	status := models.SyncStatusSuccess
	if len(conflicts) > 0 {
		status = models.SyncStatusPartial
	}

	s.recordAudit(userID, deviceID, models.SyncOpPush, status, startedAt, models.SyncDetails{
		RecordsCreated:    len(results.Created),
		RecordsUpdated:    len(results.Updated),
		RecordsDeleted:    len(results.Deleted),
		ConflictsDetected: len(conflicts),
	})

	log.Info().
		Str("func", "syncService.Push").
		Str("user_id", userID).
		Int("created", len(results.Created)).
		Int("updated", len(results.Updated)).
		Int("deleted", len(results.Deleted)).
		Int("conflicts", len(conflicts)).
		Msg("push completed")

	return models.PushResponse{
		Results:       models.PushResults{Records: &results},
		Conflicts:     conflicts,
		SyncTimestamp: time.Now().UTC(),
	}, nil
}

// applyUpdate processes one pushed update. Exactly one of the returns is
// meaningful: the refreshed record on success, a conflict descriptor on
// version mismatch, nil/nil/nil for a silently skipped missing target, or
// an error that must abort the push.
func (s *syncService) applyUpdate(ctx context.Context, userID string, deviceID *string, item models.RecordUpdateItem) (*models.Record, *models.Conflict, error) {
	log := logger.FromContext(ctx)

	current, err := s.records.FindByID(ctx, userID, item.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			log.Warn().
				Str("func", "syncService.applyUpdate").
				Str("record_id", item.ID).
				Msg("update target not found, skipping")
			return nil, nil, nil
		}
		return nil, nil, err
	}

	if current.Version != item.Version {
		return nil, &models.Conflict{
			EntityType:    models.EntityTypeRecord,
			EntityID:      current.ID,
			ClientVersion: item.Version,
			ServerVersion: current.Version,
			ServerData:    current,
		}, nil
	}

	err = s.records.Update(ctx, userID, item.ID, item.RecordPatch, deviceID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrVersionConflict):
			// lost a race after the version check above: re-read the
			// winner's state for the conflict descriptor
			fresh, readErr := s.records.FindByID(ctx, userID, item.ID)
			if readErr != nil {
				if errors.Is(readErr, store.ErrRecordNotFound) {
					return nil, nil, nil
				}
				return nil, nil, readErr
			}
			return nil, &models.Conflict{
				EntityType:    models.EntityTypeRecord,
				EntityID:      fresh.ID,
				ClientVersion: item.Version,
				ServerVersion: fresh.Version,
				ServerData:    fresh,
			}, nil
		case errors.Is(err, store.ErrRecordNotFound):
			return nil, nil, nil
		default:
			return nil, nil, err
		}
	}

	updated, err := s.records.FindByID(ctx, userID, item.ID)
	if err != nil {
		return nil, nil, err
	}

	return &updated, nil, nil
}

// ResolveConflict settles a previously reported conflict.
//
//   - server_wins: no mutation; the server's current state is returned as
//     authoritative.
//   - merge: the caller supplies a fully-formed merged payload which is
//     applied as a whole, bumping the version. The engine performs no
//     field-level merging itself.
//   - client_wins: explicitly rejected; the caller must resubmit via push.
//
// Validation failures are reported before any read or mutation.
func (s *syncService) ResolveConflict(ctx context.Context, userID string, deviceID *string, req models.ResolveConflictRequest) (models.ResolveConflictResponse, error) {
	log := logger.FromContext(ctx)
	startedAt := time.Now().UTC()

	if req.EntityType != models.EntityTypeRecord {
		return models.ResolveConflictResponse{}, fmt.Errorf("%w: %q", ErrValidationUnknownEntityType, req.EntityType)
	}

	switch req.Resolution {
	case models.ResolutionServerWins, models.ResolutionMerge:
	case models.ResolutionClientWins:
		return models.ResolveConflictResponse{}, ErrClientWinsNotSupported
	default:
		return models.ResolveConflictResponse{}, fmt.Errorf("%w: %q", ErrValidationUnknownResolution, req.Resolution)
	}

	if req.Resolution == models.ResolutionMerge && req.MergedData == nil {
		return models.ResolveConflictResponse{}, ErrValidationMergedDataMissing
	}

	fail := func(err error) (models.ResolveConflictResponse, error) {
		s.recordAudit(userID, deviceID, models.SyncOpConflictResolved, models.SyncStatusFailed, startedAt, models.SyncDetails{
			Errors: []string{err.Error()},
		})
		return models.ResolveConflictResponse{}, err
	}

	current, err := s.records.FindByID(ctx, userID, req.EntityID)
	if err != nil {
		log.Err(err).
			Str("func", "syncService.ResolveConflict").
			Str("record_id", req.EntityID).
			Msg("failed to load conflicted record")
		return fail(err)
	}

	resolved := current

	if req.Resolution == models.ResolutionMerge {
		patch := fullPatch(*req.MergedData, current.Version)
		if err = s.records.Update(ctx, userID, req.EntityID, patch, deviceID); err != nil {
			log.Err(err).
				Str("func", "syncService.ResolveConflict").
				Str("record_id", req.EntityID).
				Msg("failed to apply merged payload")
			return fail(err)
		}

		resolved, err = s.records.FindByID(ctx, userID, req.EntityID)
		if err != nil {
			return fail(err)
		}
	}

	s.recordAudit(userID, deviceID, models.SyncOpConflictResolved, models.SyncStatusSuccess, startedAt, models.SyncDetails{
		ConflictsResolved: 1,
	})

	log.Info().
		Str("func", "syncService.ResolveConflict").
		Str("record_id", req.EntityID).
		Str("resolution", req.Resolution).
		Int64("version", resolved.Version).
		Msg("conflict resolved")

	return models.ResolveConflictResponse{
		EntityID:   resolved.ID,
		EntityType: models.EntityTypeRecord,
		Version:    resolved.Version,
		Data:       resolved,
		ResolvedAt: time.Now().UTC(),
	}, nil
}

// BulkMigrate inserts all submitted items as new records, continuing past
// per-item failures. Each item is attempted independently; a failure records
// the client id and error message without aborting the rest.
//
// TotalProcessed is always the length of the input list.
func (s *syncService) BulkMigrate(ctx context.Context, userID string, deviceID *string, req models.BulkMigrateRequest) (models.BulkMigrateResponse, error) {
	log := logger.FromContext(ctx)
	startedAt := time.Now().UTC()

	if deviceID == nil && req.DeviceID != "" {
		deviceID = &req.DeviceID
	}

	mappings := make([]models.CreatedMapping, 0, len(req.Records))
	migrateErrors := make([]models.MigrateError, 0)

	for batchStart := 0; batchStart < len(req.Records); batchStart += migrateBatchSize {
		batchEnd := batchStart + migrateBatchSize
		if batchEnd > len(req.Records) {
			batchEnd = len(req.Records)
		}

		for _, item := range req.Records[batchStart:batchEnd] {
			if err := validateRecordFields(item.RecordFields); err != nil {
				migrateErrors = append(migrateErrors, models.MigrateError{
					ClientID: item.ClientID,
					Error:    err.Error(),
				})
				continue
			}

			record := models.NewRecord(userID, item.RecordFields, deviceID)
			if err := s.records.Create(ctx, record); err != nil {
				log.Err(err).
					Str("func", "syncService.BulkMigrate").
					Str("client_id", item.ClientID).
					Msg("failed to migrate record")
				migrateErrors = append(migrateErrors, models.MigrateError{
					ClientID: item.ClientID,
					Error:    err.Error(),
				})
				continue
			}

			mappings = append(mappings, models.CreatedMapping{
				ClientID: item.ClientID,
				ServerID: record.ID,
				Data:     *record,
			})
		}

		log.Debug().
			Str("func", "syncService.BulkMigrate").
			Str("user_id", userID).
			Int("processed", batchEnd).
			Int("total", len(req.Records)).
			Msg("bulk migrate batch finished")
	}

	status := models.SyncStatusSuccess
	if len(migrateErrors) > 0 {
		status = models.SyncStatusPartial
	}

	details := models.SyncDetails{RecordsCreated: len(mappings)}
	for _, migrateErr := range migrateErrors {
		details.Errors = append(details.Errors, migrateErr.Error)
	}
	s.recordAudit(userID, deviceID, models.SyncOpBulkMigrate, status, startedAt, details)

	log.Info().
		Str("func", "syncService.BulkMigrate").
		Str("user_id", userID).
		Int("migrated", len(mappings)).
		Int("errors", len(migrateErrors)).
		Msg("bulk migrate completed")

	return models.BulkMigrateResponse{
		Results:        models.BulkMigrateResults{Records: mappings},
		TotalProcessed: len(req.Records),
		TotalErrors:    len(migrateErrors),
		Errors:         migrateErrors,
		SyncTimestamp:  time.Now().UTC(),
	}, nil
}

// recordAudit enqueues one audit entry; persistence is best-effort and never
// affects the sync operation's outcome.
func (s *syncService) recordAudit(userID string, deviceID *string, operation, status string, startedAt time.Time, details models.SyncDetails) {
	completedAt := time.Now().UTC()
	s.audit.Enqueue(models.SyncLog{
		UserID:      userID,
		DeviceID:    deviceID,
		Operation:   operation,
		Status:      status,
		Details:     details,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		DurationMS:  completedAt.Sub(startedAt).Milliseconds(),
	})
}

// bucketChanges partitions a changed-since result set. Bucket membership is
// decided against the old watermark: a record created at or before it but
// changed after is "updated", a record created after it is "created" no
// matter how many edits followed. Each record lands in exactly one bucket.
func bucketChanges(changed []models.Record, watermark time.Time) models.RecordDelta {
	delta := models.RecordDelta{
		Created: make([]models.Record, 0),
		Updated: make([]models.Record, 0),
		Deleted: make([]string, 0),
	}

	for _, record := range changed {
		switch {
		case record.DeletedAt != nil:
			delta.Deleted = append(delta.Deleted, record.ID)
		case record.CreatedAt.After(watermark):
			delta.Created = append(delta.Created, record)
		default:
			delta.Updated = append(delta.Updated, record)
		}
	}

	return delta
}

// wantsRecords reports whether the optional entityTypes filter includes
// records. An empty filter means everything.
func wantsRecords(entityTypes []string) bool {
	if len(entityTypes) == 0 {
		return true
	}
	for _, entityType := range entityTypes {
		if entityType == "records" || entityType == models.EntityTypeRecord {
			return true
		}
	}
	return false
}

// fullPatch turns a complete payload into a patch that replaces every
// content field, guarded by the given expected version.
func fullPatch(fields models.RecordFields, expectedVersion int64) models.RecordPatch {
	patch := models.RecordPatch{
		Version:         expectedVersion,
		Type:            &fields.Type,
		Transcription:   &fields.Transcription,
		AudioURL:        fields.AudioURL,
		Duration:        fields.Duration,
		ProcessingMode:  fields.ProcessingMode,
		Title:           fields.Title,
		Summary:         fields.Summary,
		Date:            fields.Date,
		WeekRange:       fields.WeekRange,
		PatternFeedback: fields.PatternFeedback,
	}

	if fields.Moods != nil {
		patch.Moods = &fields.Moods
	}
	if fields.Needs != nil {
		patch.Needs = &fields.Needs
	}
	if fields.NVCAnalysis != nil {
		patch.NVCAnalysis = &fields.NVCAnalysis
	}
	if fields.ReferencedFragments != nil {
		patch.ReferencedFragments = &fields.ReferencedFragments
	}
	if fields.ReferencedRecords != nil {
		patch.ReferencedRecords = &fields.ReferencedRecords
	}

	return patch
}

// validateRecordFields rejects payloads that cannot form a well-typed
// record before anything touches storage.
func validateRecordFields(fields models.RecordFields) error {
	switch fields.Type {
	case models.RecordTypeQuickNote, models.RecordTypeJournal, models.RecordTypeWeekly:
	default:
		return fmt.Errorf("%w: %q", ErrValidationUnknownRecordType, fields.Type)
	}

	if fields.Transcription == "" {
		return ErrValidationEmptyTranscription
	}

	return nil
}
