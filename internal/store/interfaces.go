package store

import (
	"context"
	"time"

	"github.com/BinGess/Ocean-backend/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mocks.go -package=mock

// RecordRepository persists journal records and enforces optimistic locking
// on every mutation. All methods are scoped by user id: a record owned by
// another user behaves exactly like a missing record.
type RecordRepository interface {
	// Create inserts a new record. The repository assigns ID, CreatedAt and
	// UpdatedAt and writes them back into record.
	Create(ctx context.Context, record *models.Record) error

	// FindByID returns a single live record. Soft-deleted records are
	// reported as ErrRecordNotFound.
	FindByID(ctx context.Context, userID, id string) (models.Record, error)

	// FindByIDs returns all live records among ids, in no particular order.
	// Missing ids are silently omitted.
	FindByIDs(ctx context.Context, userID string, ids []string) ([]models.Record, error)

	// FindChangedSince returns every record (including soft-deleted ones)
	// whose updated_at is strictly greater than since.
	FindChangedSince(ctx context.Context, userID string, since time.Time) ([]models.Record, error)

	// List returns live records matching the query filters, newest first.
	List(ctx context.Context, userID string, query models.RecordQuery) ([]models.Record, error)

	// Search returns live records whose transcription, title or summary
	// contains term, newest first.
	Search(ctx context.Context, userID, term string, limit, offset int) ([]models.Record, error)

	// Update applies a partial update guarded by patch.Version. On success
	// the stored version is incremented by exactly 1. Returns
	// ErrVersionConflict when patch.Version does not match the current
	// stored version, ErrRecordNotFound when no live record matches.
	Update(ctx context.Context, userID, id string, patch models.RecordPatch, deviceID *string) error

	// SoftDelete marks a live record deleted and increments its version.
	// Returns ErrRecordNotFound when no live record matches.
	SoftDelete(ctx context.Context, userID, id string, deviceID *string) error
}

// UserRepository handles account persistence.
type UserRepository interface {
	// CreateUser inserts a new account. The repository assigns ID and
	// CreatedAt. Returns ErrUserAlreadyExists on a phone/email/username
	// uniqueness violation.
	CreateUser(ctx context.Context, user *models.User) error

	// FindByIdentifier looks an account up by phone, email or username.
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)

	// FindByID returns the account with the given id.
	FindByID(ctx context.Context, id string) (models.User, error)

	// UpdateLoginState persists the failed-attempt counter, the lockout
	// deadline and the last successful login time.
	UpdateLoginState(ctx context.Context, userID string, attempts int, lockedUntil, lastLoginAt *time.Time) error
}

// DeviceRepository tracks client installations per account.
type DeviceRepository interface {
	// Upsert inserts the device or, when (user_id, device_id) already
	// exists, refreshes its descriptor fields and last_active_at.
	Upsert(ctx context.Context, device *models.Device) error

	// ListByUser returns all devices of the account, most recently active
	// first.
	ListByUser(ctx context.Context, userID string) ([]models.Device, error)
}

// RefreshTokenRepository stores hashed refresh tokens.
type RefreshTokenRepository interface {
	// Save inserts a new token. The repository assigns ID and CreatedAt.
	Save(ctx context.Context, token *models.RefreshToken) error

	// FindActiveByHash returns the unrevoked, unexpired token with the
	// given hash, or ErrTokenNotFound.
	FindActiveByHash(ctx context.Context, hash string) (models.RefreshToken, error)

	// Revoke marks a single token revoked.
	Revoke(ctx context.Context, id string) error

	// RevokeAllForDevice revokes every active token of one device.
	RevokeAllForDevice(ctx context.Context, userID, deviceID string) error
}

// SyncLogRepository is the append-only audit trail of sync engine
// invocations.
type SyncLogRepository interface {
	// Append inserts one audit entry. The repository assigns ID.
	Append(ctx context.Context, entry *models.SyncLog) error

	// ListByUser returns the most recent entries of the account.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.SyncLog, error)
}

// AIAPILogRepository records upstream AI calls.
type AIAPILogRepository interface {
	// Append inserts one call log entry. The repository assigns ID.
	Append(ctx context.Context, entry *models.AIAPILog) error
}
