package service

import (
	"context"
	"encoding/json"

	"github.com/BinGess/Ocean-backend/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mocks.go -package=mock

// SyncService is the multi-device synchronization engine: incremental pull,
// batched push with optimistic-lock conflict detection, explicit conflict
// resolution and one-time bulk migration.
type SyncService interface {
	// Pull returns every record changed strictly after the request
	// watermark, partitioned into created/updated/deleted buckets.
	Pull(ctx context.Context, userID string, deviceID *string, req models.PullRequest) (models.PullResponse, error)

	// Push applies a batch of client changes. Version-mismatched updates
	// are diverted into conflict descriptors instead of failing the call.
	Push(ctx context.Context, userID string, deviceID *string, req models.PushRequest) (models.PushResponse, error)

	// ResolveConflict settles a previously reported conflict using the
	// requested strategy.
	ResolveConflict(ctx context.Context, userID string, deviceID *string, req models.ResolveConflictRequest) (models.ResolveConflictResponse, error)

	// BulkMigrate imports a device's pre-existing offline data, isolating
	// per-item failures.
	BulkMigrate(ctx context.Context, userID string, deviceID *string, req models.BulkMigrateRequest) (models.BulkMigrateResponse, error)
}

// AuthService manages accounts, devices and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error)
	Logout(ctx context.Context, userID, deviceID string) error
	Devices(ctx context.Context, userID string) ([]models.Device, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// RecordsService is the direct (non-sync) CRUD surface over records.
type RecordsService interface {
	Create(ctx context.Context, userID string, deviceID *string, fields models.RecordFields) (models.Record, error)
	Get(ctx context.Context, userID, id string) (models.Record, error)
	List(ctx context.Context, userID string, query models.RecordQuery) ([]models.Record, error)
	ByIDs(ctx context.Context, userID string, ids []string) ([]models.Record, error)
	Search(ctx context.Context, userID, term string, limit, offset int) ([]models.Record, error)
	Update(ctx context.Context, userID, id string, patch models.RecordPatch, deviceID *string) (models.Record, error)
	Delete(ctx context.Context, userID, id string, deviceID *string) error
}

// AIService proxies transcriptions to the upstream NVC analysis provider.
type AIService interface {
	Analyze(ctx context.Context, userID string, req models.AnalyzeRequest) (models.AnalyzeResponse, error)
}

// AuditRecorder accepts audit entries fire-and-forget; enqueueing must
// never block or fail the calling operation.
type AuditRecorder interface {
	Enqueue(entry models.SyncLog)
}

// AIClient is the outbound contract of the upstream analysis provider.
type AIClient interface {
	// Analyze returns the provider's opaque analysis payload together with
	// the upstream HTTP status code.
	Analyze(ctx context.Context, transcription string) (json.RawMessage, int, error)
}
