package models

import "time"

// Sync operations recorded in the audit trail.
const (
	SyncOpPull             = "pull"
	SyncOpPush             = "push"
	SyncOpConflictResolved = "conflict_resolved"
	SyncOpBulkMigrate      = "bulk_migrate"
)

// Sync outcomes.
const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
)

// SyncDetails is the structured summary attached to a sync log entry.
type SyncDetails struct {
	RecordsCreated     int      `json:"recordsCreated,omitempty"`
	RecordsUpdated     int      `json:"recordsUpdated,omitempty"`
	RecordsDeleted     int      `json:"recordsDeleted,omitempty"`
	ConflictsDetected  int      `json:"conflictsDetected,omitempty"`
	ConflictsResolved  int      `json:"conflictsResolved,omitempty"`
	Errors             []string `json:"errors,omitempty"`
}

// SyncLog is one append-only audit entry per sync engine invocation.
// It is written once, never mutated, and never read back by the engine;
// observability only.
type SyncLog struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	DeviceID    *string     `json:"deviceId,omitempty"`
	Operation   string      `json:"operation"`
	Status      string      `json:"status"`
	Details     SyncDetails `json:"details"`
	StartedAt   time.Time   `json:"startedAt"`
	CompletedAt time.Time   `json:"completedAt"`
	DurationMS  int64       `json:"durationMs"`
}
