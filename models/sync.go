package models

import "time"

// Conflict resolution strategies accepted by the resolve-conflict endpoint.
const (
	ResolutionServerWins = "server_wins"
	ResolutionClientWins = "client_wins"
	ResolutionMerge      = "merge"
)

// EntityTypeRecord is the only syncable entity type in the current schema.
const EntityTypeRecord = "record"

// PullRequest asks for every record changed strictly after the watermark.
type PullRequest struct {
	LastSyncTimestamp time.Time `json:"lastSyncTimestamp"`
	EntityTypes       []string  `json:"entityTypes,omitempty"`
}

// RecordDelta partitions the server-side changes since the watermark.
// A record appears in exactly one bucket: created if it did not exist at
// the watermark, updated if it did, deleted (id only) if it carries a
// soft-delete marker.
type RecordDelta struct {
	Created []Record `json:"created"`
	Updated []Record `json:"updated"`
	Deleted []string `json:"deleted"`
}

// PullChanges groups deltas per entity type.
type PullChanges struct {
	Records *RecordDelta `json:"records,omitempty"`
}

// PullResponse carries the complete delta plus the next watermark.
// HasMore is always false in the current single-response implementation;
// a paginated implementation must set it honestly.
type PullResponse struct {
	Changes       PullChanges `json:"changes"`
	SyncTimestamp time.Time   `json:"syncTimestamp"`
	HasMore       bool        `json:"hasMore"`
}

// RecordCreate is a client-created record awaiting a server id.
// ClientID correlates the created item with the server-assigned id in the
// push response; it is never stored.
type RecordCreate struct {
	ClientID string `json:"clientId"`
	RecordFields
}

// RecordUpdateItem is a client-side edit of an existing record, carrying
// the client's believed version for optimistic-lock comparison.
type RecordUpdateItem struct {
	ID string `json:"id"`
	RecordPatch
}

// RecordChanges is the per-entity-type section of a push request.
type RecordChanges struct {
	Created []RecordCreate     `json:"created,omitempty"`
	Updated []RecordUpdateItem `json:"updated,omitempty"`
	Deleted []string           `json:"deleted,omitempty"`
}

// PushRequest uploads a batch of client-side changes.
type PushRequest struct {
	Records *RecordChanges `json:"records,omitempty"`
	// DeviceID may also arrive via the X-Device-Id header; the header wins.
	DeviceID string `json:"deviceId,omitempty"`
}

// CreatedMapping maps a client correlation id to the server-assigned id.
type CreatedMapping struct {
	ClientID string `json:"clientId"`
	ServerID string `json:"serverId"`
	Data     Record `json:"data"`
}

// UpdatedResult reports one successfully applied update.
type UpdatedResult struct {
	ID   string `json:"id"`
	Data Record `json:"data"`
}

// RecordResults is the per-entity-type section of a push response.
type RecordResults struct {
	Created []CreatedMapping `json:"created"`
	Updated []UpdatedResult  `json:"updated"`
	Deleted []string         `json:"deleted"`
}

// PushResults groups results per entity type.
type PushResults struct {
	Records *RecordResults `json:"records,omitempty"`
}

// Conflict describes a version mismatch detected during push. It is
// response data, not an error: the push itself still succeeds. The
// descriptor is transient and never persisted.
type Conflict struct {
	EntityType    string `json:"entityType"`
	EntityID      string `json:"entityId"`
	ClientVersion int64  `json:"clientVersion"`
	ServerVersion int64  `json:"serverVersion"`
	ServerData    Record `json:"serverData"`
}

// PushResponse reports the per-item outcome of a push.
type PushResponse struct {
	Results       PushResults `json:"results"`
	Conflicts     []Conflict  `json:"conflicts"`
	SyncTimestamp time.Time   `json:"syncTimestamp"`
}

// ResolveConflictRequest settles a previously reported conflict.
// MergedData must be present when Resolution is "merge": the engine applies
// it as a full replacement and performs no field-level merging itself.
type ResolveConflictRequest struct {
	EntityID   string        `json:"entityId"`
	EntityType string        `json:"entityType"`
	Resolution string        `json:"resolution"`
	MergedData *RecordFields `json:"mergedData,omitempty"`
}

// ResolveConflictResponse returns the authoritative post-resolution state.
type ResolveConflictResponse struct {
	EntityID   string    `json:"entityId"`
	EntityType string    `json:"entityType"`
	Version    int64     `json:"version"`
	Data       Record    `json:"data"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

// BulkMigrateRequest imports a device's pre-existing offline data in one
// shot. Every item is a create; no conflict detection applies.
type BulkMigrateRequest struct {
	Records  []RecordCreate `json:"records"`
	DeviceID string         `json:"deviceId,omitempty"`
}

// MigrateError records one failed item without aborting the batch.
type MigrateError struct {
	ClientID string `json:"clientId"`
	Error    string `json:"error"`
}

// BulkMigrateResults holds the id mappings of the successful items.
type BulkMigrateResults struct {
	Records []CreatedMapping `json:"records"`
}

// BulkMigrateResponse summarizes the whole migration. TotalProcessed is
// the length of the input list regardless of per-item outcomes.
type BulkMigrateResponse struct {
	Results        BulkMigrateResults `json:"results"`
	TotalProcessed int                `json:"totalProcessed"`
	TotalErrors    int                `json:"totalErrors"`
	Errors         []MigrateError     `json:"errors,omitempty"`
	SyncTimestamp  time.Time          `json:"syncTimestamp"`
}
