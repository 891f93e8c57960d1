package utils

import "github.com/google/uuid"

// NewUUID returns a time-ordered UUIDv7 string, falling back to a random
// v4 when v7 generation fails. Time-ordered ids keep index locality for
// append-heavy tables (records, sync_logs).
func NewUUID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
