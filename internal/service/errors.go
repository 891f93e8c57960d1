package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials covers both unknown identifier and wrong
	// password so the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked is returned while the failed-login lockout is active.
	ErrAccountLocked = errors.New("account is temporarily locked")

	ErrTokenIsExpired      = errors.New("token is expired")
	ErrTokenCreationFailed = errors.New("token creation failed")
	ErrInvalidToken        = errors.New("invalid token")

	// Validation errors of the sync engine, rejected before any mutation.
	ErrValidationUnknownEntityType = errors.New("unknown entity type")
	ErrValidationUnknownResolution = errors.New("unknown resolution strategy")
	ErrValidationMergedDataMissing = errors.New("merge resolution requires mergedData")

	// ErrClientWinsNotSupported is returned for the client_wins strategy:
	// the engine never overwrites server state based on a flag. The caller
	// must resubmit its data through push instead.
	ErrClientWinsNotSupported = errors.New("client_wins resolution is not supported, resubmit via push")

	ErrValidationUnknownRecordType  = errors.New("unknown record type")
	ErrValidationEmptyTranscription = errors.New("transcription must not be empty")
)
