package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidToken        = errors.New("invalid session token")
	ErrTokenIsExpired      = errors.New("token is expired")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrUnauthenticated is returned by operations that need an owner when
	// no session is present.
	ErrUnauthenticated = errors.New("no authenticated owner")
	// ErrSyncInProgress is returned when a sync-class operation is already
	// running on this device.
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrSnapshotNotFound is returned by snapshot load when the remote slot
	// is empty. It is distinct from a snapshot with empty collections.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	ErrMedicationNotFound    = errors.New("medication not found")
	ErrSettingsNotFound      = errors.New("settings not found")
	ErrPhotoHashMismatch     = errors.New("photo does not match its hash")
	ErrPhotoTooLarge         = errors.New("photo is too large")
	ErrPhotoNotFound         = errors.New("photo not found")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
