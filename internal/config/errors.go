package config

import "errors"

// Validation errors returned when a required configuration group is
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates a missing remote store address or a
	// non-positive request timeout.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates an empty DSN, or an in-memory DSN for
	// the client local store.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidPhotoStoreConfigs indicates neither an S3 bucket nor a photo
	// directory was configured on the server.
	ErrInvalidPhotoStoreConfigs = errors.New("invalid photo store configuration")
	// ErrInvalidAppConfigs indicates a missing token sign key.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidServerConfigs indicates a missing listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidWorkerConfigs indicates a non-positive sync interval.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidSyncConfigs indicates a negative echo grace delay or an empty
	// snapshot slot key.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
