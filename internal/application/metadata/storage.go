package metadata

import (
	"context"
	"time"
)

// ObjectStorageService abstracts the object store holding schema
// definition files. Implementations live in infrastructure/storage.
type ObjectStorageService interface {
	// Upload stores a schema definition file under the given key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// Download retrieves the raw contents of a stored definition file
	Download(ctx context.Context, storageKey string) ([]byte, error)

	// GenerateDownloadURL creates a presigned URL for fetching a definition file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes a stored definition file
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists reports whether a definition file is present
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
