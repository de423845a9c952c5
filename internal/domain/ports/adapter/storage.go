package adapter

import (
	"context"
	"time"
)

// UploadResult describes where an artifact ended up.
type UploadResult struct {
	PublicURL string
	BlobName  string
	SizeBytes int64
}

// ObjectStorage is the port for durable artifact storage.
type ObjectStorage interface {
	// Upload stores the local file under name and returns its references.
	Upload(ctx context.Context, localPath, name string) (UploadResult, error)

	// SignedURL returns a temporary download URL for a previously uploaded blob.
	SignedURL(ctx context.Context, blobName string, ttl time.Duration) (string, error)

	// Delete removes a blob. Best effort; callers may ignore the error.
	Delete(ctx context.Context, blobName string) error
}
