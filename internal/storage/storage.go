package storage

import (
	"context"
	"errors"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrObjectNotFound = errors.New("object not found in storage")

// ObjectMetadata is what the store reports about an uploaded object.
type ObjectMetadata struct {
	Size         int64
	ContentType  string
	LastModified time.Time
}

// FileStorage defines the interface for object storage operations.
// Profile pictures are uploaded by the client straight to the store through
// a presigned URL; the server only signs URLs and checks the result.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT of
	// objectKey with the given content type.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL for viewing an object.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// StatObject returns ErrObjectNotFound if nothing was uploaded under objectKey.
	StatObject(ctx context.Context, objectKey string) (*ObjectMetadata, error)

	DeleteObject(ctx context.Context, objectKey string) error
}
