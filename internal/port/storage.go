package port

import (
	"context"
	"io"
	"time"
)

// UploadInput describes an object to store.
type UploadInput struct {
	Bucket      string
	Key         string
	ContentType string
	Body        io.Reader
}

// UploadOutput contains the stored object's location details.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts S3-compatible object storage used for archiving
// export artifacts.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	GetPresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
