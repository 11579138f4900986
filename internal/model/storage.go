package model

import (
	"context"
	"io"
	"time"
)

// BlobStore defines object storage operations for payment proof images.
// Keys are opaque storage references; URLs are minted on demand and expire.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// PresignedUploadURL returns a one-time-use upload target for direct
	// client PUTs.
	PresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	// ResolveURL exchanges a storage key for a time-limited download URL.
	ResolveURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
