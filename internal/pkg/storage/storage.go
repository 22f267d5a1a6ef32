package storage

import (
	"context"
	"io"
	"time"
)

// Storage defines the minimal interface for media storage backends.
// Intentionally simple: put an object, delete it, presign a read.
type Storage interface {
	// Put stores an object at the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes an object by key. Returns nil if it doesn't exist.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every object under a key prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// PresignGet returns a time-limited URL for reading the object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)

	// GetURL returns the canonical (unsigned) URL for an object key.
	GetURL(key string) string

	// TotalSize sums the stored size of all objects under a key prefix.
	TotalSize(ctx context.Context, prefix string) (int64, error)
}

// Config holds storage backend settings
type Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}
