package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotConfigured is returned by callers when no object store is wired in.
var ErrNotConfigured = errors.New("object storage not configured")

// Service stores product media in remote object storage.
type Service interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}
