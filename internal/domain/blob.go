package domain

import (
	"context"
	"io"
	"time"
)

// BlobWriter uploads objects to cold storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// ReportArchiver persists one cycle's report document to cold storage.
type ReportArchiver interface {
	Archive(ctx context.Context, document []byte, at time.Time) error
}
