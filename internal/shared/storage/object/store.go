// Package object abstracts where uploaded documents and their derived
// artifacts live. Implementations exist for the local filesystem and S3.
package object

import (
	"context"
	"io"
)

// ObjectStore saves and retrieves binary objects. Save owns key
// generation; implementations also expose SaveWithKey for artifacts that
// must land at a caller-chosen key.
type ObjectStore interface {
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
