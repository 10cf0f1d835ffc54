// Package archive abstracts where collection snapshots are kept.
//
// A Store holds whole snapshot blobs addressed by name; implementations exist
// for the local filesystem, process memory (testing), Amazon S3, and MinIO /
// S3-compatible object storage. Unlike the store file itself, archived
// snapshots are immutable: Put replaces a blob wholesale, and readers stream
// it front to back.
package archive

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a named blob does not exist.
//
// Implementations must return an error that satisfies
// errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("archive: blob not found")

// Store is a destination for snapshot blobs.
type Store interface {
	// Put writes the named blob from r, replacing any previous blob of the
	// same name. The write is atomic: readers never observe a partial blob.
	Put(ctx context.Context, name string, r io.Reader) error

	// Open opens the named blob for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the named blob. Deleting an absent blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
