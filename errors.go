package flatcol

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned by Insert when a document with the same key
	// is already stored.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrKeyNotFound is returned by Update and Delete when no document with
	// the given key is stored.
	ErrKeyNotFound = errors.New("key not found")

	// ErrEncoding is returned when a document cannot be serialized to a store
	// line, including the case where the codec emits a raw newline.
	ErrEncoding = errors.New("encoding failed")

	// ErrStorage is returned when an open/read/write/seek/rename fails during
	// normal operation or during a rewrite protocol.
	ErrStorage = errors.New("storage i/o failed")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("collection is closed")

	// ErrUniqueKeyTaken is the cause recorded in a ConstraintError when a
	// document type's declared unique key (see UniqueKeyer) is already held
	// by another document.
	ErrUniqueKeyTaken = errors.New("unique key already in use")
)

// ConstraintError indicates that inserting or updating a document would
// violate a cross-document uniqueness constraint.
//
// The constraint's own reason (returned by CheckAgainst, or
// ErrUniqueKeyTaken for declared unique keys) can be accessed via
// errors.Unwrap.
type ConstraintError struct {
	// Candidate is the key of the rejected document.
	Candidate string
	// Existing is the key of the stored document that rejected it.
	Existing string

	cause error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation: document %s clashes with stored document %s: %v", e.Candidate, e.Existing, e.cause)
}

func (e *ConstraintError) Unwrap() error { return e.cause }

// storageErr wraps a low-level I/O error into the ErrStorage taxonomy.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
