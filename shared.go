package flatcol

import (
	"sync"
)

// Shared wraps a Collection in a read-write lock so multiple goroutines can
// use it. The Collection itself performs no locking; exclusivity is this
// wrapper's whole job, and holding the wrapper is the only supported way to
// reach the collection from more than one caller.
type Shared[T Document[T]] struct {
	mu  sync.RWMutex
	col *Collection[T]
}

// OpenShared opens a collection (see Open) and returns it behind a Shared
// handle.
func OpenShared[T Document[T]](path string, optFns ...Option) (*Shared[T], error) {
	col, err := Open[T](path, optFns...)
	if err != nil {
		return nil, err
	}
	return NewShared(col), nil
}

// NewShared wraps an already-open collection. The caller must not use the
// bare collection afterwards.
func NewShared[T Document[T]](col *Collection[T]) *Shared[T] {
	return &Shared[T]{col: col}
}

// View runs fn with shared (read-only) access to the collection. fn must not
// call mutating operations.
func (s *Shared[T]) View(fn func(*Collection[T]) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.col)
}

// Update runs fn with exclusive access to the collection.
func (s *Shared[T]) Update(fn func(*Collection[T]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.col)
}

// Close closes the underlying collection under the exclusive lock.
func (s *Shared[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.Close()
}
