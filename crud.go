package flatcol

import (
	"bytes"
	"fmt"
	"time"
)

// Insert stores a new document.
//
// It fails with ErrDuplicateKey if a document with the same key exists, with
// a ConstraintError if any stored document rejects the candidate, with
// ErrEncoding if the document cannot be serialized to a single line, and with
// ErrStorage on I/O failure. Width growth and the slot write are one effective
// unit: if anything fails, the file keeps its previous width and contents.
func (c *Collection[T]) Insert(doc T) error {
	start := time.Now()
	err := c.insert(doc)
	c.metrics.RecordInsert(time.Since(start), err)
	return err
}

func (c *Collection[T]) insert(doc T) error {
	if c.closed {
		return ErrClosed
	}

	key := doc.Key()
	if _, ok := c.index[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}

	if err := c.checkConstraints(doc, ""); err != nil {
		return err
	}

	line, err := c.encode(doc)
	if err != nil {
		return err
	}

	if len(line) > c.width {
		// Grow the width and place the new document in the same rewrite, so a
		// failed write can never leave a resized file without the document.
		lines, err := c.collectLines()
		if err != nil {
			return err
		}
		if err := c.growAndReplace(append(lines, line), c.roundUp(len(line))); err != nil {
			return err
		}
	} else if err := c.writeSlot(c.count, line); err != nil {
		return err
	}

	c.index[key] = c.count
	c.count++
	if c.unique != nil {
		c.unique[any(doc).(UniqueKeyer).UniqueKey()] = key
	}

	return nil
}

// Update overwrites the stored document that shares the candidate's key.
//
// The key's slot position is unchanged; only slot content changes. Errors
// mirror Insert, except a missing key fails with ErrKeyNotFound and the
// stored document with the candidate's own key is excluded from constraint
// checking (a document does not clash with its own current value).
func (c *Collection[T]) Update(doc T) error {
	start := time.Now()
	err := c.update(doc)
	c.metrics.RecordUpdate(time.Since(start), err)
	return err
}

func (c *Collection[T]) update(doc T) error {
	if c.closed {
		return ErrClosed
	}

	key := doc.Key()
	idx, ok := c.index[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	if err := c.checkConstraints(doc, key); err != nil {
		return err
	}

	line, err := c.encode(doc)
	if err != nil {
		return err
	}

	// Capture the old value before overwriting so the secondary uniqueness
	// index can drop its previous entry.
	var oldUnique string
	if c.unique != nil {
		if old, ok := c.readSlot(idx); ok {
			oldUnique = any(old).(UniqueKeyer).UniqueKey()
		}
	}

	if len(line) > c.width {
		lines, err := c.collectLines()
		if err != nil {
			return err
		}
		lines[idx] = line
		if err := c.growAndReplace(lines, c.roundUp(len(line))); err != nil {
			return err
		}
	} else if err := c.writeSlot(idx, line); err != nil {
		return err
	}

	if c.unique != nil {
		if oldUnique != "" {
			delete(c.unique, oldUnique)
		}
		c.unique[any(doc).(UniqueKeyer).UniqueKey()] = key
	}

	return nil
}

// Delete removes the document with the given key and compacts the file.
//
// Slot positions stay dense: every document stored after the deleted slot
// shifts down by one. The file is rebuilt via the atomic rewrite protocol, so
// the cost is O(n) per delete; the format favors O(1) point reads over O(1)
// deletes. Fails with ErrKeyNotFound if the key is absent and ErrStorage on
// I/O failure (the live file is untouched in that case).
func (c *Collection[T]) Delete(key string) error {
	start := time.Now()
	err := c.deleteKey(key)
	c.metrics.RecordDelete(time.Since(start), err)
	return err
}

func (c *Collection[T]) deleteKey(key string) error {
	if c.closed {
		return ErrClosed
	}

	idx, ok := c.index[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	var oldUnique string
	if c.unique != nil {
		if old, ok := c.readSlot(idx); ok {
			oldUnique = any(old).(UniqueKeyer).UniqueKey()
		}
	}

	lines, err := c.collectLines()
	if err != nil {
		return err
	}

	c.logger.Debug("deleting document", "key", key, "slot", idx)

	lines = append(lines[:idx], lines[idx+1:]...)
	if err := c.replaceFile(lines, c.width); err != nil {
		c.logger.LogRewrite("delete", len(lines), err)
		return err
	}
	c.logger.LogRewrite("delete", len(lines), nil)

	// The file rewrite succeeded; now close the gap in the index.
	delete(c.index, key)
	for k, v := range c.index {
		if v > idx {
			c.index[k] = v - 1
		}
	}
	c.count--
	if c.unique != nil && oldUnique != "" {
		delete(c.unique, oldUnique)
	}

	return nil
}

// ByKey returns the document with the given key, or absent if it is not
// indexed. The lookup is a single seek and read at the key's slot offset; a
// decode failure there reports absent rather than erroring.
func (c *Collection[T]) ByKey(key string) (T, bool) {
	var zero T
	if c.closed {
		return zero, false
	}

	start := time.Now()

	idx, ok := c.index[key]
	if !ok {
		c.metrics.RecordLookup(time.Since(start), false)
		return zero, false
	}

	doc, ok := c.readSlot(idx)
	c.metrics.RecordLookup(time.Since(start), ok)
	return doc, ok
}

// Find returns the first stored document satisfying pred, scanning from slot
// 0 and short-circuiting on the first match.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	start := time.Now()

	var (
		found bool
		match T
	)
	scanned := c.scan(func(doc T) bool {
		if pred(doc) {
			match = doc
			found = true
			return false
		}
		return true
	})

	c.metrics.RecordScan(scanned, time.Since(start))
	return match, found
}

// Filter returns all stored documents satisfying pred, in slot order.
func (c *Collection[T]) Filter(pred func(T) bool) []T {
	start := time.Now()

	docs := make([]T, 0)
	scanned := c.scan(func(doc T) bool {
		if pred(doc) {
			docs = append(docs, doc)
		}
		return true
	})

	c.metrics.RecordScan(scanned, time.Since(start))
	return docs
}

// checkConstraints rejects candidate if storing it would violate a
// cross-document uniqueness constraint. selfKey, when non-empty, names the
// stored document to exclude from comparison (the candidate's own key during
// an update).
//
// Document types that declare a structured unique key are checked against the
// secondary index in O(1); all others get the general linear scan through
// CheckAgainst.
func (c *Collection[T]) checkConstraints(candidate T, selfKey string) error {
	if c.unique != nil {
		uk := any(candidate).(UniqueKeyer).UniqueKey()
		if owner, ok := c.unique[uk]; ok && owner != selfKey {
			return &ConstraintError{Candidate: candidate.Key(), Existing: owner, cause: ErrUniqueKeyTaken}
		}
		return nil
	}

	var violation error
	c.scan(func(existing T) bool {
		if selfKey != "" && existing.Key() == selfKey {
			return true
		}
		if err := existing.CheckAgainst(candidate); err != nil {
			violation = &ConstraintError{Candidate: candidate.Key(), Existing: existing.Key(), cause: err}
			return false
		}
		return true
	})
	return violation
}

// encode serializes doc to one store line.
func (c *Collection[T]) encode(doc T) (string, error) {
	b, err := c.codec.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if bytes.ContainsRune(b, '\n') {
		return "", fmt.Errorf("%w: codec %s produced an embedded newline", ErrEncoding, c.codec.Name())
	}
	return string(b), nil
}
