package flatcol

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/flatcol/flatcol/codec"
)

// maxLineBytes caps a single slot line during scans. Slot width is unbounded
// in principle; this only guards against pathological files.
const maxLineBytes = 16 << 20

// Collection manages a set of documents persisted to one flat file beyond the
// life of the process.
//
// A Collection is not safe for concurrent use; see Shared.
type Collection[T Document[T]] struct {
	file      *os.File
	path      string
	index     map[string]int    // document key -> slot position
	unique    map[string]string // unique key -> document key; nil unless T implements UniqueKeyer
	width     int               // current slot width, grows in increments, never shrinks in-session
	increment int
	count     int

	codec      codec.Codec
	logger     *Logger
	metrics    MetricsCollector
	syncWrites bool
	closed     bool
}

// Open opens the collection file at path, creating it if absent, and rebuilds
// the in-memory index by scanning the file once.
//
// The scan decodes line by line and stops at the first line that fails to
// decode; everything after that point is invisible (trailing garbage and
// truncated files read as "no more documents", not as errors). The slot width
// is recomputed from the widest surviving document, rounded up to the growth
// increment. Because width is not persisted, reopening a store whose width was
// grown by a since-deleted document can compute a width narrower than the
// file's physical padding; point lookups then miss until the next structural
// rewrite. See the package documentation.
func Open[T Document[T]](path string, optFns ...Option) (*Collection[T], error) {
	o := applyOptions(optFns)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return nil, storageErr("open "+path, err)
	}

	width := DefaultWidth
	if o.increment > width {
		width = o.increment
	}

	c := &Collection[T]{
		file:       f,
		path:       path,
		index:      make(map[string]int),
		width:      width,
		increment:  o.increment,
		codec:      o.codec,
		logger:     o.logger,
		metrics:    o.metrics,
		syncWrites: o.syncWrites,
	}

	var zero T
	if _, ok := any(zero).(UniqueKeyer); ok {
		c.unique = make(map[string]string)
	}

	if err := c.load(); err != nil {
		_ = f.Close()
		return nil, err
	}

	c.logger.LogOpen(path, c.count, c.width)

	return c, nil
}

// load populates the index from the file. It does not rewrite anything.
func (c *Collection[T]) load() error {
	if _, err := c.file.Seek(0, io.SeekStart); err != nil {
		return storageErr("seek "+c.path, err)
	}

	scanner := bufio.NewScanner(c.file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	widest := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var doc T
		if err := c.codec.Unmarshal([]byte(line), &doc); err != nil {
			// End-of-data sentinel: the first undecodable line truncates the
			// visible document set. A corrupt middle line silently hides
			// everything after it; this is an accepted limitation.
			break
		}

		c.index[doc.Key()] = c.count
		if c.unique != nil {
			c.unique[any(doc).(UniqueKeyer).UniqueKey()] = doc.Key()
		}
		if len(line) > widest {
			widest = len(line)
		}
		c.count++
	}
	// Read errors end the scan the same way undecodable lines do.

	if widest > c.width {
		c.width = c.roundUp(widest)
	}

	return nil
}

// scan walks decodable lines from slot 0 in order, invoking fn for each
// decoded document. It stops at the first undecodable line (the end-of-data
// sentinel) or when fn returns false. Returns the number of documents decoded.
//
// Scans read current file state, not the index.
func (c *Collection[T]) scan(fn func(T) bool) int {
	if c.closed {
		return 0
	}

	if _, err := c.file.Seek(0, io.SeekStart); err != nil {
		return 0
	}

	scanner := bufio.NewScanner(c.file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	n := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var doc T
		if err := c.codec.Unmarshal([]byte(line), &doc); err != nil {
			break
		}

		n++
		if !fn(doc) {
			break
		}
	}

	return n
}

// Count returns the number of documents currently stored.
func (c *Collection[T]) Count() int {
	return c.count
}

// Keys returns the keys of all indexed documents in lexicographic order.
func (c *Collection[T]) Keys() []string {
	keys := make([]string, 0, len(c.index))
	for k := range c.index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the collection's file path.
func (c *Collection[T]) Path() string {
	return c.path
}

// Width returns the current slot width in bytes, excluding the newline.
func (c *Collection[T]) Width() int {
	return c.width
}

// Sync flushes the store file to stable storage.
func (c *Collection[T]) Sync() error {
	if c.closed {
		return ErrClosed
	}
	if err := c.file.Sync(); err != nil {
		return storageErr("sync "+c.path, err)
	}
	return nil
}

// Close releases the file handle. Further operations return ErrClosed
// (lookups and scans report absent/empty). Close is idempotent.
func (c *Collection[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.file.Close(); err != nil {
		return storageErr("close "+c.path, err)
	}
	return nil
}
