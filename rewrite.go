package flatcol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// roundUp returns the smallest multiple of the growth increment that
// accommodates n bytes.
func (c *Collection[T]) roundUp(n int) int {
	return ((n + c.increment - 1) / c.increment) * c.increment
}

// slotOffset returns the byte offset of slot idx at the current width.
func (c *Collection[T]) slotOffset(idx int) int64 {
	return int64(idx) * int64(c.width+1)
}

// writeSlot pads line to the current width and writes it in place at slot idx.
func (c *Collection[T]) writeSlot(idx int, line string) error {
	padded := fmt.Sprintf("%-*s\n", c.width, line)
	if _, err := c.file.WriteAt([]byte(padded), c.slotOffset(idx)); err != nil {
		return storageErr("write slot", err)
	}
	if c.syncWrites {
		if err := c.file.Sync(); err != nil {
			return storageErr("sync "+c.path, err)
		}
	}
	return nil
}

// readSlot reads exactly one slot at idx and decodes it. A short read or
// decode failure reports absent; the index should guarantee validity absent
// external corruption.
func (c *Collection[T]) readSlot(idx int) (T, bool) {
	var zero T

	buf := make([]byte, c.width+1)
	n, err := c.file.ReadAt(buf, c.slotOffset(idx))
	if err != nil && !(errors.Is(err, io.EOF) && n > 0) {
		return zero, false
	}

	line := strings.TrimSpace(string(buf[:n]))

	var doc T
	if err := c.codec.Unmarshal([]byte(line), &doc); err != nil {
		return zero, false
	}
	return doc, true
}

// collectLines reads the store's current logical documents as trimmed encoded
// lines, in slot order. It is the read half of every rewrite protocol.
func (c *Collection[T]) collectLines() ([]string, error) {
	if _, err := c.file.Seek(0, io.SeekStart); err != nil {
		return nil, storageErr("seek "+c.path, err)
	}

	scanner := bufio.NewScanner(c.file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lines := make([]string, 0, c.count)
	for len(lines) < c.count && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " "))
	}
	if len(lines) != c.count {
		return nil, storageErr("collect", fmt.Errorf("file %s holds %d lines, index expects %d", c.path, len(lines), c.count))
	}

	return lines, nil
}

// replaceFile writes lines, each padded to width, into a temporary file and
// atomically renames it over the live file, then reopens the handle on the
// new inode. A failure at any step leaves the previous file contents intact.
//
// Slot positions are preserved: line i lands at byte i*(width+1).
func (c *Collection[T]) replaceFile(lines []string, width int) error {
	var buf bytes.Buffer
	buf.Grow(len(lines) * (width + 1))
	for _, line := range lines {
		fmt.Fprintf(&buf, "%-*s\n", width, line)
	}

	// atomic.WriteFile stages in a same-directory temp file, fsyncs, and
	// renames over the destination.
	if err := atomic.WriteFile(c.path, &buf); err != nil {
		return storageErr("replace "+c.path, err)
	}

	f, err := os.OpenFile(c.path, os.O_RDWR, 0o600) //nolint:gosec // G304: Path is configurable
	if err != nil {
		// The rewrite landed but the store handle is gone; surface the I/O
		// error and leave the collection unusable rather than half-attached
		// to the unlinked inode.
		_ = c.file.Close()
		c.closed = true
		return storageErr("reopen "+c.path, err)
	}

	_ = c.file.Close()
	c.file = f

	return nil
}

// growAndReplace runs the resize protocol: every line is re-padded to
// newWidth at its existing slot position, in one atomic file replacement.
// The key -> slot index needs no change afterwards.
func (c *Collection[T]) growAndReplace(lines []string, newWidth int) error {
	start := time.Now()

	if err := c.replaceFile(lines, newWidth); err != nil {
		c.logger.LogRewrite("resize", len(lines), err)
		return err
	}

	c.logger.LogResize(c.width, newWidth)
	c.logger.LogRewrite("resize", len(lines), nil)
	c.metrics.RecordResize(newWidth, time.Since(start))
	c.width = newWidth

	return nil
}
