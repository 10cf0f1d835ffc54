package flatcol

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/natefinch/atomic"
	"github.com/pierrec/lz4/v4"

	"github.com/flatcol/flatcol/archive"
)

// snapshotMagic identifies a flatcol snapshot blob, version 1.
const snapshotMagic = "flatcol1"

// Compression selects how a snapshot's body is compressed.
type Compression string

const (
	// CompressionNone stores the file verbatim.
	CompressionNone Compression = "none"
	// CompressionZstd compresses with zstd; the best ratio for JSON lines.
	CompressionZstd Compression = "zstd"
	// CompressionLZ4 compresses with lz4; faster, weaker ratio.
	CompressionLZ4 Compression = "lz4"
)

// Snapshot streams a copy of the store file into an archive blob.
//
// The blob is self-describing: a one-line text header records the snapshot
// version, the codec the collection was opened with, and the compression of
// the body that follows. Snapshots are backup tooling, not a journal; they
// capture the file as it is at call time, under the same single-caller
// contract as every other operation.
func (c *Collection[T]) Snapshot(ctx context.Context, store archive.Store, name string, compression Compression) error {
	if c.closed {
		return ErrClosed
	}
	if compression == "" {
		compression = CompressionNone
	}

	src, err := os.Open(c.path)
	if err != nil {
		return storageErr("open "+c.path, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s codec=%s compression=%s\n", snapshotMagic, c.codec.Name(), compression)

	switch compression {
	case CompressionNone:
		if _, err := io.Copy(&buf, src); err != nil {
			return storageErr("read "+c.path, err)
		}
	case CompressionZstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		if _, err := io.Copy(zw, src); err != nil {
			_ = zw.Close()
			return storageErr("read "+c.path, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to finish zstd stream: %w", err)
		}
	case CompressionLZ4:
		lw := lz4.NewWriter(&buf)
		if _, err := io.Copy(lw, src); err != nil {
			_ = lw.Close()
			return storageErr("read "+c.path, err)
		}
		if err := lw.Close(); err != nil {
			return fmt.Errorf("failed to finish lz4 stream: %w", err)
		}
	default:
		return fmt.Errorf("unsupported snapshot compression %q", compression)
	}

	if err := store.Put(ctx, name, &buf); err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", name, err)
	}

	c.logger.Info("snapshot saved",
		"name", name,
		"compression", string(compression),
	)

	return nil
}

// RestoreSnapshot fetches a snapshot blob and writes the contained store file
// to path via an atomic replace. It returns the codec name recorded in the
// snapshot header so the caller can open the restored file with a compatible
// codec (see codec.ByName for the built-ins).
//
// The destination must not be open in a live Collection.
func RestoreSnapshot(ctx context.Context, store archive.Store, name, path string) (string, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to fetch snapshot %s: %w", name, err)
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	header, err := br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot header: %w", err)
	}

	codecName, compression, err := parseSnapshotHeader(header)
	if err != nil {
		return "", err
	}

	var body io.Reader
	switch compression {
	case CompressionNone:
		body = br
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return "", fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		body = zr
	case CompressionLZ4:
		body = lz4.NewReader(br)
	default:
		return "", fmt.Errorf("snapshot %s uses unsupported compression %q", name, compression)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("failed to decompress snapshot %s: %w", name, err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return "", storageErr("replace "+path, err)
	}

	return codecName, nil
}

func parseSnapshotHeader(header string) (codecName string, compression Compression, err error) {
	fields := strings.Fields(strings.TrimSpace(header))
	if len(fields) == 0 || fields[0] != snapshotMagic {
		return "", "", fmt.Errorf("not a flatcol snapshot: bad magic %q", strings.TrimSpace(header))
	}

	compression = CompressionNone
	for _, f := range fields[1:] {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			return "", "", fmt.Errorf("malformed snapshot header field %q", f)
		}
		switch k {
		case "codec":
			codecName = v
		case "compression":
			compression = Compression(v)
		}
	}
	if codecName == "" {
		return "", "", fmt.Errorf("snapshot header missing codec name")
	}

	return codecName, compression, nil
}
