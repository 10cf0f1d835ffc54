// Package codec centralizes document encoding for the store's line format.
//
// Flatcol intentionally treats codec selection as a breaking-change boundary:
// if you change codecs, files written by older codecs may no longer decode.
// Snapshots are self-describing (they record the codec name in their header)
// so a snapshot can be validated against the codec used to open it.
package codec

import "fmt"

// Codec encodes/decodes documents.
//
// Marshal must produce a single line of text: the store is newline-delimited,
// so encoded output containing a raw '\n' is rejected by the collection as an
// encoding error. Both built-in JSON codecs satisfy this (JSON escapes control
// characters inside strings).
//
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// This is used by the snapshot format, which stores the codec name in its
// header.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
