package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

func TestCodecRoundTrip(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			in := sample{ID: "a1", Name: "bob", Note: "line one\nline two"}

			data, err := c.Marshal(in)
			require.NoError(t, err)

			// The store is newline-delimited; encoded output must be a single line.
			require.NotContains(t, string(data), "\n")

			var out sample
			require.NoError(t, c.Unmarshal(data, &out))
			require.Equal(t, in, out)
		})
	}
}

func TestCodecsAreWireCompatible(t *testing.T) {
	in := sample{ID: "a2", Name: "trevor"}

	stdlib, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	fast, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)

	require.True(t, bytes.Equal(stdlib, fast))

	var out sample
	require.NoError(t, JSON{}.Unmarshal(fast, &out))
	require.Equal(t, in, out)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	require.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	require.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	require.False(t, ok)
}
