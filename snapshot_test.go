package flatcol

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flatcol/flatcol/archive"
	"github.com/flatcol/flatcol/codec"
)

func TestSnapshotRoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(string(compression), func(t *testing.T) {
			ctx := context.Background()
			store := archive.NewMemory()

			col := openTestCollection(t)

			users := []testUser{newUser("alice"), newUser("bob")}
			for _, u := range users {
				require.NoError(t, col.Insert(u))
			}

			require.NoError(t, col.Snapshot(ctx, store, "backups/users.snap", compression))

			names, err := store.List(ctx, "backups/")
			require.NoError(t, err)
			require.Equal(t, []string{"backups/users.snap"}, names)

			restoredPath := filepath.Join(t.TempDir(), "restored.col")
			codecName, err := RestoreSnapshot(ctx, store, "backups/users.snap", restoredPath)
			require.NoError(t, err)

			restoredCodec, ok := codec.ByName(codecName)
			require.True(t, ok)

			restored, err := Open[testUser](restoredPath, WithCodec(restoredCodec))
			require.NoError(t, err)
			defer restored.Close()

			require.Equal(t, 2, restored.Count())
			for _, u := range users {
				got, ok := restored.ByKey(u.Key())
				require.True(t, ok)
				require.Equal(t, u, got)
			}
		})
	}
}

func TestSnapshotCompressionShrinksPaddedFile(t *testing.T) {
	ctx := context.Background()
	store := archive.NewMemory()

	col := openTestCollection(t)
	// Force a wide store so the padding dominates the file.
	require.NoError(t, col.Insert(newUser(strings.Repeat("p", 120))))
	for i := 0; i < 20; i++ {
		require.NoError(t, col.Insert(newUser(strings.Repeat("q", i+1))))
	}

	require.NoError(t, col.Snapshot(ctx, store, "raw", CompressionNone))
	require.NoError(t, col.Snapshot(ctx, store, "zstd", CompressionZstd))
	require.NoError(t, col.Snapshot(ctx, store, "lz4", CompressionLZ4))

	size := func(name string) int {
		rc, err := store.Open(ctx, name)
		require.NoError(t, err)
		defer rc.Close()
		var n int
		buf := make([]byte, 4096)
		for {
			m, err := rc.Read(buf)
			n += m
			if err != nil {
				break
			}
		}
		return n
	}

	raw := size("raw")
	require.Less(t, size("zstd"), raw)
	require.Less(t, size("lz4"), raw)
}

func TestSnapshotClosedCollection(t *testing.T) {
	col := openTestCollection(t)
	require.NoError(t, col.Close())

	err := col.Snapshot(context.Background(), archive.NewMemory(), "x", CompressionNone)
	require.ErrorIs(t, err, ErrClosed)
}

func TestRestoreSnapshotMissingBlob(t *testing.T) {
	_, err := RestoreSnapshot(context.Background(), archive.NewMemory(), "absent", filepath.Join(t.TempDir(), "out.col"))
	require.ErrorIs(t, err, archive.ErrNotFound)
}

func TestRestoreSnapshotBadMagic(t *testing.T) {
	ctx := context.Background()
	store := archive.NewMemory()
	require.NoError(t, store.Put(ctx, "bogus", strings.NewReader("not a snapshot\nbody")))

	_, err := RestoreSnapshot(ctx, store, "bogus", filepath.Join(t.TempDir(), "out.col"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad magic")
}
