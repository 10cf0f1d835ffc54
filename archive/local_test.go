package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalPutAndOpen(t *testing.T) {
	ctx := context.Background()
	store := NewLocal(t.TempDir())

	err := store.Put(ctx, "backups/users.snap", strings.NewReader("payload"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, "backups/users.snap")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

func TestLocalPutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewLocal(t.TempDir())

	require.NoError(t, store.Put(ctx, "blob", strings.NewReader("first")))
	require.NoError(t, store.Put(ctx, "blob", strings.NewReader("second")))

	rc, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
}

func TestLocalOpenMissing(t *testing.T) {
	store := NewLocal(t.TempDir())

	_, err := store.Open(context.Background(), "absent")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDelete(t *testing.T) {
	ctx := context.Background()
	store := NewLocal(t.TempDir())

	require.NoError(t, store.Put(ctx, "blob", strings.NewReader("payload")))
	require.NoError(t, store.Delete(ctx, "blob"))

	_, err := store.Open(ctx, "blob")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent blob is not an error.
	require.NoError(t, store.Delete(ctx, "blob"))
}

func TestLocalList(t *testing.T) {
	ctx := context.Background()
	store := NewLocal(t.TempDir())

	for _, name := range []string{"backups/b.snap", "backups/a.snap", "other/c.snap"} {
		require.NoError(t, store.Put(ctx, name, strings.NewReader("x")))
	}

	names, err := store.List(ctx, "backups/")
	require.NoError(t, err)
	require.Equal(t, []string{"backups/a.snap", "backups/b.snap"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"backups/a.snap", "backups/b.snap", "other/c.snap"}, all)
}

func TestLocalListMissingRoot(t *testing.T) {
	store := NewLocal(filepath.Join(t.TempDir(), "never-created"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestLocalPutIsAtomic(t *testing.T) {
	// A Put never leaves a partially written blob behind: the payload is staged
	// in a temp file and renamed into place.
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocal(root)

	require.NoError(t, store.Put(ctx, "blob", strings.NewReader("payload")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "blob", entries[0].Name())
}
