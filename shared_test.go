package flatcol

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedConcurrentReadersAndWriters(t *testing.T) {
	shared, err := OpenShared[testUser](filepath.Join(t.TempDir(), "users.col"))
	require.NoError(t, err)
	defer shared.Close()

	const (
		writers          = 4
		insertsPerWriter = 25
	)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < insertsPerWriter; i++ {
				err := shared.Update(func(col *Collection[testUser]) error {
					return col.Insert(newUser(fmt.Sprintf("w%d-user-%d", w, i)))
				})
				if err != nil {
					t.Errorf("insert: %v", err)
				}
			}
		}(w)
	}

	// Readers run alongside the writers; every observation must be internally
	// consistent (index size matches count).
	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = shared.View(func(col *Collection[testUser]) error {
					if got := len(col.Keys()); got != col.Count() {
						t.Errorf("keys/count mismatch: %d != %d", got, col.Count())
					}
					return nil
				})
			}
		}()
	}

	wg.Wait()

	err = shared.View(func(col *Collection[testUser]) error {
		require.Equal(t, writers*insertsPerWriter, col.Count())
		return nil
	})
	require.NoError(t, err)
}

func TestSharedPropagatesErrors(t *testing.T) {
	shared, err := OpenShared[testUser](filepath.Join(t.TempDir(), "users.col"))
	require.NoError(t, err)
	defer shared.Close()

	bob := newUser("bob")
	require.NoError(t, shared.Update(func(col *Collection[testUser]) error {
		return col.Insert(bob)
	}))

	err = shared.Update(func(col *Collection[testUser]) error {
		return col.Insert(bob)
	})
	require.ErrorIs(t, err, ErrDuplicateKey)

	viewErr := errors.New("view failed")
	err = shared.View(func(*Collection[testUser]) error { return viewErr })
	require.ErrorIs(t, err, viewErr)
}
