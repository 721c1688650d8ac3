package pins

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cssocial/desk/internal/localdb"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	db, err := localdb.Open(filepath.Join(t.TempDir(), "desk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestPinToggle(t *testing.T) {
	t.Run("toggle pins and unpins", func(t *testing.T) {
		s := openStore(t)

		assert.False(t, s.IsPinned("v1", "p7"))
		s.Toggle("v1", "p7")
		assert.True(t, s.IsPinned("v1", "p7"))
		assert.Equal(t, []string{"p7"}, s.ListFor("v1"))

		s.Toggle("v1", "p7")
		assert.False(t, s.IsPinned("v1", "p7"))
		assert.Empty(t, s.ListFor("v1"))
	})

	t.Run("pin sets are per viewer", func(t *testing.T) {
		s := openStore(t)

		s.Toggle("v1", "p7")

		assert.True(t, s.IsPinned("v1", "p7"))
		assert.False(t, s.IsPinned("v2", "p7"))
		assert.Empty(t, s.ListFor("v2"))
	})

	t.Run("empty ids are ignored", func(t *testing.T) {
		s := openStore(t)

		s.Toggle("", "p7")
		s.Toggle("v1", "")

		assert.Empty(t, s.ListFor("v1"))
		assert.False(t, s.IsPinned("", "p7"))
	})

	t.Run("pins survive reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "desk.db")
		db, err := localdb.Open(path)
		require.NoError(t, err)
		s := New(db)
		s.Toggle("v1", "p7")
		s.Toggle("v1", "p9")
		require.NoError(t, db.Close())

		db, err = localdb.Open(path)
		require.NoError(t, err)
		defer db.Close()

		s = New(db)
		assert.Equal(t, []string{"p7", "p9"}, s.ListFor("v1"))
	})
}

func TestPinDegradedFallback(t *testing.T) {
	// A nil store behaves like a store that failed on first touch: pins
	// keep working in memory and callers never see an error.
	s := New(nil)

	s.Toggle("v1", "p1")
	s.Toggle("v1", "p2")
	assert.True(t, s.IsPinned("v1", "p1"))
	assert.Equal(t, []string{"p1", "p2"}, s.ListFor("v1"))

	s.Toggle("v1", "p1")
	assert.False(t, s.IsPinned("v1", "p1"))
	assert.Equal(t, []string{"p2"}, s.ListFor("v1"))
}
