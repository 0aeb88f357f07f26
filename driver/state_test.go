package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "novakit.state.yml")}

	// A missing file is an empty state, not an error.
	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &State{}, state)

	state.ServerID = "srv-1"
	state.Hostname = "203.0.113.5"
	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	loaded.ServerID = ""
	loaded.Hostname = ""
	require.NoError(t, store.Save(loaded))

	cleared, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &State{}, cleared)
}

func TestFileStoreBadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novakit.state.yml")
	require.NoError(t, os.WriteFile(path, []byte("{{nope"), 0600))

	store := &FileStore{Path: path}
	_, err := store.Load()
	require.Error(t, err)
}
