package tokens

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.yaml")
	return NewStoreAt(path), path
}

func TestStoreRoundtrip(t *testing.T) {
	store, _ := newTempStore(t)

	assert.Empty(t, store.Get("mast.stsci.edu"))

	require.NoError(t, store.Put("mast.stsci.edu", "abc123"))
	assert.Equal(t, "abc123", store.Get("mast.stsci.edu"))

	// Replacing a token for the same host
	require.NoError(t, store.Put("mast.stsci.edu", "def456"))
	assert.Equal(t, "def456", store.Get("mast.stsci.edu"))

	// Hosts are independent
	require.NoError(t, store.Put("masttest.stsci.edu", "test-token"))
	assert.Equal(t, "def456", store.Get("mast.stsci.edu"))
	assert.Equal(t, "test-token", store.Get("masttest.stsci.edu"))
}

func TestStoreSurvivesReopen(t *testing.T) {
	store, path := newTempStore(t)
	require.NoError(t, store.Put("mast.stsci.edu", "abc123"))

	reopened := NewStoreAt(path)
	assert.Equal(t, "abc123", reopened.Get("mast.stsci.edu"))
}

func TestStoreRemove(t *testing.T) {
	store, _ := newTempStore(t)
	require.NoError(t, store.Put("mast.stsci.edu", "abc123"))

	require.NoError(t, store.Remove("mast.stsci.edu"))
	assert.Empty(t, store.Get("mast.stsci.edu"))

	// Removing again is not an error
	require.NoError(t, store.Remove("mast.stsci.edu"))
}

func TestStoreFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	store, path := newTempStore(t)
	require.NoError(t, store.Put("mast.stsci.edu", "abc123"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStoreReinitializesCorruptFile(t *testing.T) {
	store, path := newTempStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{{not yaml"), 0600))

	assert.Empty(t, store.Get("mast.stsci.edu"))

	require.NoError(t, store.Put("mast.stsci.edu", "abc123"))
	assert.Equal(t, "abc123", store.Get("mast.stsci.edu"))
}
