package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAndEnsureDBPath_CreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "deeper", "moodlog.db")

	got, err := ResolveAndEnsureDBPath(target)
	require.NoError(t, err)
	assert.Equal(t, target, got)
	assert.DirExists(t, filepath.Dir(target))
}

func TestResolveAndEnsureDBPath_Memory(t *testing.T) {
	got, err := ResolveAndEnsureDBPath(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", got)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := ExpandHome("~/data/moodlog.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "moodlog.db"), got)

	got, err = ExpandHome("/abs/path.db")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path.db", got)
}

func TestGetDefaultDBPathOnly(t *testing.T) {
	assert.Equal(t, "moodlog.db", filepath.Base(GetDefaultDBPathOnly()))
}
