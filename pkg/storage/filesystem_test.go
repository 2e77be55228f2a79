package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path, err := store.Save("department-timetable.csv", []byte("Day,Time\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "department-timetable.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Day,Time\n", string(data))
}

func TestLocalStorageSaveNested(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("2026/week-36.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	tests := []string{
		"../escape.csv",
		"..",
		".",
		"/etc/passwd",
		"a/../../escape.csv",
	}
	for _, filename := range tests {
		_, err := store.Save(filename, []byte("x"))
		assert.Error(t, err, filename)
	}
}
