package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveDigestDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := store.SaveStream("a_1.pdf", bytes.NewReader([]byte("hello")))
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(path))
	require.True(t, store.Exists("a_1.pdf"))
	require.True(t, store.Exists(path))

	digest, err := store.Digest(path)
	require.NoError(t, err)
	// sha256("hello")
	require.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", digest)

	require.NoError(t, store.Delete("a_1.pdf"))
	require.False(t, store.Exists("a_1.pdf"))
	require.NoError(t, store.Delete("a_1.pdf"))
}

func TestLocalStorageRejectsExistingAndEscapingNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveStream("dup.txt", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	_, err = store.SaveStream("dup.txt", bytes.NewReader([]byte("y")))
	require.Error(t, err)

	_, err = store.SaveStream("../evil.txt", bytes.NewReader([]byte("x")))
	require.ErrorIs(t, err, ErrInvalidName)
	_, err = store.Open("/etc/passwd")
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestLocalStorageListOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.SaveStream("old.bin", bytes.NewReader([]byte("o")))
	require.NoError(t, err)
	_, err = store.SaveStream("new.bin", bytes.NewReader([]byte("n")))
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.bin"), past, past))

	names, err := store.ListOlderThan(time.Hour)
	require.NoError(t, err)
	require.Equal(t, []string{"old.bin"}, names)
}
