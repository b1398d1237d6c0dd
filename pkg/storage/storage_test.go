package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

func TestLocalStorageSaveRead(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("burial-permit-report-2024-03-01.csv", []byte("a,b"))
	require.NoError(t, err)
	assert.Equal(t, "burial-permit-report-2024-03-01.csv", name)

	data, err := store.Read(name)
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))

	entries, err := os.ReadDir(filepath.Dir(store.Path(name)))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLocalStorageStaysInsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "exports"))
	require.NoError(t, err)

	_, err = store.Save("../escape.txt", []byte("x"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "exports", "escape.txt"))
	assert.NoError(t, err)
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("old.pdf", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("new.pdf", []byte("new"))
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path("old.pdf"), past, past))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf"}, deleted)

	_, err = store.Read("new.pdf")
	assert.NoError(t, err)
}

func TestFileKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, err := NewFileKV(t.TempDir(), "permits:")
	require.NoError(t, err)

	_, err = kv.Get(ctx, "token")
	require.ErrorIs(t, err, appErrors.ErrStoreMiss)

	require.NoError(t, kv.Set(ctx, "token", []byte("abc")))
	got, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	require.NoError(t, kv.Set(ctx, "token", []byte("def")))
	got, err = kv.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "def", string(got))

	require.NoError(t, kv.Delete(ctx, "token"))
	require.NoError(t, kv.Delete(ctx, "token"))
	_, err = kv.Get(ctx, "token")
	require.ErrorIs(t, err, appErrors.ErrStoreMiss)
}
