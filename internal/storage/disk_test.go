package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	ts := time.Unix(1700000000, 123456789)

	assert.Equal(t, "1700000000123456789-photo.png", Filename(ts, "photo.png"))
	assert.Equal(t, "1700000000123456789-my_photo.png", Filename(ts, "my photo.png"))
	assert.Equal(t, "1700000000123456789-photo.png", Filename(ts, "../../etc/photo.png"))
	assert.Equal(t, "1700000000123456789-upload", Filename(ts, ""))

	// Same inputs always produce the same locator
	assert.Equal(t, Filename(ts, "a.jpg"), Filename(ts, "a.jpg"))
}

func TestDiskStore_SaveAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte("fake image bytes")
	locator, err := store.Save(context.Background(), "avatar.png", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Contains(t, locator, "avatar.png")

	rc, err := store.Open(locator)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDiskStore_SaveDistinctLocators(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save(context.Background(), "same.png", bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	second, err := store.Save(context.Background(), "same.png", bytes.NewReader([]byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDiskStore_SaveNeverOverwrites(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	// Freeze the clock so both saves target the same locator
	fixed := time.Unix(1700000000, 0)
	store.now = func() time.Time { return fixed }

	_, err = store.Save(context.Background(), "same.png", bytes.NewReader([]byte("one")))
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "same.png", bytes.NewReader([]byte("two")))
	assert.Error(t, err)
}

func TestDiskStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	locator, err := store.Save(context.Background(), "gone.png", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Remove(locator))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// A second remove reports ErrAssetNotFound
	err = store.Remove(locator)
	assert.ErrorIs(t, err, ErrAssetNotFound)

	_, err = store.Open(locator)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestNewDiskStore_CreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/uploads"

	_, err := NewDiskStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on an existing directory
	_, err = NewDiskStore(dir)
	require.NoError(t, err)
}
