package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrationPath(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "projects/p1/narration-1700000000123.mp3", NarrationPath("p1", ts))
}

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/assets/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "projects/p1/narration-1.mp3", []byte("ID3"), "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/assets/projects/p1/narration-1.mp3", url)

	data, err := os.ReadFile(filepath.Join(dir, "projects", "p1", "narration-1.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))
}

func TestLocalStoreStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/assets")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "../../escape.mp3", []byte("x"), "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "/assets/escape.mp3", url)
	assert.FileExists(t, filepath.Join(dir, "escape.mp3"))
}

func TestLocalStoreHonoursCancellation(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/assets")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Put(ctx, "a.mp3", nil, "audio/mpeg")
	assert.ErrorIs(t, err, context.Canceled)
}
