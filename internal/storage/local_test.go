package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte("not really a jpeg")
	saved, err := store.Save(ctx, "holiday.JPG", "image/jpeg", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.True(t, strings.HasSuffix(saved.ID, ".jpg"), "id keeps a lowercased extension, got %s", saved.ID)
	assert.Equal(t, int64(len(payload)), saved.Size)
	assert.False(t, saved.UploadedAt.IsZero())

	rc, meta, err := store.Open(ctx, saved.ID)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, "image/jpeg", meta.ContentType)
	assert.Equal(t, int64(len(payload)), meta.Size)
}

func TestLocalStorage_SaveGeneratesDistinctIDs(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a, err := store.Save(ctx, "same.png", "image/png", strings.NewReader("one"))
	require.NoError(t, err)
	b, err := store.Save(ctx, "same.png", "image/png", strings.NewReader("two"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := store.Save(ctx, "clip.mp4", "video/mp4", strings.NewReader("video"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, saved.ID))
	_, _, err = store.Open(ctx, saved.ID)
	assert.Error(t, err)
}

func TestLocalStorage_RejectsPathTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"../etc/passwd", "a/b.jpg", `a\b.jpg`, "..", "foo/../bar"} {
		_, _, err := store.Open(ctx, id)
		assert.Error(t, err, "Open(%q) must be rejected", id)
		assert.Error(t, store.Delete(ctx, id), "Delete(%q) must be rejected", id)
	}
}

func TestLocalStorage_UnknownExtensionFallsBack(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := store.Save(ctx, "blob.weirdext", "application/x-thing", strings.NewReader("x"))
	require.NoError(t, err)

	rc, meta, err := store.Open(ctx, saved.ID)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "application/octet-stream", meta.ContentType)
}
