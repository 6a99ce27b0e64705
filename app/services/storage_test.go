package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage(t *testing.T) {
	store, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("PutGetDelete", func(t *testing.T) {
		content := []byte("poster bytes")

		key, size, err := store.Put(ctx, "poster_image", "jpg", bytes.NewReader(content))
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), size)
		assert.True(t, strings.HasPrefix(key, "poster_image/"))
		assert.True(t, strings.HasSuffix(key, ".jpg"))

		rc, err := store.Get(ctx, key)
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		assert.Equal(t, content, got)

		require.NoError(t, store.Delete(ctx, key))
		_, err = store.Get(ctx, key)
		assert.Error(t, err)
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "poster_image/does-not-exist.jpg"))
	})

	t.Run("RejectsTraversalKeys", func(t *testing.T) {
		_, err := store.Get(ctx, "../etc/passwd")
		assert.Error(t, err)

		_, err = store.Get(ctx, "poster_image/../../etc/passwd")
		assert.Error(t, err)

		_, err = store.Get(ctx, "/etc/passwd")
		assert.Error(t, err)
	})

	t.Run("ExtensionNormalized", func(t *testing.T) {
		key, _, err := store.Put(ctx, "permit_form", ".PDF", bytes.NewReader([]byte("%PDF")))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(key, ".pdf"), "key = %s", key)
	})

	t.Run("EmptyRootRejected", func(t *testing.T) {
		_, err := NewDiskStorage("")
		assert.Error(t, err)
	})
}
