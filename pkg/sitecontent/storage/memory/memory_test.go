package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
	"github.com/corpsite/sitecontent/pkg/sitecontent/storage/memory"
)

func TestBackend(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	t.Run("upload and download", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, "k1", strings.NewReader("payload")))

		reader, err := backend.Download(ctx, "k1")
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
		assert.Equal(t, 1, backend.Len())
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := backend.Exists(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = backend.Exists(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, "k1"))
		assert.Equal(t, 0, backend.Len())

		assert.ErrorIs(t, backend.Delete(ctx, "k1"), sitecontent.ErrAssetNotFound)
	})

	t.Run("download missing", func(t *testing.T) {
		_, err := backend.Download(ctx, "missing")
		assert.ErrorIs(t, err, sitecontent.ErrAssetNotFound)
	})
}
