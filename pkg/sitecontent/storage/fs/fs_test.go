package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpsite/sitecontent/pkg/sitecontent"
	"github.com/corpsite/sitecontent/pkg/sitecontent/storage/fs"
)

func TestNew(t *testing.T) {
	t.Run("empty base dir fails", func(t *testing.T) {
		_, err := fs.New(fs.Config{})
		assert.Error(t, err)
	})

	t.Run("base dir is created", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads")
		_, err := fs.New(fs.Config{BaseDir: dir})
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend, err := fs.New(fs.Config{BaseDir: dir})
	require.NoError(t, err)

	key := "blog/abc123.png"

	t.Run("upload creates nested directories", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, key, strings.NewReader("image bytes")))

		_, err := os.Stat(filepath.Join(dir, "blog", "abc123.png"))
		assert.NoError(t, err)
	})

	t.Run("download returns the stored bytes", func(t *testing.T) {
		reader, err := backend.Download(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "image bytes", string(data))
	})

	t.Run("exists reflects state", func(t *testing.T) {
		exists, err := backend.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = backend.Exists(ctx, "blog/missing.png")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete removes file and empty parent dirs", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, key))

		_, err := os.Stat(filepath.Join(dir, "blog"))
		assert.True(t, os.IsNotExist(err), "empty subfolder should be cleaned up")

		// Base directory survives
		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})

	t.Run("missing key maps to the asset sentinel", func(t *testing.T) {
		_, err := backend.Download(ctx, "gone.png")
		assert.ErrorIs(t, err, sitecontent.ErrAssetNotFound)

		assert.ErrorIs(t, backend.Delete(ctx, "gone.png"), sitecontent.ErrAssetNotFound)
	})
}
