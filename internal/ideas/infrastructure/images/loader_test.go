package images

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Smallest valid PNG signature plus IHDR prefix; enough for sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoader_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("empty path yields default image", func(t *testing.T) {
		l := NewLoader(LoaderConfig{DefaultImage: "assets/default-image.jpg"})
		got, err := l.Resolve(ctx, "  ")
		require.NoError(t, err)
		assert.Equal(t, "assets/default-image.jpg", got)
	})

	t.Run("mime from extension", func(t *testing.T) {
		path := writeFile(t, "cover.png", pngHeader)
		got, err := NewLoader(LoaderConfig{}).Resolve(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngHeader), got)
	})

	t.Run("mime sniffed when extension is unknown", func(t *testing.T) {
		path := writeFile(t, "cover.bin", pngHeader)
		got, err := NewLoader(LoaderConfig{}).Resolve(ctx, path)
		require.NoError(t, err)
		assert.Contains(t, got, "data:image/png;base64,")
	})

	t.Run("non-image content rejected", func(t *testing.T) {
		path := writeFile(t, "notes.txt", []byte("hello"))
		_, err := NewLoader(LoaderConfig{}).Resolve(ctx, path)
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(LoaderConfig{}).Resolve(ctx, filepath.Join(t.TempDir(), "nope.jpg"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("too large", func(t *testing.T) {
		path := writeFile(t, "big.png", append(pngHeader, make([]byte, 64)...))
		_, err := NewLoader(LoaderConfig{MaxBytes: 32}).Resolve(ctx, path)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("outside base dir", func(t *testing.T) {
		path := writeFile(t, "cover.png", pngHeader)
		l := NewLoader(LoaderConfig{BaseDir: t.TempDir()})
		_, err := l.Resolve(ctx, path)
		assert.ErrorIs(t, err, ErrPathOutsideDir)
	})

	t.Run("inside base dir", func(t *testing.T) {
		path := writeFile(t, "cover.png", pngHeader)
		l := NewLoader(LoaderConfig{BaseDir: filepath.Dir(path)})
		got, err := l.Resolve(ctx, path)
		require.NoError(t, err)
		assert.Contains(t, got, "data:image/png;base64,")
	})

	t.Run("control characters rejected", func(t *testing.T) {
		_, err := NewLoader(LoaderConfig{}).Resolve(ctx, "cover\n.png")
		assert.ErrorContains(t, err, "control characters")
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		path := writeFile(t, "cover.png", pngHeader)
		// Either outcome is acceptable when the read races cancellation;
		// a returned error must be the context's.
		if _, err := NewLoader(LoaderConfig{}).Resolve(cctx, path); err != nil {
			assert.ErrorIs(t, err, context.Canceled)
		}
	})
}
