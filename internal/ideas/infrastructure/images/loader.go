// Package images turns local image files into inline data URIs.
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
)

// DefaultMaxBytes caps the size of a loaded image.
const DefaultMaxBytes = 10 << 20

// ErrTooLarge is returned for files above the loader's size cap.
var ErrTooLarge = errors.New("image file too large")

// ErrNotImage is returned when the file content is not an image.
var ErrNotImage = errors.New("file is not an image")

// Loader reads images from disk. It implements domain.ImageResolver.
type Loader struct {
	defaultImage string
	baseDir      string
	maxBytes     int64
	logger       *slog.Logger
}

var _ domain.ImageResolver = (*Loader)(nil)

// LoaderConfig holds loader settings.
type LoaderConfig struct {
	DefaultImage string
	// BaseDir, when set, restricts loadable files to that directory tree.
	BaseDir  string
	MaxBytes int64
	Logger   *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(cfg LoaderConfig) *Loader {
	if cfg.DefaultImage == "" {
		cfg.DefaultImage = domain.DefaultImage
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loader{
		defaultImage: cfg.DefaultImage,
		baseDir:      cfg.BaseDir,
		maxBytes:     cfg.MaxBytes,
		logger:       cfg.Logger,
	}
}

type readResult struct {
	data []byte
	err  error
}

// Resolve reads path and returns it as a data URI. An empty path yields the
// default image. Resolve returns once the file is fully read or ctx is done.
func (l *Loader) Resolve(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return l.defaultImage, nil
	}

	done := make(chan readResult, 1)
	go func() {
		data, err := l.read(path)
		done <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			l.logger.WarnContext(ctx, "failed to load image", "path", path, "error", res.err)
			return "", res.err
		}
		return encode(path, res.data)
	}
}

func (l *Loader) read(path string) ([]byte, error) {
	resolved, err := resolvePath(path, l.baseDir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, path)
	}
	return data, nil
}

func encode(path string, data []byte) (string, error) {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, path)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
