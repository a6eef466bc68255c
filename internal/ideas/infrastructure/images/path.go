package images

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathOutsideDir is returned when a chosen file escapes the loader's
// base directory.
var ErrPathOutsideDir = errors.New("image path escapes base directory")

// resolvePath cleans path, makes it absolute and resolves symlinks. When
// baseDir is set the result must lie inside it.
func resolvePath(path, baseDir string) (string, error) {
	if strings.ContainsAny(path, "\x00\n\r") {
		return "", fmt.Errorf("image path contains control characters: %q", path)
	}

	resolved, err := absResolved(path)
	if err != nil {
		return "", err
	}
	if baseDir == "" {
		return resolved, nil
	}

	base, err := absResolved(baseDir)
	if err != nil {
		return "", err
	}
	if resolved != base && !strings.HasPrefix(resolved, base+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not within %s", ErrPathOutsideDir, path, baseDir)
	}
	return resolved, nil
}

// absResolved returns the absolute form of p with symlinks resolved when
// p exists.
func absResolved(p string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", fmt.Errorf("resolve path: %w", err)
	}
	return resolved, nil
}
