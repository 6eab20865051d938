// Package storage persists uploaded product images on local disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shoestore/internal/cutout"

	"github.com/google/uuid"
)

// Local writes images under a base directory and serves them by URL path.
type Local struct {
	dir     string
	urlHost string
}

// NewLocal ensures the upload directory exists. urlHost prefixes returned
// URLs; leave empty for host-relative paths.
func NewLocal(dir, urlHost string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, urlHost: strings.TrimRight(urlHost, "/")}, nil
}

// SaveImage stores the bytes under a generated name and returns the public
// URL. When removeBackground is set the image passes through the chroma-key
// cutout first; undecodable data is stored as-is.
func (l *Local) SaveImage(data []byte, originalName string, removeBackground bool, threshold, feather float64) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif":
	default:
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	if removeBackground {
		// The extension only changes when the cutout actually re-encoded;
		// undecodable data keeps its original bytes and name.
		if processed, ok := cutout.Process(data, threshold, feather); ok {
			data = processed
			ext = ".png"
		}
	}

	name := uuid.NewString() + ext
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return l.urlHost + "/images/" + name, nil
}

// Open returns the on-disk path for a stored image name, rejecting
// traversal outside the upload directory.
func (l *Local) Open(name string) (string, error) {
	if name != filepath.Base(name) || name == "." || name == "" {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	path := filepath.Join(l.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// Dir returns the base directory, for static file serving.
func (l *Local) Dir() string {
	return l.dir
}
