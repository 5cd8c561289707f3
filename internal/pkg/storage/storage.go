package storage

import (
	"context"
	"io"
)

// Storage defines the minimal interface for file storage backends.
type Storage interface {
	// Put stores a file under the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves a file by key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a file is present.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for a file given its key.
	GetURL(key string) string
}

// Upload categories for validation
const (
	CategoryCover    = "cover"
	CategoryMaterial = "material"
)

// AllowedMimeTypes maps upload categories to permitted MIME types
var AllowedMimeTypes = map[string][]string{
	CategoryCover: {
		"image/jpeg",
		"image/png",
		"image/webp",
	},
	CategoryMaterial: {
		"application/pdf",
		"image/jpeg",
		"image/png",
		"text/plain",
	},
}

// MaxFileSizes maps upload categories to maximum sizes in bytes
var MaxFileSizes = map[string]int64{
	CategoryCover:    5 * 1024 * 1024,
	CategoryMaterial: 25 * 1024 * 1024,
}
