package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetFile when nothing is stored at the path
var ErrNotFound = errors.New("file not found")

// Client defines the storage operations used to publish chart frames
type Client interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores data at the specified path, replacing any previous content
	StoreFile(ctx context.Context, filePath string, data []byte) error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListDir lists the files below dirPath, sorted by name
	ListDir(ctx context.Context, dirPath string) ([]string, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)
}
