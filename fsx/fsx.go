// Package fsx abstracts the file systems schema definitions and record files are read from.
package fsx

import (
	"context"
	"time"
)

// FileInfo describes a file or directory
type FileInfo struct {
	Name        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	ContentType string
	Metadata    map[string]string
}

// FileSystem is implemented by every provider
type FileSystem interface {
	// ReadFile reads a file's content
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// WriteFile writes data to a file, creating parent directories as needed
	WriteFile(ctx context.Context, path string, data []byte) error
	// Stat returns file information
	Stat(ctx context.Context, path string) (FileInfo, error)
	// List returns directory contents
	List(ctx context.Context, path string) ([]FileInfo, error)
	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)
}
