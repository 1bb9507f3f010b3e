package fsxlocal

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/fsx"
)

// LocalFS implements the fsx.FileSystem interface using the local file system
type LocalFS struct {
	// Optional root directory to restrict operations to a subdirectory
	root string
}

var _ fsx.FileSystem = (*LocalFS)(nil)

// NewLocalFS creates a new local file system instance
func NewLocalFS(root string) *LocalFS {
	// Normalize root path
	if root != "" {
		root = filepath.Clean(root)
	}
	return &LocalFS{root: root}
}

// resolvePath resolves and validates a path within root directory
func (l *LocalFS) resolvePath(path string) (string, error) {
	if l.root == "" {
		return filepath.Clean(path), nil
	}

	full := filepath.Join(l.root, filepath.Clean("/"+path))
	rel, err := filepath.Rel(l.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fsx.ErrorRegistry.New(fsx.ErrOutsideRoot).WithDetail("path", path)
	}
	return full, nil
}

// ReadFile reads a file's content
func (l *LocalFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	full, err := l.resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, wrap(err, path)
	}
	return data, nil
}

// Stat returns file information
func (l *LocalFS) Stat(_ context.Context, path string) (fsx.FileInfo, error) {
	full, err := l.resolvePath(path)
	if err != nil {
		return fsx.FileInfo{}, err
	}

	info, err := os.Stat(full)
	if err != nil {
		return fsx.FileInfo{}, wrap(err, path)
	}

	return convertOsFileInfo(info), nil
}

// List returns directory contents
func (l *LocalFS) List(_ context.Context, path string) ([]fsx.FileInfo, error) {
	full, err := l.resolvePath(path)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, wrap(err, path)
	}

	result := make([]fsx.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, wrap(err, filepath.Join(path, entry.Name()))
		}
		result = append(result, convertOsFileInfo(info))
	}

	return result, nil
}

// WriteFile writes data to a file
func (l *LocalFS) WriteFile(_ context.Context, path string, data []byte) error {
	fullPath, err := l.resolvePath(path)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return wrap(err, path)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return wrap(err, path)
	}
	return nil
}

// Exists checks if a file or directory exists
func (l *LocalFS) Exists(_ context.Context, path string) (bool, error) {
	full, err := l.resolvePath(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, wrap(err, path)
}

func wrap(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fsx.ErrorRegistry.NewWithCause(fsx.ErrNotFound, err).WithDetail("path", path)
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && strings.Contains(pathErr.Err.Error(), "is a directory") {
		return fsx.ErrorRegistry.NewWithCause(fsx.ErrIsDir, err).WithDetail("path", path)
	}
	return errx.Wrap(err, "Local file system operation failed", errx.TypeSystem).WithDetail("path", path)
}

// Helper function to convert os.FileInfo to our FileInfo
func convertOsFileInfo(info fs.FileInfo) fsx.FileInfo {
	// Try to detect content type for files
	contentType := ""
	if !info.IsDir() {
		contentType = mime.TypeByExtension(filepath.Ext(info.Name()))
	}

	return fsx.FileInfo{
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		ContentType: contentType,
		Metadata:    map[string]string{}, // OS doesn't provide metadata
	}
}
