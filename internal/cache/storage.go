package cache

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store is the backend holding cached artifacts
type Store interface {
	// Path resolves a file name to the location the store uses for it
	Path(filename string) string
	Exists(ctx context.Context, path string) (bool, error)
	// Save writes data under filename and returns the final path
	Save(ctx context.Context, data io.Reader, filename string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// FilesystemStorage keeps artifacts as flat files in one directory
type FilesystemStorage struct {
	basePath string
}

// NewFilesystemStorage creates the base directory if needed
func NewFilesystemStorage(basePath string) (*FilesystemStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FilesystemStorage{basePath: basePath}, nil
}

// BasePath returns the cache directory
func (fs *FilesystemStorage) BasePath() string {
	return fs.basePath
}

func (fs *FilesystemStorage) Path(filename string) string {
	return filepath.Join(fs.basePath, filename)
}

// Save streams data to a temporary file next to the target and renames it
// into place, so readers never observe a partial artifact.
func (fs *FilesystemStorage) Save(ctx context.Context, data io.Reader, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath := fs.Path(filename)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return fullPath, nil
}

func (fs *FilesystemStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a file; a missing file is not an error
func (fs *FilesystemStorage) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (fs *FilesystemStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}
