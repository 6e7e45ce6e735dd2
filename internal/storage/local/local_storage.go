// Package local publishes export artifacts to a directory on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"legalextract/internal/port"
)

// Storage implements port.ObjectStorage on a base directory. Buckets map to
// subdirectories.
type Storage struct {
	baseDir string
}

// NewStorage creates the base directory if needed.
func NewStorage(baseDir string) (*Storage, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving export dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}
	return &Storage{baseDir: abs}, nil
}

func (s *Storage) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(input.Bucket, input.Key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("local upload: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("local upload: %w", err)
	}
	if _, err := io.Copy(f, input.Body); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("local upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("local upload: %w", err)
	}

	return &port.UploadOutput{Location: "file://" + filepath.ToSlash(path)}, nil
}

// GetPresignedURL returns the file:// location; local files need no signing.
func (s *Storage) GetPresignedURL(_ context.Context, bucket, key string, _ int64) (string, error) {
	path, err := s.resolve(bucket, key)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(path), nil
}

// resolve maps bucket/key to a path, refusing anything outside baseDir.
func (s *Storage) resolve(bucket, key string) (string, error) {
	path := filepath.Join(s.baseDir, bucket, filepath.FromSlash(key))
	if path != s.baseDir && !strings.HasPrefix(path, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("local storage: key %q escapes export dir", key)
	}
	return path, nil
}
