// Package storage keeps archived PDFs on local disk or in an S3 bucket.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes an object under a slash-separated key.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
}

// LocalStore writes objects below a base directory.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

// Put writes data at baseDir/key. Keys that escape baseDir are rejected.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

func cleanKey(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return clean, nil
}

// New returns the Store for backend ("none", "local" or "s3"). It returns a
// nil Store for "none".
func New(ctx context.Context, backend, localDir string, s3opts S3Options) (Store, error) {
	switch backend {
	case "", "none":
		return nil, nil
	case "local":
		return NewLocalStore(localDir), nil
	case "s3":
		st, err := NewS3Store(ctx, s3opts)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", backend)
	}
}
