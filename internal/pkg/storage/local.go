package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalProvider writes uploads into a directory. Used in development and
// by tests; the returned URL is a plain file path unless a base URL is set.
type LocalProvider struct {
	basePath string
	baseURL  string
}

// NewLocalProvider creates the base directory if needed.
func NewLocalProvider(basePath, baseURL string) (*LocalProvider, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalProvider{basePath: basePath, baseURL: baseURL}, nil
}

// Upload writes data under key below the base directory.
func (s *LocalProvider) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	fullPath := filepath.Join(s.basePath, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key), nil
	}
	abs, err := filepath.Abs(fullPath)
	if err != nil {
		return fullPath, nil
	}
	return "file://" + abs, nil
}
