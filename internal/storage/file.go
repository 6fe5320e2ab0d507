package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileKV stores each key as one JSON file under a base directory.
type FileKV struct {
	BasePath string
}

// NewFileKV creates the base directory if needed.
func NewFileKV(basePath string) (*FileKV, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory '%s': %w", basePath, err)
	}
	return &FileKV{BasePath: basePath}, nil
}

// fileName maps key to a file name inside the base directory. Leading dots
// are replaced too so no key yields a hidden file or a parent reference.
func fileName(key string) string {
	name := unsafeKeyChars.ReplaceAllString(key, "_")
	rest := strings.TrimLeft(name, ".")
	return strings.Repeat("_", len(name)-len(rest)) + rest + ".json"
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.BasePath, fileName(key))
}

// Get implements KV.
func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", f.path(key), err)
	}
	return string(data), true, nil
}

// Set implements KV. The value is written to a temporary file and renamed
// into place so readers never see a partial blob.
func (f *FileKV) Set(_ context.Context, key, value string) error {
	target := f.path(key)
	tmp, err := os.CreateTemp(f.BasePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
