// Package fileserver handles files stored on the local disk under a single
// base directory. Every path is validated so callers can never reach
// outside the base directory.
package fileserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	directoryPerms = 0o755
)

var ErrInvalidPath = errors.New("path escapes base directory")

type FileServer struct {
	baseDir string
}

func New(baseDir string) *FileServer {
	return &FileServer{
		baseDir: baseDir,
	}
}

func (f *FileServer) BaseDirectory() string {
	return f.baseDir
}

// Write stores data at the given path relative to the base directory,
// creating parent directories as needed. It returns the absolute location
// of the written file.
func (f *FileServer) Write(path string, data []byte) (location string, n int, err error) {
	if f == nil {
		return "", 0, nil
	}

	fullpath, err := cleanPath(f.baseDir, path)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullpath), directoryPerms); err != nil {
		return "", 0, fmt.Errorf("creating parent directories: %w", err)
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return "", 0, fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = file.Close() }()

	n, err = file.Write(data)
	if err != nil {
		return "", 0, fmt.Errorf("writing file: %w", err)
	}

	return fullpath, n, nil
}

// Delete removes the file at the given relative path. A missing file is
// not an error.
func (f *FileServer) Delete(path string) error {
	if f == nil {
		return nil
	}

	fullpath, err := cleanPath(f.baseDir, path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullpath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// Resolve returns the absolute path for a relative path inside the base
// directory, or ErrInvalidPath when it would escape it.
func (f *FileServer) Resolve(path string) (string, error) {
	if f == nil {
		return "", ErrInvalidPath
	}
	return cleanPath(f.baseDir, path)
}

func (f *FileServer) Exists(path string) (bool, error) {
	if f == nil {
		return false, nil
	}

	fullpath, err := cleanPath(f.baseDir, path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullpath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// cleanPath joins path onto baseDir and verifies the result stays inside
// baseDir.
func cleanPath(baseDir, path string) (string, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	if filepath.IsAbs(path) {
		return "", ErrInvalidPath
	}

	full := filepath.Join(absBase, path)
	if full != absBase && !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}
