package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSystemArchiver stores history files under a directory, typically on
// a mounted backup volume.
type FileSystemArchiver struct {
	root string
}

var _ Archiver = (*FileSystemArchiver)(nil)

// NewFileSystemArchiver creates an archiver rooted at the given path,
// creating the directory if needed.
func NewFileSystemArchiver(root string) (*FileSystemArchiver, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileSystemArchiver{root: root}, nil
}

// Put writes the file atomically (temp file + rename) so a crashed upload
// never leaves a truncated archive copy.
func (a *FileSystemArchiver) Put(_ context.Context, name string, r io.Reader, size int64) error {
	destPath := filepath.Join(a.root, name)

	tmpFile, err := os.CreateTemp(a.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if size >= 0 && written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// ValidateSetup verifies that the archive root is an accessible directory.
func (a *FileSystemArchiver) ValidateSetup(context.Context) error {
	info, err := os.Stat(a.root)
	if err != nil {
		return fmt.Errorf("archive root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("archive root is not a directory: %s", a.root)
	}
	return nil
}
