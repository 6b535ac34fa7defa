package archive

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryArchiver is an in-memory implementation of the Archiver
// interface, useful for testing. Safe for concurrent use.
type MemoryArchiver struct {
	mu    sync.RWMutex
	files map[string][]byte
}

var _ Archiver = (*MemoryArchiver)(nil)

// NewMemoryArchiver creates a new in-memory archiver.
func NewMemoryArchiver() *MemoryArchiver {
	return &MemoryArchiver{files: make(map[string][]byte)}
}

// Put stores the file contents under name, overwriting any previous copy.
func (a *MemoryArchiver) Put(_ context.Context, name string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[name] = data
	return nil
}

// ValidateSetup always succeeds for the in-memory backend.
func (a *MemoryArchiver) ValidateSetup(context.Context) error { return nil }

// Get returns the stored contents of name, for test assertions.
func (a *MemoryArchiver) Get(name string) ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	data, ok := a.files[name]
	return data, ok
}

// Names returns the names of all stored files.
func (a *MemoryArchiver) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	return names
}
