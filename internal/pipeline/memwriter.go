package pipeline

import (
	"context"
	"sync"
)

// MemoryWriter implements Writer for testing without filesystem I/O.
type MemoryWriter struct {
	mu     sync.RWMutex
	Files  map[string][]byte
	writes int
}

// WriteFile stores a copy of data in memory.
func (m *MemoryWriter) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Files == nil {
		m.Files = make(map[string][]byte)
	}
	m.Files[path] = append([]byte(nil), data...)
	m.writes++
	return nil
}

// GetFile retrieves a file's content.
func (m *MemoryWriter) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.Files[path]
	return data, ok
}

// HasFile checks if a file exists.
func (m *MemoryWriter) HasFile(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.Files[path]
	return ok
}

// Writes returns how many times WriteFile succeeded.
func (m *MemoryWriter) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.writes
}

// Ensure MemoryWriter implements Writer interface
var _ Writer = (*MemoryWriter)(nil)
