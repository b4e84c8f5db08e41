package datasource

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemorySource serves seeded dataset bytes from memory.
type MemorySource struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemory constructs a memory source seeded with data.
func NewMemory(data []byte) *MemorySource {
	return &MemorySource{data: append([]byte(nil), data...)}
}

// Driver implements Source.
func (s *MemorySource) Driver() Driver { return DriverMemory }

// Seed replaces the served bytes.
func (s *MemorySource) Seed(data []byte) {
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	s.mu.Unlock()
}

// Fetch implements Source.
func (s *MemorySource) Fetch(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	cp := append([]byte(nil), s.data...)
	s.mu.RUnlock()
	return io.NopCloser(bytes.NewReader(cp)), nil
}
