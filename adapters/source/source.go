// Package source provides schema DocumentSource implementations.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/artpar/judegen/ports"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// FS reads schema documents from the local filesystem.
type FS struct{}

// Read returns the content of the file at p.
func (FS) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// Resolve joins ref onto the directory of from. Absolute refs are kept.
func (FS) Resolve(from, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(from), ref))
}

var _ ports.DocumentSource = FS{}

// Memory serves documents from an in-memory map keyed by slash path.
type Memory struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	reads map[string]int
}

// NewMemory creates a memory source holding docs.
func NewMemory(docs map[string]string) *Memory {
	m := &Memory{docs: make(map[string][]byte), reads: make(map[string]int)}
	for p, content := range docs {
		m.docs[path.Clean(p)] = []byte(content)
	}
	return m
}

// Put adds or replaces a document.
func (m *Memory) Put(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[path.Clean(p)] = []byte(content)
}

// Read returns the document at p.
func (m *Memory) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[path.Clean(p)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	m.reads[path.Clean(p)]++
	return data, nil
}

// Resolve joins ref onto the directory of from.
func (m *Memory) Resolve(from, ref string) string {
	if path.IsAbs(ref) {
		return path.Clean(ref)
	}
	return path.Join(path.Dir(from), ref)
}

// Reads reports how many times p was read.
func (m *Memory) Reads(p string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads[path.Clean(p)]
}

var _ ports.DocumentSource = (*Memory)(nil)
