// Package output provides OutputWriter implementations.
package output

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/artpar/judegen/ports"
)

// FS writes descriptor files to the local filesystem. A file whose digest
// already matches the new content is left untouched.
type FS struct {
	digest ports.Digester
}

// NewFS creates a filesystem writer that compares content with digest.
func NewFS(digest ports.Digester) *FS {
	return &FS{digest: digest}
}

// EnsureDir creates dir and its parents.
func (w *FS) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		// Another session may have created it first.
		if errors.Is(err, fs.ErrExist) {
			if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
				return nil
			}
		}
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// Write stores data at path through a temporary file and rename, so readers
// never see a partial descriptor.
func (w *FS) Write(ctx context.Context, path string, data []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if w.digest.Sum(existing) == w.digest.Sum(data) {
			return false, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

var _ ports.OutputWriter = (*FS)(nil)

// Memory keeps written files in memory. Used by tests and dry runs.
type Memory struct {
	mu    sync.RWMutex
	dirs  map[string]bool
	files map[string][]byte
}

// NewMemory creates an empty in-memory writer.
func NewMemory() *Memory {
	return &Memory{
		dirs:  make(map[string]bool),
		files: make(map[string][]byte),
	}
}

// EnsureDir records dir as created.
func (m *Memory) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[filepath.Clean(dir)] = true
	return nil
}

// Write stores a copy of data. The directory must have been ensured first.
func (m *Memory) Write(ctx context.Context, path string, data []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if !m.dirs[filepath.Dir(path)] {
		return false, fmt.Errorf("writing %s: %w", path, fs.ErrNotExist)
	}
	if old, ok := m.files[path]; ok && string(old) == string(data) {
		return false, nil
	}
	m.files[path] = append([]byte(nil), data...)
	return true, nil
}

// File returns the content written at path.
func (m *Memory) File(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	return data, ok
}

// Paths lists every written file in sorted order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

var _ ports.OutputWriter = (*Memory)(nil)
