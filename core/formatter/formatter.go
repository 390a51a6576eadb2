// Package formatter renders descriptor bundles. Formatters are stateless and
// are looked up by name from a registry; json, yaml and table register
// themselves with the default registry.
package formatter

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/artpar/judegen/core/emit"
)

// Formatter converts a descriptor bundle to a specific output format.
type Formatter interface {
	// Name returns the formatter name (e.g., "table", "json", "yaml").
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Extension returns the file extension of written output, without a dot.
	Extension() string

	// FormatBundle writes a bundle.
	FormatBundle(w io.Writer, b *emit.Bundle, opts FormatOptions) error

	// FormatError writes an error.
	FormatError(w io.Writer, err error) error
}

// FormatOptions configures formatting behavior.
type FormatOptions struct {
	// NoHeader disables header rows for tabular formats.
	NoHeader bool

	// Compact minimizes whitespace (json only).
	Compact bool
}

// Registry manages registered formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	defaultFmt string
}

// NewRegistry creates an empty registry whose default is json.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
		defaultFmt: "json",
	}
}

// Register adds a formatter to the registry.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Name()]; exists {
		return fmt.Errorf("formatter %q already registered", f.Name())
	}

	r.formatters[f.Name()] = f
	return nil
}

// Get returns a formatter by name.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[name]
	return f, ok
}

// Lookup returns a formatter by name, or an error listing the known ones.
func (r *Registry) Lookup(name string) (Formatter, error) {
	if f, ok := r.Get(name); ok {
		return f, nil
	}
	return nil, fmt.Errorf("unknown output format %q (available: %v)", name, r.List())
}

// Default returns the default formatter.
func (r *Registry) Default() Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formatters[r.defaultFmt]
}

// SetDefault sets the default formatter.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[name]; !exists {
		return fmt.Errorf("formatter %q not registered", name)
	}

	r.defaultFmt = name
	return nil
}

// List returns all registered formatter names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in formatters.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(f Formatter) error {
	return DefaultRegistry.Register(f)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// Lookup returns a formatter from the default registry or an error.
func Lookup(name string) (Formatter, error) {
	return DefaultRegistry.Lookup(name)
}

// List returns all formatter names from the default registry.
func List() []string {
	return DefaultRegistry.List()
}
