package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/artpar/judegen/core/emit"
)

// JSONFormatter writes bundles as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Description returns the formatter description.
func (f *JSONFormatter) Description() string {
	return "JSON descriptor bundle"
}

// Extension returns the file extension.
func (f *JSONFormatter) Extension() string {
	return "json"
}

// FormatBundle writes b as JSON.
func (f *JSONFormatter) FormatBundle(w io.Writer, b *emit.Bundle, opts FormatOptions) error {
	return f.encode(w, b, opts.Compact)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := map[string]any{
		"error": err.Error(),
	}
	return f.encode(w, output, false)
}

func (f *JSONFormatter) encode(w io.Writer, data any, compact bool) error {
	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

func init() {
	if err := Register(NewJSONFormatter()); err != nil {
		fmt.Printf("failed to register json formatter: %v\n", err)
	}
}
