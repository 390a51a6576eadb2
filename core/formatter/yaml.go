package formatter

import (
	"fmt"
	"io"

	"github.com/artpar/judegen/core/emit"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter writes bundles as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the formatter name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Description returns the formatter description.
func (f *YAMLFormatter) Description() string {
	return "YAML descriptor bundle"
}

// Extension returns the file extension.
func (f *YAMLFormatter) Extension() string {
	return "yaml"
}

// FormatBundle writes b as YAML.
func (f *YAMLFormatter) FormatBundle(w io.Writer, b *emit.Bundle, opts FormatOptions) error {
	return f.encode(w, b)
}

// FormatError formats an error as YAML.
func (f *YAMLFormatter) FormatError(w io.Writer, err error) error {
	return f.encode(w, map[string]any{"error": err.Error()})
}

func (f *YAMLFormatter) encode(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	if err := Register(NewYAMLFormatter()); err != nil {
		fmt.Printf("failed to register yaml formatter: %v\n", err)
	}
}
