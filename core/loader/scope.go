package loader

import (
	"github.com/artpar/judegen/core/schema"
	"gopkg.in/yaml.v3"
)

// Def is one raw top-level definition captured at load time.
type Def struct {
	Kind schema.Keyword
	Name string
	Body *yaml.Node

	// Document is the path of the defining document, Origin its schema name.
	Document string
	Origin   string
	Line     int
}

// Location returns where the definition was declared.
func (d Def) Location() schema.Location {
	return schema.Location{Document: d.Document, Line: d.Line, Entity: string(d.Kind) + " " + d.Name}
}

// Key qualifies the definition name with its origin.
func (d Def) Key() string {
	return d.Origin + "." + d.Name
}

// Scope holds definitions by kind. Names keep first-insertion order and a
// later Set of the same name replaces the body in place.
type Scope struct {
	defs  map[schema.Keyword]map[string]Def
	order map[schema.Keyword][]string
}

func newScope() *Scope {
	return &Scope{
		defs:  make(map[schema.Keyword]map[string]Def),
		order: make(map[schema.Keyword][]string),
	}
}

// Get returns the definition of kind named name.
func (s *Scope) Get(kind schema.Keyword, name string) (Def, bool) {
	d, ok := s.defs[kind][name]
	return d, ok
}

// Names returns the names of kind in insertion order.
func (s *Scope) Names(kind schema.Keyword) []string {
	return append([]string(nil), s.order[kind]...)
}

// Defs returns the definitions of kind in insertion order.
func (s *Scope) Defs(kind schema.Keyword) []Def {
	names := s.order[kind]
	out := make([]Def, 0, len(names))
	for _, n := range names {
		out = append(out, s.defs[kind][n])
	}
	return out
}

// Len returns the number of definitions of kind.
func (s *Scope) Len(kind schema.Keyword) int {
	return len(s.order[kind])
}

// Set adds or replaces a definition.
func (s *Scope) Set(d Def) {
	m := s.defs[d.Kind]
	if m == nil {
		m = make(map[string]Def)
		s.defs[d.Kind] = m
	}
	if _, exists := m[d.Name]; !exists {
		s.order[d.Kind] = append(s.order[d.Kind], d.Name)
	}
	m[d.Name] = d
}

// update copies every definition of other into s, mirroring a map update.
func (s *Scope) update(other *Scope) {
	for _, kind := range schema.Keywords {
		for _, d := range other.Defs(kind) {
			s.Set(d)
		}
	}
}
