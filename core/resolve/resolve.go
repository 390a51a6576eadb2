// Package resolve turns loaded namespaces into resolved objects, enums,
// bitmasks and databases.
//
// Objects go through four stages: fields are parsed and merged with their
// class, tags are allocated, types are resolved against the complete
// namespace, and the ordered field list is frozen. Each object is resolved in
// the namespace of the document that defines it, so an imported object sees
// the imports of its own document.
package resolve

import (
	"github.com/artpar/judegen/core/loader"
	"github.com/artpar/judegen/core/schema"
	"github.com/rs/zerolog"
)

// Options configures a resolution.
type Options struct {
	Logger zerolog.Logger
}

// Resolve resolves every definition of prog. The returned model lists the
// root document's own definitions and indexes every object, enum and bitmask
// of the program.
func Resolve(prog *loader.Program, opts Options) (*Model, error) {
	if err := checkSchemaNames(prog); err != nil {
		return nil, err
	}

	m := &Model{
		Schema:      prog.Root.Name,
		Imports:     append([]string(nil), prog.Root.Imports...),
		AllObjects:  make(map[string]*Object),
		AllEnums:    make(map[string]*Enum),
		AllBitmasks: make(map[string]*Bitmask),
	}

	for _, ns := range prog.Namespaces {
		s := newScope(ns, opts.Logger)
		root := ns == prog.Root

		for _, def := range ns.Local.Defs(schema.KeywordEnum) {
			e, err := resolveEnum(def)
			if err != nil {
				return nil, err
			}
			m.AllEnums[e.Key()] = e
			if root {
				m.Enums = append(m.Enums, e)
			}
		}

		for _, def := range ns.Local.Defs(schema.KeywordBitmask) {
			b, err := resolveBitmask(def)
			if err != nil {
				return nil, err
			}
			m.AllBitmasks[b.Key()] = b
			if root {
				m.Bitmasks = append(m.Bitmasks, b)
			}
		}

		for _, def := range ns.Local.Defs(schema.KeywordObject) {
			obj, err := s.resolveObject(def)
			if err != nil {
				return nil, err
			}
			m.AllObjects[obj.Key()] = obj
			if root {
				m.Objects = append(m.Objects, obj)
			}
		}

		for _, def := range ns.Local.Defs(schema.KeywordDatabase) {
			db, err := s.resolveDatabase(def)
			if err != nil {
				return nil, err
			}
			if root {
				m.Databases = append(m.Databases, db)
			}
		}

		if root {
			for _, def := range ns.Local.Defs(schema.KeywordConstant) {
				m.Constants = append(m.Constants, Constant{Name: def.Name, Origin: def.Origin, Value: def.Body.Value})
			}
		}
	}

	opts.Logger.Debug().
		Str("schema", m.Schema).
		Int("objects", len(m.AllObjects)).
		Int("enums", len(m.AllEnums)).
		Int("bitmasks", len(m.AllBitmasks)).
		Msg("program resolved")
	return m, nil
}

// checkSchemaNames rejects two documents sharing a schema name, since
// definitions are keyed by it.
func checkSchemaNames(prog *loader.Program) error {
	paths := make(map[string]string, len(prog.Namespaces))
	for _, ns := range prog.Namespaces {
		if other, dup := paths[ns.Name]; dup {
			return schema.Syntaxf(schema.Location{Document: ns.Path},
				"schema name %q is also used by %s", ns.Name, other)
		}
		paths[ns.Name] = ns.Path
	}
	return nil
}
