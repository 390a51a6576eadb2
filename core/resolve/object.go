package resolve

import (
	"sort"

	"github.com/artpar/judegen/core/loader"
	"github.com/artpar/judegen/core/schema"
)

// resolveObject runs an object declaration through every stage up to
// Finalized. The returned object is never modified afterwards.
func (s *scope) resolveObject(def loader.Def) (*Object, error) {
	obj := &Object{
		Name:     def.Name,
		Origin:   def.Origin,
		Document: def.Document,
		Line:     def.Line,
	}
	entity := def.Location()

	pairs, ok := schema.Pairs(def.Body)
	if !ok {
		return nil, schema.Syntaxf(entity, "object body should be a mapping of fields")
	}

	// Fields parsed.
	declared := make([]*declaredField, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		d, err := s.parseField(entity, p)
		if err != nil {
			return nil, err
		}
		if seen[d.decl.Name] {
			return nil, schema.Syntaxf(d.loc, "field declared twice")
		}
		seen[d.decl.Name] = true
		declared = append(declared, d)
	}
	obj.state = FieldsParsed

	// Tags allocated.
	if err := allocateTags(declared); err != nil {
		return nil, err
	}
	obj.state = TagsAllocated

	// Types resolved.
	obj.id = syntheticID()
	fields := make([]Field, 0, len(declared))
	deps := make(map[string]bool)
	for _, d := range declared {
		f, err := s.resolveField(d)
		if err != nil {
			return nil, err
		}
		if f.TypeKey == def.Key() {
			// An object cannot contain itself by value.
			return nil, schema.NewCyclicDependencyError([]string{def.Name})
		}
		if f.TypeKey != "" {
			deps[f.TypeKey] = true
		}
		if f.IsID {
			obj.id = f
			continue
		}
		fields = append(fields, f)
	}
	obj.state = TypesResolved

	// Finalized.
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Tag < fields[j].Tag })
	obj.ordered = fields
	obj.deps = make([]string, 0, len(deps))
	for k := range deps {
		obj.deps = append(obj.deps, k)
	}
	sort.Strings(obj.deps)
	obj.state = Finalized

	s.logger.Debug().
		Str("object", obj.Key()).
		Int("fields", len(fields)).
		Strs("dependencies", obj.deps).
		Msg("object resolved")
	return obj, nil
}
