package resolve

import (
	"github.com/artpar/judegen/core/loader"
	"github.com/artpar/judegen/core/schema"
)

// resolveDatabase resolves every entry of a database in declaration order.
func (s *scope) resolveDatabase(def loader.Def) (*Database, error) {
	entity := def.Location()
	pairs, ok := schema.Pairs(def.Body)
	if !ok {
		return nil, schema.Syntaxf(entity, "database body should be a mapping of entries")
	}

	db := &Database{Name: def.Name, Origin: def.Origin, Document: def.Document}
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		entry, err := s.resolveEntry(def, entity, p)
		if err != nil {
			return nil, err
		}
		if seen[entry.Name] {
			loc := entity
			loc.Line, loc.Member = p.Key.Line, entry.Name
			return nil, schema.Syntaxf(loc, "entry declared twice")
		}
		seen[entry.Name] = true
		db.Entries = append(db.Entries, entry)
	}

	s.logger.Debug().
		Str("database", db.Key()).
		Int("entries", len(db.Entries)).
		Msg("database resolved")
	return db, nil
}

func (s *scope) resolveEntry(def loader.Def, entity schema.Location, p schema.Pair) (DatabaseEntry, error) {
	loc := entity
	loc.Line = p.Key.Line
	loc.Member = p.Key.Value

	decl, err := schema.ParseDeclarator(p.Key.Value)
	if err != nil {
		return DatabaseEntry{}, &schema.DefinitionSyntaxError{Location: loc, Reason: err.Error()}
	}
	loc.Member = decl.Name
	if decl.Action {
		return DatabaseEntry{}, schema.Syntaxf(loc, "database entries cannot be actions")
	}

	body, err := schema.ParseFieldBody(p.Value)
	if err != nil {
		return DatabaseEntry{}, &schema.DefinitionSyntaxError{Location: loc, Reason: err.Error()}
	}
	own := schema.AttrsOf(body)
	class, err := s.class(loc, own)
	if err != nil {
		return DatabaseEntry{}, err
	}
	attrs := own.Inherit(class)
	if attrs.Type == nil || *attrs.Type == "" {
		return DatabaseEntry{}, schema.Syntaxf(loc, "missing type")
	}
	if err := checkAuth(loc, attrs.Auth); err != nil {
		return DatabaseEntry{}, err
	}

	read := level(attrs.Auth, schema.VerbRead, schema.Public)
	entry := DatabaseEntry{
		Name:        decl.Name,
		BackingType: *attrs.Type,
		Read:        read,
		Create:      level(attrs.Auth, schema.VerbCreate, read),
		Update:      level(attrs.Auth, schema.VerbUpdate, read),
		Delete:      level(attrs.Auth, schema.VerbDelete, read),
		Line:        p.Key.Line,
	}
	if attrs.Description != nil {
		entry.Description = *attrs.Description
	}

	if sub, ok := s.ns.Lookup(schema.KeywordDatabase, entry.BackingType); ok {
		if sub.Key() == def.Key() {
			return DatabaseEntry{}, schema.Syntaxf(loc, "database cannot contain itself")
		}
		if decl.Repeated() {
			return DatabaseEntry{}, schema.Syntaxf(loc, "sub-database entries cannot have a bound")
		}
		entry.Kind = SubDatabase
		entry.BackingKey = sub.Key()
		return entry, nil
	}

	obj, ok := s.ns.Lookup(schema.KeywordObject, entry.BackingType)
	if !ok {
		return DatabaseEntry{}, &schema.UnresolvedTypeError{Location: loc, Type: entry.BackingType}
	}
	entry.BackingKey = obj.Key()
	entry.Kind = Resource
	if decl.Repeated() {
		entry.Kind = Collection
		if entry.Bound, err = s.positive(loc, decl.Bound, "collection size"); err != nil {
			return DatabaseEntry{}, err
		}
	}
	return entry, nil
}
