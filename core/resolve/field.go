package resolve

import (
	"strconv"
	"strings"

	"github.com/artpar/judegen/core/catalog"
	"github.com/artpar/judegen/core/loader"
	"github.com/artpar/judegen/core/schema"
	"github.com/rs/zerolog"
)

// DefaultClass is the class applied when a body names none.
const DefaultClass = "default"

// scope resolves names against one namespace.
type scope struct {
	ns      *loader.Namespace
	logger  zerolog.Logger
	classes map[string]schema.Attrs
}

func newScope(ns *loader.Namespace, logger zerolog.Logger) *scope {
	return &scope{ns: ns, logger: logger, classes: make(map[string]schema.Attrs)}
}

// class returns the attributes of the class a body names. A missing implicit
// default class is empty; a missing named class is an error.
func (s *scope) class(loc schema.Location, attrs schema.Attrs) (schema.Attrs, error) {
	name, explicit := DefaultClass, false
	if attrs.Class != nil {
		name, explicit = *attrs.Class, true
	}
	if cached, ok := s.classes[name]; ok {
		return cached, nil
	}

	def, ok := s.ns.Lookup(schema.KeywordClass, name)
	if !ok {
		if explicit {
			return schema.Attrs{}, schema.Syntaxf(loc, "unknown class %q", name)
		}
		return schema.Attrs{}, nil
	}

	class, err := schema.ParseAttrs(def.Body)
	if err != nil {
		return schema.Attrs{}, &schema.DefinitionSyntaxError{Location: def.Location(), Reason: err.Error()}
	}
	s.classes[name] = class
	return class, nil
}

// positive parses a count that is either a literal or the name of a Constant.
func (s *scope) positive(loc schema.Location, text, what string) (int, error) {
	text = strings.TrimSpace(text)
	literal := text

	if schema.IsIdentifier(text) {
		def, ok := s.ns.Lookup(schema.KeywordConstant, text)
		if !ok {
			return 0, schema.Syntaxf(loc, "%s %q is neither a number nor a known constant", what, text)
		}
		literal = def.Body.Value
	}

	n, err := strconv.ParseInt(literal, 0, 32)
	if err != nil || n <= 0 {
		return 0, schema.Syntaxf(loc, "%s %q should be a number > 0", what, text)
	}
	return int(n), nil
}

// typeRef is a resolved type name.
type typeRef struct {
	category catalog.Category
	base     string
	key      string
	maxSize  int
}

// resolveType classifies a declared type: sized string/bytes first, then the
// atomic catalog, enums, bitmasks and finally objects.
func (s *scope) resolveType(loc schema.Location, declared string) (typeRef, error) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return typeRef{}, schema.Syntaxf(loc, "missing type")
	}

	base, size, sized := strings.Cut(declared, ":")
	base = strings.TrimSpace(base)

	switch base {
	case "string", "bytes":
		if !sized {
			return typeRef{}, schema.Syntaxf(loc, "type %q should be of the form '%s:n' where n is a number > 0", declared, base)
		}
		n, err := s.positive(loc, size, base+" size")
		if err != nil {
			return typeRef{}, err
		}
		cat := catalog.String
		if base == "bytes" {
			cat = catalog.Bytes
		}
		return typeRef{category: cat, base: base, maxSize: n}, nil
	}
	if sized {
		return typeRef{}, schema.Syntaxf(loc, "type %q: only string and bytes take a size", declared)
	}

	if a, ok := catalog.Lookup(base); ok {
		return typeRef{category: a.Category, base: base}, nil
	}
	if def, ok := s.ns.Lookup(schema.KeywordEnum, base); ok {
		return typeRef{category: catalog.Enum, base: base, key: def.Key()}, nil
	}
	if def, ok := s.ns.Lookup(schema.KeywordBitmask, base); ok {
		return typeRef{category: catalog.Bitmask, base: base, key: def.Key()}, nil
	}
	if def, ok := s.ns.Lookup(schema.KeywordObject, base); ok {
		return typeRef{category: catalog.Object, base: base, key: def.Key()}, nil
	}
	return typeRef{}, &schema.UnresolvedTypeError{Location: loc, Type: base}
}

// checkAuth rejects any level that is not Public, Admin or Root.
func checkAuth(loc schema.Location, auth schema.Auth) error {
	for _, v := range schema.Verbs {
		raw, ok := auth.Get(v)
		if !ok {
			continue
		}
		if _, valid := schema.ParseLevel(raw); !valid {
			return &schema.InvalidPermissionError{Location: loc, Verb: v, Value: raw}
		}
	}
	return nil
}

// level returns the level auth sets for v, or fallback.
func level(auth schema.Auth, v schema.Verb, fallback schema.Level) schema.Level {
	raw, ok := auth.Get(v)
	if !ok {
		return fallback
	}
	l, _ := schema.ParseLevel(raw)
	return l
}

// declaredField is a field after parsing, before tags and types.
type declaredField struct {
	decl  schema.Declarator
	attrs schema.Attrs
	loc   schema.Location
	tag   int
}

// parseField parses one field declaration and merges its class.
func (s *scope) parseField(entity schema.Location, pair schema.Pair) (*declaredField, error) {
	loc := entity
	loc.Line = pair.Key.Line
	loc.Member = pair.Key.Value

	decl, err := schema.ParseDeclarator(pair.Key.Value)
	if err != nil {
		return nil, &schema.DefinitionSyntaxError{Location: loc, Reason: err.Error()}
	}
	loc.Member = decl.Name

	body, err := schema.ParseFieldBody(pair.Value)
	if err != nil {
		return nil, &schema.DefinitionSyntaxError{Location: loc, Reason: err.Error()}
	}
	own := schema.AttrsOf(body)

	class, err := s.class(loc, own)
	if err != nil {
		return nil, err
	}
	merged := own.Inherit(class)

	if decl.Name == IDField {
		if decl.Repeated() || decl.Action {
			return nil, schema.Syntaxf(loc, "identifier field cannot be repeated or an action")
		}
		if merged.Type == nil {
			t := catalog.IDTypeName
			merged.Type = &t
		}
		if *merged.Type != catalog.IDTypeName {
			return nil, schema.Syntaxf(loc, "identifier field must have type %q, not %q", catalog.IDTypeName, *merged.Type)
		}
	}
	if merged.Type == nil {
		return nil, schema.Syntaxf(loc, "missing type")
	}

	return &declaredField{decl: decl, attrs: merged, loc: loc}, nil
}

// resolveField computes the final field from a tagged declaration.
func (s *scope) resolveField(d *declaredField) (Field, error) {
	ref, err := s.resolveType(d.loc, *d.attrs.Type)
	if err != nil {
		return Field{}, err
	}
	if err := checkAuth(d.loc, d.attrs.Auth); err != nil {
		return Field{}, err
	}

	f := Field{
		Name:         d.decl.Name,
		Tag:          d.tag,
		Category:     ref.category,
		TypeName:     ref.base,
		TypeKey:      ref.key,
		MaxSize:      ref.maxSize,
		IsID:         d.decl.Name == IDField,
		IsAction:     d.decl.Action,
		Persist:      true,
		AlwaysNotify: false,
		Read:         level(d.attrs.Auth, schema.VerbRead, schema.Public),
		Write:        level(d.attrs.Auth, schema.VerbWrite, schema.Public),
		Min:          d.attrs.Min,
		Max:          d.attrs.Max,
		Default:      d.attrs.Default,
		Line:         d.loc.Line,
	}
	if d.attrs.Persist != nil {
		f.Persist = *d.attrs.Persist
	}
	if d.attrs.AlwaysNotify != nil {
		f.AlwaysNotify = *d.attrs.AlwaysNotify
	}
	if d.attrs.Description != nil {
		f.Description = *d.attrs.Description
	}
	if d.attrs.Alias != nil {
		f.Alias = *d.attrs.Alias
	}

	if d.decl.Repeated() {
		f.Bound, err = s.positive(d.loc, d.decl.Bound, "array length")
		if err != nil {
			return Field{}, err
		}
	}

	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return Field{}, schema.Syntaxf(d.loc, "min %v is greater than max %v", *f.Min, *f.Max)
	}

	if f.IsAction {
		f.Read = schema.Root
		f.Persist = false
		f.AlwaysNotify = true
	}
	if f.IsID {
		f.Write = schema.Root
	}
	return f, nil
}

// syntheticID is the identifier field of an object that declares none.
func syntheticID() Field {
	return Field{
		Name:     IDField,
		Tag:      IDTag,
		Category: catalog.Unsigned,
		TypeName: catalog.IDTypeName,
		IsID:     true,
		Persist:  false,
		Read:     schema.Root,
		Write:    schema.Root,
	}
}
