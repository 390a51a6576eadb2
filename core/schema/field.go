package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldBody is the declared body of a field or database entry.
// It is either a ScalarBody or a DetailedBody.
type FieldBody interface {
	isFieldBody()
}

// ScalarBody is a body given as a bare type name: `age: u8`.
type ScalarBody struct {
	Type string
}

// DetailedBody is a body given as an attribute mapping: `age: { type: u8 }`.
type DetailedBody struct {
	Attrs Attrs
}

func (ScalarBody) isFieldBody()   {}
func (DetailedBody) isFieldBody() {}

// AttrsOf returns the attribute record of any body.
func AttrsOf(b FieldBody) Attrs {
	switch body := b.(type) {
	case ScalarBody:
		t := body.Type
		return Attrs{Type: &t}
	case DetailedBody:
		return body.Attrs
	default:
		return Attrs{}
	}
}

// Attrs holds the attributes a field, database entry or class may declare.
// A nil pointer means "not declared here" so that class defaults can apply.
type Attrs struct {
	// Type is the declared type name ("u8", "string:32", "Person").
	Type *string `yaml:"type"`

	// Class names the attribute class to inherit from.
	Class *string `yaml:"class"`

	// Tag is an explicit wire tag. Tags are never inherited from a class.
	Tag *int `yaml:"tag"`

	// Auth sets access levels per verb.
	Auth Auth `yaml:"auth"`

	// Persist marks the field as durable (default true).
	Persist *bool `yaml:"persist"`

	// AlwaysNotify raises a change signal on every set.
	AlwaysNotify *bool `yaml:"alwaysNotify"`

	// Min and Max are optional numeric bounds.
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`

	// Description is carried into descriptors.
	Description *string `yaml:"description"`

	// Alias is an alternative name carried into descriptors.
	Alias *string `yaml:"alias"`

	// Default is an opaque default value carried into descriptors.
	Default any `yaml:"default"`
}

// Inherit returns a copy of a with every undeclared attribute taken from
// class. Tags are not inherited; a declared auth replaces the class auth.
func (a Attrs) Inherit(class Attrs) Attrs {
	out := a
	if out.Type == nil {
		out.Type = class.Type
	}
	if out.Persist == nil {
		out.Persist = class.Persist
	}
	if out.AlwaysNotify == nil {
		out.AlwaysNotify = class.AlwaysNotify
	}
	if out.Min == nil {
		out.Min = class.Min
	}
	if out.Max == nil {
		out.Max = class.Max
	}
	if out.Description == nil {
		out.Description = class.Description
	}
	if out.Alias == nil {
		out.Alias = class.Alias
	}
	if out.Default == nil {
		out.Default = class.Default
	}
	out.Auth = a.Auth.Or(class.Auth)
	return out
}

// Auth maps verbs to raw level names. Values are validated by the resolver so
// that errors carry the owning field.
type Auth map[Verb]string

// UnmarshalYAML accepts a single level for every verb or a verb mapping.
func (a *Auth) UnmarshalYAML(value *yaml.Node) error {
	out := make(Auth)

	switch value.Kind {
	case yaml.ScalarNode:
		for _, v := range Verbs {
			out[v] = value.Value
		}
	case yaml.MappingNode:
		var raw map[string]string
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
		for k, v := range raw {
			if !isVerb(k) {
				return fmt.Errorf("auth: unknown verb %q", k)
			}
			out[Verb(k)] = v
		}
	default:
		return fmt.Errorf("auth must be a level or a mapping of verbs to levels")
	}

	*a = out
	return nil
}

// Or returns a copy of a when it was declared, otherwise a copy of base. A
// declared auth replaces the class auth as a whole: verbs it leaves out
// fall back to the default level, not to the class.
func (a Auth) Or(base Auth) Auth {
	src := a
	if src == nil {
		src = base
	}
	if src == nil {
		return nil
	}
	out := make(Auth, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Get returns the raw level for a verb.
func (a Auth) Get(v Verb) (string, bool) {
	s, ok := a[v]
	return s, ok
}

// ParseFieldBody turns a YAML node into a FieldBody. Scalars become a
// ScalarBody, mappings a DetailedBody; anything else is rejected.
func ParseFieldBody(node *yaml.Node) (FieldBody, error) {
	node = resolveAlias(node)

	switch {
	case node == nil || isNull(node):
		return nil, fmt.Errorf("missing type")
	case node.Kind == yaml.ScalarNode:
		return ScalarBody{Type: node.Value}, nil
	case node.Kind == yaml.MappingNode:
		var attrs Attrs
		if err := node.Decode(&attrs); err != nil {
			return nil, err
		}
		return DetailedBody{Attrs: attrs}, nil
	default:
		return nil, fmt.Errorf("body should be a type name or a mapping of attributes")
	}
}

// ParseAttrs decodes a class body. An empty body yields no attributes.
func ParseAttrs(node *yaml.Node) (Attrs, error) {
	node = resolveAlias(node)
	if node == nil || isNull(node) {
		return Attrs{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return Attrs{}, fmt.Errorf("class definition should be a mapping")
	}
	var attrs Attrs
	if err := node.Decode(&attrs); err != nil {
		return Attrs{}, err
	}
	return attrs, nil
}
