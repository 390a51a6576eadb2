// Package convention derives generated identifiers from schema names.
// A Config is immutable once built and is safe to share between sessions.
package convention

import (
	"strings"
	"unicode"
)

// Config holds the naming options of a session.
type Config struct {
	// StructSuffix is appended to object names to form the C struct name.
	StructSuffix string

	// MemberPrefix is prepended to field names to form struct members.
	MemberPrefix string

	// ObjectSuffix is appended to accessor class names.
	ObjectSuffix string

	// Legacy selects capitalised accessor titles and the legacy plural rule.
	Legacy bool
}

// Default returns the standard naming configuration.
func Default() Config {
	return Config{StructSuffix: "_t", MemberPrefix: "m_"}
}

// LegacyConfig returns the configuration older runtimes expect.
func LegacyConfig() Config {
	c := Default()
	c.Legacy = true
	c.ObjectSuffix = "Accessor"
	return c
}

// StructName returns the struct type name of an object.
func (c Config) StructName(object string) string {
	return object + c.StructSuffix
}

// Member returns the struct member name of a field.
func (c Config) Member(field string) string {
	return c.MemberPrefix + field
}

// CountMember returns the member holding the element count of a repeated field.
func (c Config) CountMember(field string) string {
	return c.Member(field) + "_count"
}

// ClassName returns the accessor class name of an object: words split on
// underscores are title-cased and joined, then ObjectSuffix is appended.
func (c Config) ClassName(object string) string {
	var b strings.Builder
	for _, word := range strings.Split(object, "_") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(strings.ToLower(word[1:]))
	}
	return b.String() + c.ObjectSuffix
}

// Title returns the accessor title of a field.
func (c Config) Title(field string) string {
	if c.Legacy && field != "" {
		return strings.ToUpper(field[:1]) + field[1:]
	}
	return field
}

// Plural returns the plural accessor title of a field.
func (c Config) Plural(field string) string {
	if c.Legacy {
		return legacyPlural(c.Title(field))
	}
	return Pluralize(c.Title(field))
}

// Symbol turns an enum or bitmask label into an identifier: dashes become
// underscores and a label not starting with a letter gets a "_" prefix.
func Symbol(label string) string {
	s := strings.ReplaceAll(label, "-", "_")
	if s == "" {
		return "_"
	}
	if r := []rune(s)[0]; !unicode.IsLetter(r) {
		s = "_" + s
	}
	return s
}
