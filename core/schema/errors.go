package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Location identifies where in a schema a problem was found.
type Location struct {
	// Document is the schema file path.
	Document string

	// Line is the 1-based line in Document (0 if unknown).
	Line int

	// Entity is the top-level definition, e.g. "Object Person".
	Entity string

	// Member is the field or database entry name inside Entity.
	Member string
}

// String formats the location as "file:line: Entity: member".
func (l Location) String() string {
	var parts []string
	if l.Document != "" {
		if l.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", l.Document, l.Line))
		} else {
			parts = append(parts, l.Document)
		}
	}
	if l.Entity != "" {
		parts = append(parts, l.Entity)
	}
	if l.Member != "" {
		parts = append(parts, fmt.Sprintf("%q", l.Member))
	}
	return strings.Join(parts, ": ")
}

func prefixed(loc Location, msg string) string {
	if s := loc.String(); s != "" {
		return s + ": " + msg
	}
	return msg
}

// DefinitionSyntaxError reports a malformed declaration: a bad top-level key,
// a non-mapping body, an invalid field name or suffix, a string/bytes type
// without a size, and similar shape problems.
type DefinitionSyntaxError struct {
	Location
	Reason string
}

func (e *DefinitionSyntaxError) Error() string {
	return prefixed(e.Location, e.Reason)
}

// Syntaxf builds a DefinitionSyntaxError.
func Syntaxf(loc Location, format string, args ...any) *DefinitionSyntaxError {
	return &DefinitionSyntaxError{Location: loc, Reason: fmt.Sprintf(format, args...)}
}

// InvalidPermissionError reports an access level outside Public, Admin, Root.
type InvalidPermissionError struct {
	Location
	Verb  Verb
	Value string
}

func (e *InvalidPermissionError) Error() string {
	return prefixed(e.Location, fmt.Sprintf("invalid %s level %q: must be one of %s",
		e.Verb, e.Value, strings.Join(LevelNames(), ", ")))
}

// TagConflictError reports two fields claiming one tag, or a field claiming a
// reserved tag.
type TagConflictError struct {
	Location
	Tag    int
	Fields []string
	Reason string
}

func (e *TagConflictError) Error() string {
	if e.Reason != "" {
		return prefixed(e.Location, fmt.Sprintf("tag %d %s", e.Tag, e.Reason))
	}
	quoted := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		quoted[i] = fmt.Sprintf("%q", f)
	}
	return prefixed(e.Location, fmt.Sprintf("tag %d is claimed by both %s", e.Tag, strings.Join(quoted, " and ")))
}

// UnresolvedTypeError reports a type name that is not atomic, not an enum or
// bitmask, and not a known object (or database, for database entries).
type UnresolvedTypeError struct {
	Location
	Type string
}

func (e *UnresolvedTypeError) Error() string {
	return prefixed(e.Location, fmt.Sprintf("unresolved type %q", e.Type))
}

// CyclicDependencyError reports objects that embed each other.
type CyclicDependencyError struct {
	// Names are the objects left in the graph, sorted.
	Names []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency between objects {%s}", strings.Join(e.Names, ", "))
}

// NewCyclicDependencyError sorts and de-duplicates names.
func NewCyclicDependencyError(names []string) *CyclicDependencyError {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return &CyclicDependencyError{Names: out}
}

// ImportCycleError reports a document that imports itself, directly or
// through other documents.
type ImportCycleError struct {
	// Chain lists the documents from the first repeated one back to itself.
	Chain []string
}

func (e *ImportCycleError) Error() string {
	return fmt.Sprintf("import cycle: %s", strings.Join(e.Chain, " -> "))
}
