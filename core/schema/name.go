package schema

import (
	"fmt"
	"strings"
)

// Declarator is a parsed field or database entry name.
type Declarator struct {
	// Name is the bare identifier.
	Name string

	// Bound is the raw text between brackets for repeated declarations
	// ("" when singular). It is a number or a Constant name.
	Bound string

	// Action is set for "name()" declarations.
	Action bool
}

// Repeated reports whether the declaration carries an array bound.
func (d Declarator) Repeated() bool {
	return d.Bound != ""
}

// ParseDeclarator parses "name", "name[N]" or "name()".
// At most one suffix is allowed and nothing may follow it.
func ParseDeclarator(text string) (Declarator, error) {
	text = strings.TrimSpace(text)

	open := strings.IndexAny(text, "[(")
	if open < 0 {
		if strings.ContainsAny(text, "])") {
			return Declarator{}, fmt.Errorf("unbalanced suffix in %q", text)
		}
		return checkName(Declarator{Name: text})
	}

	name := strings.TrimSpace(text[:open])
	suffix := text[open:]

	switch suffix[0] {
	case '(':
		if suffix != "()" {
			return Declarator{}, fmt.Errorf("action field %q should be of the form 'name()'", text)
		}
		return checkName(Declarator{Name: name, Action: true})
	default:
		if !strings.HasSuffix(suffix, "]") || strings.Count(suffix, "[") != 1 || strings.Count(suffix, "]") != 1 {
			return Declarator{}, fmt.Errorf("array field %q should be of the form 'name[length]'", text)
		}
		bound := strings.TrimSpace(suffix[1 : len(suffix)-1])
		if bound == "" {
			return Declarator{}, fmt.Errorf("array field %q has an empty length", text)
		}
		if strings.ContainsAny(bound, "()") {
			return Declarator{}, fmt.Errorf("array field %q cannot also be an action", text)
		}
		return checkName(Declarator{Name: name, Bound: bound})
	}
}

func checkName(d Declarator) (Declarator, error) {
	if !IsIdentifier(d.Name) {
		return Declarator{}, fmt.Errorf("%q is not a valid identifier", d.Name)
	}
	return d, nil
}
