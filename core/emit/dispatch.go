package emit

import (
	"fmt"

	"github.com/artpar/judegen/core/catalog"
)

// Plurality tells single fields from repeated ones.
type Plurality int

const (
	Single Plurality = iota
	Repeated
)

func (p Plurality) String() string {
	if p == Repeated {
		return "repeated"
	}
	return "single"
}

// Template is the accessor family a field is generated with.
type Template int

const (
	Atomic Template = iota + 1
	StringTemplate
	BytesTemplate
	BitmaskTemplate
	Subobject
)

var templateNames = map[Template]string{
	Atomic:          "atomic",
	StringTemplate:  "string",
	BytesTemplate:   "bytes",
	BitmaskTemplate: "bitmask",
	Subobject:       "subobject",
}

func (t Template) String() string {
	if s, ok := templateNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Template(%d)", int(t))
}

// Variant is the descriptor variant of a field: a template and a plurality.
type Variant struct {
	Template  Template
	Plurality Plurality
}

// String returns e.g. "bytes/repeated".
func (v Variant) String() string {
	return v.Template.String() + "/" + v.Plurality.String()
}

// MarshalText encodes the variant as its string form.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// templates maps every category to its template. Enums and all numeric
// categories share the atomic accessors.
var templates = map[catalog.Category]Template{
	catalog.Signed:   Atomic,
	catalog.Unsigned: Atomic,
	catalog.Float:    Atomic,
	catalog.Bool:     Atomic,
	catalog.Enum:     Atomic,
	catalog.String:   StringTemplate,
	catalog.Bytes:    BytesTemplate,
	catalog.Bitmask:  BitmaskTemplate,
	catalog.Object:   Subobject,
}

// Dispatch selects the descriptor variant for a category and plurality.
func Dispatch(c catalog.Category, p Plurality) (Variant, error) {
	t, ok := templates[c]
	if !ok {
		return Variant{}, fmt.Errorf("no descriptor variant for category %v", c)
	}
	if p != Single && p != Repeated {
		return Variant{}, fmt.Errorf("no descriptor variant for plurality %d", int(p))
	}
	return Variant{Template: t, Plurality: p}, nil
}
