// Package catalog holds the built-in atomic field types and the wire
// categories every resolved field is classified into.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Category is the wire-level classification of a field.
type Category int

const (
	Signed Category = iota + 1
	Unsigned
	Float
	Bool
	String
	Bytes
	Enum
	Bitmask
	Object
)

var categoryNames = map[Category]string{
	Signed:   "SIGNED",
	Unsigned: "UNSIGNED",
	Float:    "FLOAT",
	Bool:     "BOOL",
	String:   "STRING",
	Bytes:    "BYTES",
	Enum:     "ENUM",
	Bitmask:  "BITMASK",
	Object:   "OBJECT",
}

// String returns the upper case category name used in descriptors.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCategory parses an upper or lower case category name.
func ParseCategory(s string) (Category, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == up {
			return c, true
		}
	}
	return 0, false
}

// IsNumeric reports whether min/max bounds make sense for the category.
func (c Category) IsNumeric() bool {
	switch c {
	case Signed, Unsigned, Float:
		return true
	default:
		return false
	}
}

// Atomic describes one built-in type.
type Atomic struct {
	// Name is the schema spelling (e.g. "u16").
	Name string

	// CType is the storage type the runtime declares for it.
	CType string

	// Category is the wire category.
	Category Category

	// Size is the storage size in bytes.
	Size int

	// Align is the natural alignment in bytes.
	Align int
}

// Storage sizes of runtime types that are not schema types.
const (
	// IDSize is the size of the identifier every object header carries.
	IDSize = 8

	// CountSize is the size of the element counter preceding repeated members
	// and of the length prefix of a bytes array.
	CountSize = 2

	// EnumSize is the storage size of an enum value.
	EnumSize = 4

	// IDTypeName is the schema spelling of the identifier type.
	IDTypeName = "id"
)

var atomics = map[string]Atomic{
	"char":   {Name: "char", CType: "char", Category: Unsigned, Size: 1, Align: 1},
	"bool":   {Name: "bool", CType: "bool", Category: Bool, Size: 1, Align: 1},
	"float":  {Name: "float", CType: "float", Category: Float, Size: 4, Align: 4},
	"double": {Name: "double", CType: "double", Category: Float, Size: 8, Align: 8},
	"i8":     {Name: "i8", CType: "int8_t", Category: Signed, Size: 1, Align: 1},
	"i16":    {Name: "i16", CType: "int16_t", Category: Signed, Size: 2, Align: 2},
	"i32":    {Name: "i32", CType: "int32_t", Category: Signed, Size: 4, Align: 4},
	"i64":    {Name: "i64", CType: "int64_t", Category: Signed, Size: 8, Align: 8},
	"u8":     {Name: "u8", CType: "uint8_t", Category: Unsigned, Size: 1, Align: 1},
	"u16":    {Name: "u16", CType: "uint16_t", Category: Unsigned, Size: 2, Align: 2},
	"u32":    {Name: "u32", CType: "uint32_t", Category: Unsigned, Size: 4, Align: 4},
	"u64":    {Name: "u64", CType: "uint64_t", Category: Unsigned, Size: 8, Align: 8},
	"id":     {Name: "id", CType: "jude_id_t", Category: Unsigned, Size: IDSize, Align: IDSize},
}

// Lookup returns the atomic type for a schema type name.
func Lookup(name string) (Atomic, bool) {
	a, ok := atomics[name]
	return a, ok
}

// Names returns all atomic type names in sorted order.
func Names() []string {
	names := make([]string, 0, len(atomics))
	for name := range atomics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BitmaskSize returns the storage size needed to hold bits [0, highest].
func BitmaskSize(highest int) int {
	switch {
	case highest < 8:
		return 1
	case highest < 16:
		return 2
	case highest < 32:
		return 4
	default:
		return 8
	}
}
