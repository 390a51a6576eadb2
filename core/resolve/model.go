package resolve

import (
	"github.com/artpar/judegen/core/catalog"
	"github.com/artpar/judegen/core/schema"
)

// IDTag is the tag reserved for the identifier field.
const IDTag = 1000

// IDField is the name of the identifier field.
const IDField = "id"

// Field is a fully resolved object field.
type Field struct {
	Name string

	// Tag is the wire tag, unique within the object.
	Tag int

	Category catalog.Category

	// TypeName is the declared base type without any ":size" suffix.
	TypeName string

	// TypeKey is the origin-qualified key of the enum, bitmask or object the
	// field refers to ("" for atomic, string and bytes fields).
	TypeKey string

	// MaxSize is the declared maximum length of STRING and BYTES fields.
	MaxSize int

	// Bound is the array length of a repeated field, 0 when singular.
	Bound int

	IsID         bool
	IsAction     bool
	Persist      bool
	AlwaysNotify bool

	Read  schema.Level
	Write schema.Level

	Min *float64
	Max *float64

	Description string
	Alias       string
	Default     any

	// Line is the declaration line (0 for the synthesised identifier).
	Line int
}

// Repeated reports whether the field is an array.
func (f Field) Repeated() bool {
	return f.Bound > 0
}

// State is the resolution stage an object has reached.
type State int

const (
	Unresolved State = iota
	FieldsParsed
	TagsAllocated
	TypesResolved
	Finalized
)

var stateNames = [...]string{"unresolved", "fields parsed", "tags allocated", "types resolved", "finalized"}

func (s State) String() string {
	if s >= Unresolved && s <= Finalized {
		return stateNames[s]
	}
	return "unknown"
}

// Object is a resolved object. Once Finalized it is read-only.
type Object struct {
	Name     string
	Origin   string
	Document string
	Line     int

	state   State
	id      Field
	ordered []Field
	deps    []string
}

// Key returns the origin-qualified object name.
func (o *Object) Key() string {
	return o.Origin + "." + o.Name
}

// State returns the stage the object has reached.
func (o *Object) State() State {
	return o.state
}

// ID returns the identifier field.
func (o *Object) ID() Field {
	return o.id
}

// OrderedFields returns the non-identifier fields sorted by tag.
func (o *Object) OrderedFields() []Field {
	return append([]Field(nil), o.ordered...)
}

// FieldsAndID returns the identifier followed by the ordered fields.
func (o *Object) FieldsAndID() []Field {
	out := make([]Field, 0, len(o.ordered)+1)
	out = append(out, o.id)
	return append(out, o.ordered...)
}

// Field returns the field named name, the identifier included.
func (o *Object) Field(name string) (Field, bool) {
	if name == o.id.Name {
		return o.id, true
	}
	for _, f := range o.ordered {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Dependencies returns the sorted keys of the enums, bitmasks and objects the
// fields refer to, excluding the object itself.
func (o *Object) Dependencies() []string {
	return append([]string(nil), o.deps...)
}

// EnumValue is one labelled value of an enum or bitmask.
type EnumValue struct {
	// Label is the label as written; Symbol is its identifier form.
	Label       string
	Symbol      string
	Value       int64
	Description string
}

// Enum is a resolved enum.
type Enum struct {
	Name     string
	Origin   string
	Document string
	Values   []EnumValue
}

// Key returns the origin-qualified enum name.
func (e *Enum) Key() string {
	return e.Origin + "." + e.Name
}

// Bitmask is a resolved bitmask. Values hold bit indexes.
type Bitmask struct {
	Name     string
	Origin   string
	Document string
	Values   []EnumValue

	// StorageSize is 1, 2, 4 or 8 bytes.
	StorageSize int
}

// Key returns the origin-qualified bitmask name.
func (b *Bitmask) Key() string {
	return b.Origin + "." + b.Name
}

// EntryKind classifies a database entry.
type EntryKind int

const (
	Resource EntryKind = iota + 1
	Collection
	SubDatabase
)

func (k EntryKind) String() string {
	switch k {
	case Resource:
		return "resource"
	case Collection:
		return "collection"
	case SubDatabase:
		return "subdatabase"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DatabaseEntry is one resolved slot of a database.
type DatabaseEntry struct {
	Name string
	Kind EntryKind

	// BackingType is the declared object or database name; BackingKey its
	// origin-qualified key.
	BackingType string
	BackingKey  string

	// Bound is the collection size, 0 otherwise.
	Bound int

	Create schema.Level
	Read   schema.Level
	Update schema.Level
	Delete schema.Level

	Description string
	Line        int
}

// Database is a resolved database.
type Database struct {
	Name     string
	Origin   string
	Document string
	Entries  []DatabaseEntry
}

// Key returns the origin-qualified database name.
func (d *Database) Key() string {
	return d.Origin + "." + d.Name
}

// Constant is a named literal.
type Constant struct {
	Name   string
	Origin string
	Value  string
}

// Model is the resolved form of a program.
type Model struct {
	// Schema is the name of the root document.
	Schema string

	// Imports are the root document's import references as written.
	Imports []string

	// Constants, Enums, Bitmasks and Databases are the root document's own
	// definitions in declaration order.
	Constants []Constant
	Enums     []*Enum
	Bitmasks  []*Bitmask
	Databases []*Database

	// Objects lists the root document's own objects in declaration order.
	Objects []*Object

	// AllObjects indexes every resolved object of the program by key,
	// imported ones included.
	AllObjects map[string]*Object

	// AllEnums and AllBitmasks index every resolved enum and bitmask by key.
	AllEnums    map[string]*Enum
	AllBitmasks map[string]*Bitmask
}
