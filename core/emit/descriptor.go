package emit

import (
	"github.com/artpar/judegen/core/catalog"
	"github.com/artpar/judegen/core/resolve"
	"github.com/artpar/judegen/core/schema"
)

// Anchor tells what a field's data offset is relative to.
type Anchor string

const (
	// AnchorFirst offsets are relative to the start of the struct.
	AnchorFirst Anchor = "first"

	// AnchorPrevious offsets are relative to the end of the previous member.
	AnchorPrevious Anchor = "previous"
)

// Detail refers to the enum, bitmask or object a field's type names.
type Detail struct {
	Kind string `json:"kind" yaml:"kind"`
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name" yaml:"name"`
}

// FieldDescriptor describes one field of an object.
type FieldDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	Title       string `json:"title" yaml:"title"`
	Plural      string `json:"plural" yaml:"plural"`
	Member      string `json:"member" yaml:"member"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Alias       string `json:"alias,omitempty" yaml:"alias,omitempty"`

	Tag      int              `json:"tag" yaml:"tag"`
	Index    int              `json:"index" yaml:"index"`
	Category catalog.Category `json:"category" yaml:"category"`
	Variant  Variant          `json:"variant" yaml:"variant"`
	TypeName string           `json:"type_name" yaml:"type_name"`

	// Offset is absolute; DataOffset is relative to Anchor.
	Offset     int    `json:"offset" yaml:"offset"`
	DataOffset int    `json:"data_offset" yaml:"data_offset"`
	Anchor     Anchor `json:"anchor" yaml:"anchor"`
	Previous   string `json:"previous,omitempty" yaml:"previous,omitempty"`

	// CountOffset is the offset of the element counter relative to the data
	// member of a repeated field, 0 otherwise.
	CountOffset int `json:"count_offset" yaml:"count_offset"`
	DataSize    int `json:"data_size" yaml:"data_size"`
	ArrayBound  int `json:"array_bound" yaml:"array_bound"`
	MaxSize     int `json:"max_size,omitempty" yaml:"max_size,omitempty"`

	Persist      bool `json:"persist" yaml:"persist"`
	AlwaysNotify bool `json:"always_notify" yaml:"always_notify"`
	IsAction     bool `json:"is_action" yaml:"is_action"`

	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`

	ReadLevel  schema.Level `json:"read_level" yaml:"read_level"`
	WriteLevel schema.Level `json:"write_level" yaml:"write_level"`

	Default any     `json:"default,omitempty" yaml:"default,omitempty"`
	Detail  *Detail `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// ObjectDescriptor describes one object and its storage.
type ObjectDescriptor struct {
	Name       string `json:"name" yaml:"name"`
	StructName string `json:"struct_name" yaml:"struct_name"`
	ClassName  string `json:"class_name" yaml:"class_name"`
	Origin     string `json:"origin" yaml:"origin"`

	Fields          []FieldDescriptor `json:"fields" yaml:"fields"`
	TotalFieldCount int               `json:"total_field_count" yaml:"total_field_count"`
	Header          Header            `json:"header" yaml:"header"`
	StorageSize     int               `json:"storage_size" yaml:"storage_size"`
	Dependencies    []string          `json:"dependencies" yaml:"dependencies"`
}

// EntryDescriptor describes one database entry.
type EntryDescriptor struct {
	Name        string            `json:"name" yaml:"name"`
	Kind        resolve.EntryKind `json:"kind" yaml:"kind"`
	BackingType string            `json:"backing_type" yaml:"backing_type"`
	BackingKey  string            `json:"backing_key" yaml:"backing_key"`
	Bound       int               `json:"bound,omitempty" yaml:"bound,omitempty"`
	Create      schema.Level      `json:"create" yaml:"create"`
	Read        schema.Level      `json:"read" yaml:"read"`
	Update      schema.Level      `json:"update" yaml:"update"`
	Delete      schema.Level      `json:"delete" yaml:"delete"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// DatabaseDescriptor describes a database.
type DatabaseDescriptor struct {
	Name    string            `json:"name" yaml:"name"`
	Origin  string            `json:"origin" yaml:"origin"`
	Entries []EntryDescriptor `json:"entries" yaml:"entries"`
}

// ValueDescriptor is one value of an enum or bitmask.
type ValueDescriptor struct {
	Symbol      string `json:"symbol" yaml:"symbol"`
	Label       string `json:"label" yaml:"label"`
	Value       int64  `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// EnumDescriptor describes an enum or, with StorageSize set, a bitmask.
type EnumDescriptor struct {
	Name        string            `json:"name" yaml:"name"`
	Origin      string            `json:"origin" yaml:"origin"`
	StorageSize int               `json:"storage_size,omitempty" yaml:"storage_size,omitempty"`
	Values      []ValueDescriptor `json:"values" yaml:"values"`
}

// ConstantDescriptor is a named literal.
type ConstantDescriptor struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Bundle is everything emitted for one schema document.
type Bundle struct {
	Schema    string               `json:"schema" yaml:"schema"`
	Imports   []string             `json:"imports" yaml:"imports"`
	Constants []ConstantDescriptor `json:"constants" yaml:"constants"`
	Enums     []EnumDescriptor     `json:"enums" yaml:"enums"`
	Bitmasks  []EnumDescriptor     `json:"bitmasks" yaml:"bitmasks"`
	Objects   []ObjectDescriptor   `json:"objects" yaml:"objects"`
	Databases []DatabaseDescriptor `json:"databases" yaml:"databases"`
}

// Object returns the object descriptor named name.
func (b *Bundle) Object(name string) (ObjectDescriptor, bool) {
	for _, o := range b.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return ObjectDescriptor{}, false
}

// Enum returns the enum descriptor named name.
func (b *Bundle) Enum(name string) (EnumDescriptor, bool) {
	return findEnum(b.Enums, name)
}

// Bitmask returns the bitmask descriptor named name.
func (b *Bundle) Bitmask(name string) (EnumDescriptor, bool) {
	return findEnum(b.Bitmasks, name)
}

// Database returns the database descriptor named name.
func (b *Bundle) Database(name string) (DatabaseDescriptor, bool) {
	for _, d := range b.Databases {
		if d.Name == name {
			return d, true
		}
	}
	return DatabaseDescriptor{}, false
}

func findEnum(list []EnumDescriptor, name string) (EnumDescriptor, bool) {
	for _, e := range list {
		if e.Name == name {
			return e, true
		}
	}
	return EnumDescriptor{}, false
}
