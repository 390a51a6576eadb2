// Package emit turns a resolved model into backend-agnostic descriptors.
//
// Objects are emitted in dependency order with the identifier first and the
// remaining fields in tag order. Every field descriptor carries its storage
// offset relative to the previous member, the way the runtime field tables
// expect, together with its permissions and flags.
package emit

import (
	"github.com/artpar/judegen/core/catalog"
	"github.com/artpar/judegen/core/convention"
	"github.com/artpar/judegen/core/order"
	"github.com/artpar/judegen/core/resolve"
)

// Config holds the emission options.
type Config struct {
	Naming      convention.Config
	PointerSize int
}

// DefaultConfig returns the standard emission options.
func DefaultConfig() Config {
	return Config{Naming: convention.Default(), PointerSize: DefaultPointerSize}
}

// Emit builds the descriptor bundle of m. Objects of every document are
// ordered and laid out; only the root document's own objects are emitted.
func Emit(m *resolve.Model, cfg Config) (*Bundle, error) {
	all := make([]*resolve.Object, 0, len(m.AllObjects))
	for _, o := range m.AllObjects {
		all = append(all, o)
	}
	sorted, err := order.Objects(all)
	if err != nil {
		return nil, err
	}

	local := make(map[string]bool, len(m.Objects))
	for _, o := range m.Objects {
		local[o.Key()] = true
	}

	lay := newLayouter(cfg.PointerSize, m)
	b := &Bundle{
		Schema:    m.Schema,
		Imports:   append([]string{}, m.Imports...),
		Constants: []ConstantDescriptor{},
		Enums:     []EnumDescriptor{},
		Bitmasks:  []EnumDescriptor{},
		Objects:   []ObjectDescriptor{},
		Databases: []DatabaseDescriptor{},
	}

	for _, c := range m.Constants {
		b.Constants = append(b.Constants, ConstantDescriptor{Name: c.Name, Value: c.Value})
	}
	for _, e := range m.Enums {
		b.Enums = append(b.Enums, EnumDescriptor{Name: e.Name, Origin: e.Origin, Values: values(e.Values)})
	}
	for _, bm := range m.Bitmasks {
		b.Bitmasks = append(b.Bitmasks, EnumDescriptor{
			Name: bm.Name, Origin: bm.Origin, StorageSize: bm.StorageSize, Values: values(bm.Values),
		})
	}

	for _, o := range sorted {
		sl := lay.layout(o)
		if !local[o.Key()] {
			continue
		}
		od, err := objectDescriptor(o, sl, m, cfg.Naming)
		if err != nil {
			return nil, err
		}
		b.Objects = append(b.Objects, od)
	}

	for _, db := range m.Databases {
		b.Databases = append(b.Databases, databaseDescriptor(db))
	}
	return b, nil
}

func objectDescriptor(o *resolve.Object, sl *structLayout, m *resolve.Model, naming convention.Config) (ObjectDescriptor, error) {
	fields := o.FieldsAndID()
	od := ObjectDescriptor{
		Name:            o.Name,
		StructName:      naming.StructName(o.Name),
		ClassName:       naming.ClassName(o.Name),
		Origin:          o.Origin,
		Fields:          make([]FieldDescriptor, 0, len(fields)),
		TotalFieldCount: len(fields),
		Header:          sl.header,
		StorageSize:     sl.size,
		Dependencies:    o.Dependencies(),
	}

	var prev *resolve.Field
	for i := range fields {
		f := fields[i]
		fd, err := fieldDescriptor(f, i, prev, sl, m, naming)
		if err != nil {
			return ObjectDescriptor{}, err
		}
		od.Fields = append(od.Fields, fd)
		prev = &fields[i]
	}
	return od, nil
}

func fieldDescriptor(f resolve.Field, index int, prev *resolve.Field, sl *structLayout, m *resolve.Model, naming convention.Config) (FieldDescriptor, error) {
	plurality := Single
	if f.Repeated() {
		plurality = Repeated
	}
	variant, err := Dispatch(f.Category, plurality)
	if err != nil {
		return FieldDescriptor{}, err
	}

	mem := sl.members[f.Name]
	fd := FieldDescriptor{
		Name:         f.Name,
		Title:        naming.Title(f.Name),
		Plural:       naming.Plural(f.Name),
		Member:       naming.Member(f.Name),
		Description:  f.Description,
		Alias:        f.Alias,
		Tag:          f.Tag,
		Index:        index,
		Category:     f.Category,
		Variant:      variant,
		TypeName:     f.TypeName,
		Offset:       mem.offset,
		DataSize:     mem.elemSize,
		ArrayBound:   f.Bound,
		MaxSize:      f.MaxSize,
		Persist:      f.Persist,
		AlwaysNotify: f.AlwaysNotify,
		IsAction:     f.IsAction,
		Min:          f.Min,
		Max:          f.Max,
		ReadLevel:    f.Read,
		WriteLevel:   f.Write,
		Default:      f.Default,
		Detail:       detail(f, m),
	}

	if prev == nil {
		fd.Anchor = AnchorFirst
		fd.DataOffset = mem.offset
	} else {
		p := sl.members[prev.Name]
		fd.Anchor = AnchorPrevious
		fd.Previous = naming.Member(prev.Name)
		fd.DataOffset = mem.offset - (p.offset + p.size)
	}
	if f.Repeated() {
		fd.CountOffset = mem.countOffset - mem.offset
	}
	return fd, nil
}

func detail(f resolve.Field, m *resolve.Model) *Detail {
	switch f.Category {
	case catalog.Enum:
		if e, ok := m.AllEnums[f.TypeKey]; ok {
			return &Detail{Kind: "enum", Key: f.TypeKey, Name: e.Name}
		}
	case catalog.Bitmask:
		if b, ok := m.AllBitmasks[f.TypeKey]; ok {
			return &Detail{Kind: "bitmask", Key: f.TypeKey, Name: b.Name}
		}
	case catalog.Object:
		if o, ok := m.AllObjects[f.TypeKey]; ok {
			return &Detail{Kind: "object", Key: f.TypeKey, Name: o.Name}
		}
	}
	return nil
}

func values(vs []resolve.EnumValue) []ValueDescriptor {
	out := make([]ValueDescriptor, len(vs))
	for i, v := range vs {
		out[i] = ValueDescriptor{Symbol: v.Symbol, Label: v.Label, Value: v.Value, Description: v.Description}
	}
	return out
}

func databaseDescriptor(db *resolve.Database) DatabaseDescriptor {
	d := DatabaseDescriptor{Name: db.Name, Origin: db.Origin, Entries: make([]EntryDescriptor, len(db.Entries))}
	for i, e := range db.Entries {
		d.Entries[i] = EntryDescriptor{
			Name:        e.Name,
			Kind:        e.Kind,
			BackingType: e.BackingType,
			BackingKey:  e.BackingKey,
			Bound:       e.Bound,
			Create:      e.Create,
			Read:        e.Read,
			Update:      e.Update,
			Delete:      e.Delete,
			Description: e.Description,
		}
	}
	return d
}
