package emit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/artpar/judegen/adapters/source"
	"github.com/artpar/judegen/core/catalog"
	"github.com/artpar/judegen/core/convention"
	"github.com/artpar/judegen/core/emit"
	"github.com/artpar/judegen/core/loader"
	"github.com/artpar/judegen/core/resolve"
	"github.com/artpar/judegen/core/schema"
	"github.com/rs/zerolog"
)

func bundle(t *testing.T, docs map[string]string, cfg emit.Config) (*emit.Bundle, error) {
	t.Helper()
	prog, err := loader.New(source.NewMemory(docs), zerolog.Nop()).Load(context.Background(), "root.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	m, err := resolve.Resolve(prog, resolve.Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return emit.Emit(m, cfg)
}

func mustBundle(t *testing.T, src string) *emit.Bundle {
	t.Helper()
	b, err := bundle(t, map[string]string{"root.yaml": src}, emit.DefaultConfig())
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	return b
}

func TestEmit_PersonLayout(t *testing.T) {
	b := mustBundle(t, `
Enum Status: {active: 1}
Object Person:
  name: string:32
  age: {type: u8, min: 0, max: 150, description: years}
  status: Status
`)

	p, ok := b.Object("Person")
	if !ok {
		t.Fatal("Person not emitted")
	}
	if p.StructName != "Person_t" || p.ClassName != "Person" || p.Origin != "root" {
		t.Errorf("names = %s/%s/%s", p.StructName, p.ClassName, p.Origin)
	}
	if p.TotalFieldCount != 4 || len(p.Fields) != 4 {
		t.Fatalf("field count = %d/%d", p.TotalFieldCount, len(p.Fields))
	}
	want := emit.Header{RTTIOffset: 0, ParentOffset: 8, ChildIndexOffset: 10, IDOffset: 16, MaskOffset: 24, MaskSize: 1}
	if p.Header != want {
		t.Errorf("Header = %+v, want %+v", p.Header, want)
	}
	if p.StorageSize != 64 {
		t.Errorf("StorageSize = %d, want 64", p.StorageSize)
	}

	tests := []struct {
		name       string
		tag        int
		offset     int
		dataOffset int
		anchor     emit.Anchor
		previous   string
		dataSize   int
		variant    string
	}{
		{"id", 1000, 16, 16, emit.AnchorFirst, "", 8, "atomic/single"},
		{"name", 2, 25, 1, emit.AnchorPrevious, "m_id", 32, "string/single"},
		{"age", 3, 57, 0, emit.AnchorPrevious, "m_name", 1, "atomic/single"},
		{"status", 4, 60, 2, emit.AnchorPrevious, "m_age", 4, "atomic/single"},
	}
	for i, tt := range tests {
		f := p.Fields[i]
		if f.Name != tt.name || f.Tag != tt.tag || f.Index != i {
			t.Errorf("field %d = %s tag %d index %d", i, f.Name, f.Tag, f.Index)
		}
		if f.Offset != tt.offset || f.DataOffset != tt.dataOffset || f.Anchor != tt.anchor || f.Previous != tt.previous {
			t.Errorf("%s offset %d/%d %s %q, want %d/%d %s %q", f.Name,
				f.Offset, f.DataOffset, f.Anchor, f.Previous, tt.offset, tt.dataOffset, tt.anchor, tt.previous)
		}
		if f.DataSize != tt.dataSize || f.Variant.String() != tt.variant {
			t.Errorf("%s size %d variant %s, want %d %s", f.Name, f.DataSize, f.Variant, tt.dataSize, tt.variant)
		}
	}

	id := p.Fields[0]
	if id.WriteLevel != schema.Root || id.Persist {
		t.Errorf("id = %+v", id)
	}
	age := p.Fields[2]
	if age.Min == nil || *age.Min != 0 || *age.Max != 150 || age.Description != "years" {
		t.Errorf("age bounds = %v/%v %q", age.Min, age.Max, age.Description)
	}
	status := p.Fields[3]
	if status.Detail == nil || status.Detail.Kind != "enum" || status.Detail.Key != "root.Status" {
		t.Errorf("status detail = %+v", status.Detail)
	}
	if status.Category != catalog.Enum {
		t.Errorf("status category = %v", status.Category)
	}
	if len(p.Dependencies) != 1 || p.Dependencies[0] != "root.Status" {
		t.Errorf("Dependencies = %v", p.Dependencies)
	}
}

func TestEmit_RepeatedAndBytes(t *testing.T) {
	b := mustBundle(t, `
Bitmask Flags: {a: 0, z: 12}
Object T:
  tags[3]: u16
  blob: bytes:5
  flags: Flags
  names[2]: string:4
`)

	o, _ := b.Object("T")
	byName := make(map[string]emit.FieldDescriptor)
	for _, f := range o.Fields {
		byName[f.Name] = f
	}

	// header: id 16..24, mask (5 fields) 2 bytes 24..26
	tags := byName["tags"]
	if tags.Offset != 28 || tags.CountOffset != -2 || tags.DataSize != 2 || tags.ArrayBound != 3 {
		t.Errorf("tags = offset %d count %d size %d bound %d", tags.Offset, tags.CountOffset, tags.DataSize, tags.ArrayBound)
	}
	if tags.Variant.String() != "atomic/repeated" {
		t.Errorf("tags variant = %s", tags.Variant)
	}
	blob := byName["blob"]
	if blob.Offset != 34 || blob.DataSize != 8 || blob.MaxSize != 5 || blob.Variant.String() != "bytes/single" {
		t.Errorf("blob = offset %d size %d max %d %s", blob.Offset, blob.DataSize, blob.MaxSize, blob.Variant)
	}
	flags := byName["flags"]
	if flags.Offset != 42 || flags.DataSize != 2 || flags.Variant.String() != "bitmask/single" {
		t.Errorf("flags = offset %d size %d %s", flags.Offset, flags.DataSize, flags.Variant)
	}
	names := byName["names"]
	if names.Offset != 46 || names.CountOffset != -2 || names.DataSize != 4 || names.Variant.String() != "string/repeated" {
		t.Errorf("names = offset %d count %d size %d %s", names.Offset, names.CountOffset, names.DataSize, names.Variant)
	}
	if o.StorageSize != 56 {
		t.Errorf("StorageSize = %d, want 56", o.StorageSize)
	}
	if len(b.Bitmasks) != 1 || b.Bitmasks[0].StorageSize != 2 {
		t.Errorf("bitmasks = %+v", b.Bitmasks)
	}
}

func TestEmit_EmbeddedObjects(t *testing.T) {
	b := mustBundle(t, `
Object Outer:
  inner: Inner
Object Inner:
  x: u8
`)

	if len(b.Objects) != 2 || b.Objects[0].Name != "Inner" || b.Objects[1].Name != "Outer" {
		t.Fatalf("objects should be in dependency order")
	}
	inner, outer := b.Objects[0], b.Objects[1]
	if inner.StorageSize != 32 {
		t.Errorf("Inner size = %d, want 32", inner.StorageSize)
	}
	f := outer.Fields[1]
	if f.Offset != 32 || f.DataSize != 32 || f.Variant.String() != "subobject/single" {
		t.Errorf("inner member = offset %d size %d %s", f.Offset, f.DataSize, f.Variant)
	}
	if f.Detail == nil || f.Detail.Kind != "object" || f.Detail.Name != "Inner" {
		t.Errorf("detail = %+v", f.Detail)
	}
	if outer.StorageSize != 64 {
		t.Errorf("Outer size = %d, want 64", outer.StorageSize)
	}
}

func TestEmit_ImportedObjectsLaidOutNotEmitted(t *testing.T) {
	b, err := bundle(t, map[string]string{
		"root.yaml": "Import: lib.yaml\nObject Holder:\n  p: Point\n",
		"lib.yaml":  "Object Point:\n  x: i32\n  y: i32\n",
	}, emit.DefaultConfig())
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	if len(b.Objects) != 1 || b.Objects[0].Name != "Holder" {
		t.Fatalf("only local objects should be emitted, got %d", len(b.Objects))
	}
	// Point: mask 1 byte at 24, x at 28, y at 32, size 40.
	p := b.Objects[0].Fields[1]
	if p.DataSize != 40 || p.Detail.Key != "lib.Point" {
		t.Errorf("p = size %d detail %+v", p.DataSize, p.Detail)
	}
	if len(b.Imports) != 1 || b.Imports[0] != "lib.yaml" {
		t.Errorf("Imports = %v", b.Imports)
	}
}

func TestEmit_Cycle(t *testing.T) {
	_, err := bundle(t, map[string]string{"root.yaml": "Object A:\n  b: B\nObject B:\n  a: A\n"}, emit.DefaultConfig())

	var cyc *schema.CyclicDependencyError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CyclicDependencyError, got %v", err)
	}
}

func TestEmit_PointerSize(t *testing.T) {
	cfg := emit.DefaultConfig()
	cfg.PointerSize = 4
	b, err := bundle(t, map[string]string{"root.yaml": "Object A:\n  x: u8\n"}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	h := b.Objects[0].Header
	if h.ParentOffset != 4 || h.ChildIndexOffset != 6 || h.IDOffset != 8 || h.MaskOffset != 16 {
		t.Errorf("Header = %+v", h)
	}
	if b.Objects[0].StorageSize != 24 {
		t.Errorf("StorageSize = %d, want 24", b.Objects[0].StorageSize)
	}
}

func TestEmit_LegacyNaming(t *testing.T) {
	cfg := emit.DefaultConfig()
	cfg.Naming = convention.LegacyConfig()
	b, err := bundle(t, map[string]string{"root.yaml": "Object device_info:\n  serial: u32\n"}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	o := b.Objects[0]
	if o.ClassName != "DeviceInfoAccessor" || o.StructName != "device_info_t" {
		t.Errorf("names = %s/%s", o.ClassName, o.StructName)
	}
	f := o.Fields[1]
	if f.Title != "Serial" || f.Plural != "Serials" || f.Member != "m_serial" {
		t.Errorf("field names = %s/%s/%s", f.Title, f.Plural, f.Member)
	}
}

func TestEmit_DatabasesAndEnums(t *testing.T) {
	b := mustBundle(t, `
Constant Max: 100
Enum Mode: {on: 1, off-line: {value: 2, description: not connected}}
Object Person: {}
Database Main:
  people[Max]: Person
  me: {type: Person, auth: Admin, description: current user}
`)

	if len(b.Constants) != 1 || b.Constants[0].Name != "Max" || b.Constants[0].Value != "100" {
		t.Errorf("Constants = %+v", b.Constants)
	}
	mode, ok := b.Enum("Mode")
	if !ok || len(mode.Values) != 2 || mode.Values[1].Symbol != "off_line" || mode.StorageSize != 0 {
		t.Errorf("Mode = %+v", mode)
	}
	db, ok := b.Database("Main")
	if !ok || len(db.Entries) != 2 {
		t.Fatalf("Main = %+v", db)
	}
	people := db.Entries[0]
	if people.Kind != resolve.Collection || people.Bound != 100 || people.BackingType != "Person" {
		t.Errorf("people = %+v", people)
	}
	me := db.Entries[1]
	if me.Kind != resolve.Resource || me.Create != schema.Admin || me.Description != "current user" {
		t.Errorf("me = %+v", me)
	}

	empty, _ := b.Object("Person")
	if empty.TotalFieldCount != 1 || empty.StorageSize != 32 {
		t.Errorf("empty object = %d fields size %d", empty.TotalFieldCount, empty.StorageSize)
	}
}
