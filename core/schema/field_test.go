package schema

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func node(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(src), &n); err != nil {
		t.Fatalf("unmarshal %q: %v", src, err)
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return &n
}

func TestParseFieldBody(t *testing.T) {
	body, err := ParseFieldBody(node(t, "u8"))
	if err != nil {
		t.Fatalf("scalar body: %v", err)
	}
	scalar, ok := body.(ScalarBody)
	if !ok || scalar.Type != "u8" {
		t.Errorf("scalar body = %#v", body)
	}

	body, err = ParseFieldBody(node(t, `{type: "string:16", tag: 7, class: meta, persist: false, alwaysNotify: true, min: 1, max: 9.5, description: hi}`))
	if err != nil {
		t.Fatalf("detailed body: %v", err)
	}
	detailed, ok := body.(DetailedBody)
	if !ok {
		t.Fatalf("detailed body = %#v", body)
	}
	a := detailed.Attrs
	if *a.Type != "string:16" || *a.Tag != 7 || *a.Class != "meta" {
		t.Errorf("type/tag/class = %v/%v/%v", *a.Type, *a.Tag, *a.Class)
	}
	if *a.Persist || !*a.AlwaysNotify {
		t.Errorf("persist/notify = %v/%v", *a.Persist, *a.AlwaysNotify)
	}
	if *a.Min != 1 || *a.Max != 9.5 || *a.Description != "hi" {
		t.Errorf("min/max/description = %v/%v/%v", *a.Min, *a.Max, *a.Description)
	}
}

func TestParseFieldBodyErrors(t *testing.T) {
	for _, src := range []string{"~", "[u8]", "{tag: seven}", "{auth: [Root]}", "{auth: {destroy: Root}}"} {
		if _, err := ParseFieldBody(node(t, src)); err == nil {
			t.Errorf("ParseFieldBody(%q) should fail", src)
		}
	}
}

func TestAuthUnmarshal(t *testing.T) {
	var a Attrs
	if err := node(t, "{auth: Admin}").Decode(&a); err != nil {
		t.Fatal(err)
	}
	for _, v := range Verbs {
		if got, _ := a.Auth.Get(v); got != "Admin" {
			t.Errorf("scalar auth %s = %q, want Admin", v, got)
		}
	}

	a = Attrs{}
	if err := node(t, "{auth: {read: Public, write: Root}}").Decode(&a); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.Auth.Get(VerbWrite); got != "Root" {
		t.Errorf("write = %q", got)
	}
	if _, ok := a.Auth.Get(VerbDelete); ok {
		t.Error("delete should be unset")
	}
}

func TestInherit(t *testing.T) {
	str := func(s string) *string { return &s }
	yes, no := true, false
	tag := 9

	class := Attrs{
		Type:    str("u32"),
		Tag:     &tag,
		Persist: &no,
		Auth:    Auth{VerbRead: "Admin", VerbWrite: "Admin"},
	}
	field := Attrs{
		Persist:      &yes,
		AlwaysNotify: &yes,
		Auth:         Auth{VerbWrite: "Root"},
	}

	got := field.Inherit(class)
	if got.Type == nil || *got.Type != "u32" {
		t.Errorf("type should come from class, got %v", got.Type)
	}
	if got.Tag != nil {
		t.Errorf("tag should never be inherited, got %d", *got.Tag)
	}
	if !*got.Persist {
		t.Error("field persist should override class")
	}
	if r, ok := got.Auth.Get(VerbRead); ok {
		t.Errorf("read = %q, a declared auth should not take verbs from the class", r)
	}
	if w, _ := got.Auth.Get(VerbWrite); w != "Root" {
		t.Errorf("write = %q, want field Root", w)
	}
	if _, ok := got.Auth.Get(VerbCreate); ok {
		t.Error("create should stay unset")
	}

	got = Attrs{}.Inherit(class)
	if r, _ := got.Auth.Get(VerbRead); r != "Admin" {
		t.Errorf("read = %q, want class Admin when the field declares no auth", r)
	}
	got.Auth[VerbRead] = "Root"
	if class.Auth[VerbRead] != "Admin" {
		t.Error("inherited auth should be a copy")
	}
}

func TestParseDeclarator(t *testing.T) {
	tests := []struct {
		in      string
		want    Declarator
		wantErr bool
	}{
		{"name", Declarator{Name: "name"}, false},
		{"tags[4]", Declarator{Name: "tags", Bound: "4"}, false},
		{"people[MaxPeople]", Declarator{Name: "people", Bound: "MaxPeople"}, false},
		{"reset()", Declarator{Name: "reset", Action: true}, false},
		{"x[]", Declarator{}, true},
		{"x(1)", Declarator{}, true},
		{"x[3]()", Declarator{}, true},
		{"x()[3]", Declarator{}, true},
		{"x[3]y", Declarator{}, true},
		{"x]", Declarator{}, true},
		{"9x", Declarator{}, true},
		{"a-b", Declarator{}, true},
		{"", Declarator{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeclarator(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeclarator(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDeclarator(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	for _, name := range LevelNames() {
		l, ok := ParseLevel(name)
		if !ok || l.String() != name {
			t.Errorf("ParseLevel(%q) = %v, %v", name, l, ok)
		}
	}
	for _, bad := range []string{"admin", "Superuser", ""} {
		if _, ok := ParseLevel(bad); ok {
			t.Errorf("ParseLevel(%q) should fail", bad)
		}
	}
	if !(Public < Admin && Admin < Root) {
		t.Error("levels should order Public < Admin < Root")
	}
}
