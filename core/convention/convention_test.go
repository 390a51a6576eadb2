package convention

import "testing"

func TestConfigNames(t *testing.T) {
	c := Default()

	if got := c.StructName("Person"); got != "Person_t" {
		t.Errorf("StructName = %q", got)
	}
	if got := c.Member("age"); got != "m_age" {
		t.Errorf("Member = %q", got)
	}
	if got := c.CountMember("tags"); got != "m_tags_count" {
		t.Errorf("CountMember = %q", got)
	}
	if got := c.Title("age"); got != "age" {
		t.Errorf("Title = %q", got)
	}
	if got := c.Plural("address"); got != "addresses" {
		t.Errorf("Plural = %q", got)
	}
}

func TestClassName(t *testing.T) {
	tests := []struct {
		object string
		legacy bool
		want   string
	}{
		{"Person", false, "Person"},
		{"person_record", false, "PersonRecord"},
		{"HTTPThing", false, "Httpthing"},
		{"_private__x", false, "PrivateX"},
		{"Person", true, "PersonAccessor"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := Default()
			if tt.legacy {
				c = LegacyConfig()
			}
			if got := c.ClassName(tt.object); got != tt.want {
				t.Errorf("ClassName(%q) = %q, want %q", tt.object, got, tt.want)
			}
		})
	}
}

func TestLegacy(t *testing.T) {
	c := LegacyConfig()

	if got := c.Title("age"); got != "Age" {
		t.Errorf("Title = %q, want Age", got)
	}
	if got := c.Plural("tags"); got != "Tags" {
		t.Errorf("Plural(tags) = %q, want Tags", got)
	}
	if got := c.Plural("person"); got != "Persons" {
		t.Errorf("Plural(person) = %q, want Persons", got)
	}
	if Default().Legacy {
		t.Error("LegacyConfig should not modify Default")
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		singular string
		plural   string
	}{
		{"", ""},
		{"user", "users"},
		{"box", "boxes"},
		{"buzz", "buzzes"},
		{"match", "matches"},
		{"dish", "dishes"},
		{"bus", "buses"},
		{"category", "categories"},
		{"key", "keys"},
		{"leaf", "leaves"},
		{"knife", "knives"},
		{"person", "people"},
		{"Person", "People"},
		{"status", "statuses"},
		{"index", "indices"},
		{"phone_number", "phone_numbers"},
		{"child_person", "child_people"},
		{"trailing_", "trailing_s"},
		{"y", "ys"},
	}

	for _, tt := range tests {
		t.Run(tt.singular, func(t *testing.T) {
			if got := Pluralize(tt.singular); got != tt.plural {
				t.Errorf("Pluralize(%q) = %q, want %q", tt.singular, got, tt.plural)
			}
		})
	}
}

func TestSymbol(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"active", "active"},
		{"in-progress", "in_progress"},
		{"2fa", "_2fa"},
		{"-x", "__x"},
		{"_hidden", "__hidden"},
		{"", "_"},
	}

	for _, tt := range tests {
		if got := Symbol(tt.label); got != tt.want {
			t.Errorf("Symbol(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}
