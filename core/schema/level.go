package schema

import "fmt"

// Level is an access level. Higher levels are more restricted.
type Level int

const (
	Public Level = iota
	Admin
	Root
)

var levelNames = [...]string{Public: "Public", Admin: "Admin", Root: "Root"}

// String returns the level name.
func (l Level) String() string {
	if l >= Public && l <= Root {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLevel parses an exact level name. There is no case folding: "admin" is
// not a level.
func ParseLevel(s string) (Level, bool) {
	for i, name := range levelNames {
		if name == s {
			return Level(i), true
		}
	}
	return 0, false
}

// LevelNames returns the valid level names, least restricted first.
func LevelNames() []string {
	return levelNames[:]
}

// Verb is one permission an auth block can set.
type Verb string

const (
	VerbRead   Verb = "read"
	VerbWrite  Verb = "write"
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// Verbs lists every verb an auth block may name.
var Verbs = []Verb{VerbRead, VerbWrite, VerbCreate, VerbUpdate, VerbDelete}

func isVerb(s string) bool {
	for _, v := range Verbs {
		if string(v) == s {
			return true
		}
	}
	return false
}
