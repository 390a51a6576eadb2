package schema

import (
	"fmt"
	"strings"
)

// Keyword is the definition kind of a top-level document key.
type Keyword string

const (
	KeywordImport   Keyword = "Import"
	KeywordConstant Keyword = "Constant"
	KeywordClass    Keyword = "Class"
	KeywordEnum     Keyword = "Enum"
	KeywordBitmask  Keyword = "Bitmask"
	KeywordObject   Keyword = "Object"
	KeywordDatabase Keyword = "Database"
)

// Keywords lists the recognised keywords in documentation order.
var Keywords = []Keyword{
	KeywordImport, KeywordConstant, KeywordClass, KeywordEnum,
	KeywordBitmask, KeywordObject, KeywordDatabase,
}

func isKeyword(s string) bool {
	for _, k := range Keywords {
		if string(k) == s {
			return true
		}
	}
	return false
}

// ParseKey splits a top-level key of the form "<Keyword> <Name>".
// A bare "Import" key is accepted and named "Import".
func ParseKey(key string) (Keyword, string, error) {
	parts := strings.Fields(key)

	switch {
	case len(parts) == 1 && parts[0] == string(KeywordImport):
		return KeywordImport, string(KeywordImport), nil
	case len(parts) != 2:
		return "", "", fmt.Errorf("expected \"<Keyword> <Name>\" with Keyword one of %s", keywordList())
	case !isKeyword(parts[0]):
		return "", "", fmt.Errorf("unknown keyword %q: expected one of %s", parts[0], keywordList())
	}

	kw, name := Keyword(parts[0]), parts[1]
	if kw != KeywordImport && !IsIdentifier(name) {
		return "", "", fmt.Errorf("%s name %q is not a valid identifier", kw, name)
	}
	return kw, name, nil
}

func keywordList() string {
	names := make([]string, len(Keywords))
	for i, k := range Keywords {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// IsIdentifier reports whether s is a bare identifier: a letter or underscore
// followed by letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		if i == 0 {
			if !isLetter(c) && c != '_' {
				return false
			}
		} else {
			if !isLetter(c) && !isDigit(c) && c != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
