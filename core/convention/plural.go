package convention

import "strings"

// Pluralize returns the English plural of an identifier. Only the part after
// the last underscore is inflected, so "phone_number" becomes "phone_numbers".
func Pluralize(word string) string {
	if word == "" {
		return ""
	}
	if i := strings.LastIndexByte(word, '_'); i >= 0 && i < len(word)-1 {
		return word[:i+1] + Pluralize(word[i+1:])
	}

	lower := strings.ToLower(word)
	if plural, ok := irregularPlurals[lower]; ok {
		if isUpper(word[0]) {
			return strings.ToUpper(plural[:1]) + plural[1:]
		}
		return plural
	}

	switch {
	case strings.HasSuffix(lower, "s"),
		strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(word) > 1 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "fe"):
		return word[:len(word)-2] + "ves"
	case strings.HasSuffix(lower, "f"):
		return word[:len(word)-1] + "ves"
	}
	return word + "s"
}

// legacyPlural appends "s" unless the word already ends in one.
func legacyPlural(word string) string {
	if strings.HasSuffix(word, "s") {
		return word
	}
	return word + "s"
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

var irregularPlurals = map[string]string{
	"person": "people",
	"man":    "men",
	"woman":  "women",
	"child":  "children",
	"mouse":  "mice",
	"index":  "indices",
	"matrix": "matrices",
	"vertex": "vertices",
	"datum":  "data",
	"medium": "media",
	"schema": "schemas",
	"status": "statuses",
}
