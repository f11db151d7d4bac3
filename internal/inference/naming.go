package inference

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// fieldName converts a JSON key into a valid Python identifier. Keys that
// already qualify pass through untouched; anything else is snake_cased and
// scrubbed, with a prefix when the result would start with a digit.
func fieldName(key string) string {
	if isPythonIdentifier(key) {
		return key
	}
	var b strings.Builder
	for _, r := range strcase.ToSnake(key) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	name := b.String()
	if r, _ := utf8.DecodeRuneInString(name); name == "" || unicode.IsDigit(r) {
		name = "field_" + name
	}
	return name
}

func isPythonIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return s != ""
}

// singularize attempts to convert a plural name to a singular one, so a list
// field called "addresses" produces an element structure called "Address".
// This is a basic implementation and might need a more robust library for
// complex cases.
var knownSingulars = map[string]string{
	"series":    "series",
	"status":    "status",
	"analysis":  "analysis",
	"species":   "species",
	"news":      "news",
	"children":  "child",
	"people":    "person",
	"men":       "man",
	"women":     "woman",
	"data":      "data",
	"media":     "media",
	"addresses": "address",
}

func singularize(plural string) string {
	if singular, ok := knownSingulars[strings.ToLower(plural)]; ok {
		if len(plural) > 0 && strings.ToUpper(string(plural[0])) == string(plural[0]) && len(singular) > 0 {
			return strings.ToUpper(string(singular[0])) + singular[1:]
		}
		return singular
	}

	lowerPlural := strings.ToLower(plural)

	if strings.HasSuffix(lowerPlural, "ies") && len(lowerPlural) > 3 {
		return plural[:len(plural)-3] + "y"
	}

	// Avoid trimming 's' from words like 'bus', 'class', 'status'
	if strings.HasSuffix(lowerPlural, "ss") ||
		strings.HasSuffix(lowerPlural, "us") ||
		strings.HasSuffix(lowerPlural, "is") {
		return plural
	}

	if strings.HasSuffix(lowerPlural, "s") && len(lowerPlural) > 1 {
		return plural[:len(plural)-1]
	}

	return plural
}
