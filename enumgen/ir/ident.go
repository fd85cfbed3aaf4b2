package ir

import (
	"fmt"
	"go/token"
	"unicode"
	"unicode/utf8"
)

// Apply returns name with the case of its first rune adjusted to v.
// It fails when the identifier cannot carry the requested visibility, such
// as exporting a name that starts with an underscore.
func (v Visibility) Apply(name string) (string, error) {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return "", fmt.Errorf("empty identifier")
	}

	var out string
	switch v {
	case VisibilityAsWritten:
		return name, nil
	case VisibilityExported:
		out = string(unicode.ToUpper(r)) + name[size:]
		if !token.IsExported(out) {
			return "", fmt.Errorf("identifier %q cannot be exported", name)
		}
	case VisibilityUnexported:
		out = string(unicode.ToLower(r)) + name[size:]
		if token.IsExported(out) {
			return "", fmt.Errorf("identifier %q cannot be unexported", name)
		}
	default:
		return "", fmt.Errorf("unknown visibility %q", string(v))
	}
	return out, nil
}

// IsIdentifier reports whether name is a Go identifier that can be declared,
// excluding keywords and the blank identifier.
func IsIdentifier(name string) bool {
	return name != "_" && token.IsIdentifier(name)
}
