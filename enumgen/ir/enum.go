package ir

import (
	"fmt"
	"go/constant"
	"go/token"
	"strings"
)

// ScopeMode selects where variant constants are declared.
type ScopeMode string

const (
	// ScopeFlat declares each variant as a package-level constant named
	// exactly as the variant, alongside the type.
	ScopeFlat ScopeMode = "flat"

	// ScopeNested declares each variant as <Type>_<variant>, so the constants
	// are reached through the type's name.
	ScopeNested ScopeMode = "nested"
)

// Visibility controls the case of generated identifiers.
type Visibility string

const (
	// VisibilityAsWritten keeps identifiers exactly as declared.
	VisibilityAsWritten Visibility = ""

	// VisibilityExported upper-cases the first rune.
	VisibilityExported Visibility = "exported"

	// VisibilityUnexported lower-cases the first rune.
	VisibilityUnexported Visibility = "unexported"
)

// FormatStyle selects how the String method is emitted.
type FormatStyle string

const (
	// FormatTable emits a name table consulted by openenum.Format.
	FormatTable FormatStyle = "table"

	// FormatSwitch emits a self-contained switch with no runtime import.
	FormatSwitch FormatStyle = "switch"
)

// EnumSpec describes one open enumeration to generate.
type EnumSpec struct {
	// Name is the type identifier as declared, before visibility is applied.
	Name string

	// Repr is the underlying integer type.
	Repr Repr

	// Visibility applies to the type and, in flat scope, to each constant.
	Visibility Visibility

	// Scope selects flat or nested constant naming. Empty means flat.
	Scope ScopeMode

	// Format selects the String method style. Empty means table.
	Format FormatStyle

	// Variants are the declared names in declaration order. Order decides
	// which name formats a value shared by several variants.
	Variants []Variant

	// Extras are comment lines emitted verbatim, prefixed by "//", directly
	// above the type declaration.
	Extras []string

	// Documentation for the type.
	Documentation Documentation

	// Source location of the definition.
	Source Source
}

// Variant is one (name, value) pair.
type Variant struct {
	// Name is the declared name. It is also the formatted text.
	Name string

	// Literal is a Go integer literal, optionally signed.
	Literal string

	// Documentation for the constant.
	Documentation Documentation

	// Source location of the declaration.
	Source Source
}

// Value parses the variant's literal.
func (v Variant) Value() (constant.Value, error) {
	return ParseLiteral(v.Literal)
}

// ScopeMode returns the effective scope, defaulting to flat.
func (e *EnumSpec) ScopeMode() ScopeMode {
	if e.Scope == "" {
		return ScopeFlat
	}
	return e.Scope
}

// FormatStyle returns the effective format style, defaulting to table.
func (e *EnumSpec) FormatStyle() FormatStyle {
	if e.Format == "" {
		return FormatTable
	}
	return e.Format
}

// TypeIdent returns the Go identifier of the generated type.
func (e *EnumSpec) TypeIdent() (string, error) {
	return e.Visibility.Apply(e.Name)
}

// ConstIdent returns the Go identifier of the constant for v.
func (e *EnumSpec) ConstIdent(v Variant) (string, error) {
	typeIdent, err := e.TypeIdent()
	if err != nil {
		return "", err
	}
	if e.ScopeMode() == ScopeNested {
		return typeIdent + "_" + v.Name, nil
	}
	return e.Visibility.Apply(v.Name)
}

// ParseLiteral parses a Go integer literal with an optional leading sign.
// Decimal, 0x, 0o, 0b and legacy leading-zero octal forms are accepted, with
// underscore separators.
func ParseLiteral(lit string) (constant.Value, error) {
	s := strings.TrimSpace(lit)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" || s[0] < '0' || s[0] > '9' {
		return nil, fmt.Errorf("invalid integer literal %q", lit)
	}
	v := constant.MakeFromLiteral(s, token.INT, 0)
	if v.Kind() != constant.Int {
		return nil, fmt.Errorf("invalid integer literal %q", lit)
	}
	if neg {
		v = constant.UnaryOp(token.SUB, v, 0)
	}
	return v, nil
}
