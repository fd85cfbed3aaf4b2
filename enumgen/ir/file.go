package ir

import (
	"fmt"
	"go/constant"
	"go/token"
	"strings"
)

// File is a set of open enums generated into one Go source file.
type File struct {
	// Package is the destination package. Package.Name is required.
	Package PackageInfo

	// Enums are emitted in order.
	Enums []*EnumSpec

	// Warnings contains non-fatal issues encountered while building the file.
	Warnings []Warning

	// Origin names the input the file was built from (a YAML path or a
	// package pattern). It is informational only.
	Origin string
}

// AddEnum appends an enum to the file.
func (f *File) AddEnum(e *EnumSpec) {
	f.Enums = append(f.Enums, e)
}

// AddWarning adds a warning to the file.
func (f *File) AddWarning(w Warning) {
	f.Warnings = append(f.Warnings, w)
}

// FindEnum looks up an enum by declared name. Returns nil if not found.
func (f *File) FindEnum(name string) *EnumSpec {
	for _, e := range f.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Validation error codes.
const (
	CodeMissingPackage     = "missing_package"
	CodeInvalidIdentifier  = "invalid_identifier"
	CodeCannotApply        = "cannot_apply_visibility"
	CodeInvalidRepr        = "invalid_repr"
	CodeInvalidScope       = "invalid_scope"
	CodeInvalidVisibility  = "invalid_visibility"
	CodeInvalidFormat      = "invalid_format"
	CodeInvalidLiteral     = "invalid_literal"
	CodeLiteralOutOfRange  = "literal_out_of_range"
	CodeInvalidExtra       = "invalid_extra"
	CodeDuplicateType      = "duplicate_type"
	WarningShadowedName    = "shadowed_name"
	WarningNoVariantsFound = "no_variants"
)

// ValidationError represents a definition that cannot be generated.
type ValidationError struct {
	Code    string
	Message string
	Source  Source
}

func (e *ValidationError) Error() string {
	if loc := e.Source.String(); loc != "" {
		return loc + ": " + e.Message
	}
	return e.Message
}

// Validate checks the file for definitions the generator must reject.
// Returns all validation errors found (not just the first).
//
// Duplicate values are not an error, and neither are names that collide
// with other declarations in the destination package: the Go compiler reports
// those.
func (f *File) Validate() []error {
	var errs []*ValidationError
	add := func(code string, src Source, format string, args ...any) {
		errs = append(errs, &ValidationError{
			Code:    code,
			Message: fmt.Sprintf(format, args...),
			Source:  src,
		})
	}

	if f.Package.Name == "" {
		add(CodeMissingPackage, Source{}, "package name is required")
	} else if !IsIdentifier(f.Package.Name) {
		add(CodeInvalidIdentifier, Source{}, "invalid package name %q", f.Package.Name)
	}

	typeNames := make(map[string]bool)
	for _, e := range f.Enums {
		if !IsIdentifier(e.Name) {
			add(CodeInvalidIdentifier, e.Source, "invalid type name %q", e.Name)
			continue
		}

		switch e.Visibility {
		case VisibilityAsWritten, VisibilityExported, VisibilityUnexported:
		default:
			add(CodeInvalidVisibility, e.Source, "enum %s: unknown visibility %q (expected %q or %q)",
				e.Name, e.Visibility, VisibilityExported, VisibilityUnexported)
			continue
		}

		typeIdent, err := e.TypeIdent()
		if err != nil {
			add(CodeCannotApply, e.Source, "enum %s: %v", e.Name, err)
			continue
		}
		if typeNames[typeIdent] {
			add(CodeDuplicateType, e.Source, "duplicate type name: %s", typeIdent)
		}
		typeNames[typeIdent] = true

		if !e.Repr.Valid() {
			add(CodeInvalidRepr, e.Source, "enum %s: unsupported repr %s", e.Name, e.Repr)
		}
		switch e.Scope {
		case "", ScopeFlat, ScopeNested:
		default:
			add(CodeInvalidScope, e.Source, "enum %s: unknown scope %q (expected %q or %q)",
				e.Name, e.Scope, ScopeFlat, ScopeNested)
		}
		switch e.Format {
		case "", FormatTable, FormatSwitch:
		default:
			add(CodeInvalidFormat, e.Source, "enum %s: unknown format %q (expected %q or %q)",
				e.Name, e.Format, FormatTable, FormatSwitch)
		}
		for _, extra := range e.Extras {
			if strings.ContainsAny(extra, "\r\n") {
				add(CodeInvalidExtra, e.Source, "enum %s: extra %q spans multiple lines", e.Name, extra)
			}
		}

		for _, v := range e.Variants {
			src := v.Source
			if src.IsZero() {
				src = e.Source
			}
			if !IsIdentifier(v.Name) {
				add(CodeInvalidIdentifier, src, "enum %s: invalid variant name %q", e.Name, v.Name)
				continue
			}
			if _, err := e.ConstIdent(v); err != nil {
				add(CodeCannotApply, src, "enum %s: %v", e.Name, err)
			}
			val, err := v.Value()
			if err != nil {
				add(CodeInvalidLiteral, src, "enum %s: variant %s: %v", e.Name, v.Name, err)
				continue
			}
			if e.Repr.Valid() && !e.Repr.Fits(val) {
				add(CodeLiteralOutOfRange, src, "enum %s: variant %s: value %s overflows %s",
					e.Name, v.Name, val.ExactString(), e.Repr)
			}
		}
	}

	var result []error
	for _, e := range errs {
		result = append(result, e)
	}
	return result
}

// Lint reports non-fatal observations about the file: variants that share a
// value with an earlier variant and therefore never appear in formatted
// output, and enums with no variants at all.
func (f *File) Lint() []Warning {
	var warnings []Warning
	for _, e := range f.Enums {
		if len(e.Variants) == 0 {
			src := e.Source
			warnings = append(warnings, Warning{
				Code:     WarningNoVariantsFound,
				Message:  fmt.Sprintf("enum %s declares no variants; every value formats as %s(n)", e.Name, e.Name),
				Source:   &src,
				TypeName: e.Name,
			})
			continue
		}

		type seen struct {
			name  string
			value constant.Value
		}
		var earlier []seen
		for _, v := range e.Variants {
			val, err := v.Value()
			if err != nil {
				continue
			}
			for _, prev := range earlier {
				if constant.Compare(prev.value, token.EQL, val) {
					src := v.Source
					warnings = append(warnings, Warning{
						Code:     WarningShadowedName,
						Message:  fmt.Sprintf("enum %s: %s has the same value as %s and formats as %s", e.Name, v.Name, prev.name, prev.name),
						Source:   &src,
						TypeName: e.Name,
					})
					break
				}
			}
			earlier = append(earlier, seen{name: v.Name, value: val})
		}
	}
	return warnings
}
