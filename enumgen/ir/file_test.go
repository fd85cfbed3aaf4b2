package ir

import (
	"errors"
	"strings"
	"testing"
)

func elfFile() *File {
	return &File{
		Package: PackageInfo{Name: "elf"},
		Enums: []*EnumSpec{{
			Name: "ElfType",
			Repr: Uint(16),
			Variants: []Variant{
				{Name: "ET_NONE", Literal: "0"},
				{Name: "ET_REL", Literal: "1"},
				{Name: "ET_EXEC", Literal: "2"},
				{Name: "ET_DYN", Literal: "3"},
				{Name: "ET_CORE", Literal: "4"},
			},
		}},
	}
}

func TestFile_FindEnum(t *testing.T) {
	f := elfFile()
	if f.FindEnum("ElfType") == nil {
		t.Error("FindEnum(ElfType) = nil")
	}
	if f.FindEnum("Missing") != nil {
		t.Error("FindEnum(Missing) != nil")
	}

	f.AddEnum(&EnumSpec{Name: "Machine", Repr: Uint(16)})
	if len(f.Enums) != 2 || f.FindEnum("Machine") == nil {
		t.Error("AddEnum did not append")
	}
}

func TestFile_Validate_OK(t *testing.T) {
	if errs := elfFile().Validate(); len(errs) != 0 {
		t.Fatalf("Validate() = %v, want no errors", errs)
	}
}

func TestFile_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(f *File)
		wantCode string
		wantMsg  string
	}{
		{
			name:     "missing package",
			mutate:   func(f *File) { f.Package.Name = "" },
			wantCode: CodeMissingPackage,
		},
		{
			name:     "keyword package",
			mutate:   func(f *File) { f.Package.Name = "type" },
			wantCode: CodeInvalidIdentifier,
		},
		{
			name:     "invalid type name",
			mutate:   func(f *File) { f.Enums[0].Name = "Elf-Type" },
			wantCode: CodeInvalidIdentifier,
			wantMsg:  "invalid type name",
		},
		{
			name:     "invalid repr",
			mutate:   func(f *File) { f.Enums[0].Repr = Repr{Bits: 12} },
			wantCode: CodeInvalidRepr,
		},
		{
			name:     "invalid scope",
			mutate:   func(f *File) { f.Enums[0].Scope = "inner" },
			wantCode: CodeInvalidScope,
		},
		{
			name:     "invalid visibility",
			mutate:   func(f *File) { f.Enums[0].Visibility = "pub" },
			wantCode: CodeInvalidVisibility,
		},
		{
			name:     "invalid format",
			mutate:   func(f *File) { f.Enums[0].Format = "map" },
			wantCode: CodeInvalidFormat,
		},
		{
			name:     "multi-line extra",
			mutate:   func(f *File) { f.Enums[0].Extras = []string{"nolint\nfoo"} },
			wantCode: CodeInvalidExtra,
		},
		{
			name: "out of range literal",
			mutate: func(f *File) {
				f.Enums[0].Variants[2].Literal = "70000"
			},
			wantCode: CodeLiteralOutOfRange,
			wantMsg:  "value 70000 overflows uint16",
		},
		{
			name: "negative literal for unsigned repr",
			mutate: func(f *File) {
				f.Enums[0].Variants[0].Literal = "-1"
			},
			wantCode: CodeLiteralOutOfRange,
		},
		{
			name: "malformed literal",
			mutate: func(f *File) {
				f.Enums[0].Variants[0].Literal = "zero"
			},
			wantCode: CodeInvalidLiteral,
		},
		{
			name: "invalid variant name",
			mutate: func(f *File) {
				f.Enums[0].Variants[0].Name = "ET NONE"
			},
			wantCode: CodeInvalidIdentifier,
			wantMsg:  "invalid variant name",
		},
		{
			name: "variant cannot be exported",
			mutate: func(f *File) {
				f.Enums[0].Visibility = VisibilityExported
				f.Enums[0].Variants[0].Name = "_none"
			},
			wantCode: CodeCannotApply,
		},
		{
			name: "duplicate type",
			mutate: func(f *File) {
				f.AddEnum(&EnumSpec{Name: "ElfType", Repr: Uint(8)})
			},
			wantCode: CodeDuplicateType,
		},
		{
			name: "duplicate type after visibility",
			mutate: func(f *File) {
				f.AddEnum(&EnumSpec{Name: "elfType", Repr: Uint(8), Visibility: VisibilityExported})
			},
			wantCode: CodeDuplicateType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := elfFile()
			tt.mutate(f)
			errs := f.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate() returned no errors")
			}
			var found bool
			for _, err := range errs {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error %v is not a *ValidationError", err)
				}
				if ve.Code == tt.wantCode {
					found = true
					if tt.wantMsg != "" && !strings.Contains(ve.Message, tt.wantMsg) {
						t.Errorf("message = %q, want substring %q", ve.Message, tt.wantMsg)
					}
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want code %s", errs, tt.wantCode)
			}
		})
	}
}

func TestFile_Validate_ReportsAll(t *testing.T) {
	f := elfFile()
	f.Enums[0].Variants[0].Literal = "70000"
	f.Enums[0].Variants[1].Literal = "-5"
	f.Enums[0].Variants[2].Name = "func"

	if errs := f.Validate(); len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
}

func TestFile_Validate_AcceptsDuplicatesAndSparse(t *testing.T) {
	f := &File{
		Package: PackageInfo{Name: "dup"},
		Enums: []*EnumSpec{{
			Name: "Dup",
			Repr: Uint(8),
			Variants: []Variant{
				{Name: "A", Literal: "0"},
				{Name: "B", Literal: "0"},
				{Name: "Far", Literal: "200"},
				{Name: "Near", Literal: "3"},
			},
		}},
	}
	if errs := f.Validate(); len(errs) != 0 {
		t.Fatalf("Validate() = %v, want no errors", errs)
	}
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{Code: CodeInvalidLiteral, Message: "bad", Source: Source{File: "a.go", Line: 3, Column: 1}}
	if got := e.Error(); got != "a.go:3:1: bad" {
		t.Errorf("Error() = %q", got)
	}
	e.Source = Source{}
	if got := e.Error(); got != "bad" {
		t.Errorf("Error() = %q", got)
	}
}

func TestFile_Lint(t *testing.T) {
	f := &File{
		Package: PackageInfo{Name: "dup"},
		Enums: []*EnumSpec{
			{
				Name: "Dup",
				Repr: Uint(8),
				Variants: []Variant{
					{Name: "A", Literal: "0"},
					{Name: "B", Literal: "0x0"},
					{Name: "C", Literal: "1"},
					{Name: "D", Literal: "0"},
				},
			},
			{Name: "Empty", Repr: Int(32)},
		},
	}

	warnings := f.Lint()
	if len(warnings) != 3 {
		t.Fatalf("Lint() returned %d warnings, want 3: %+v", len(warnings), warnings)
	}
	if warnings[0].Code != WarningShadowedName || !strings.Contains(warnings[0].Message, "B has the same value as A") {
		t.Errorf("warnings[0] = %+v", warnings[0])
	}
	if warnings[1].Code != WarningShadowedName || !strings.Contains(warnings[1].Message, "D has the same value as A") {
		t.Errorf("warnings[1] = %+v", warnings[1])
	}
	if warnings[2].Code != WarningNoVariantsFound || warnings[2].TypeName != "Empty" {
		t.Errorf("warnings[2] = %+v", warnings[2])
	}
}
