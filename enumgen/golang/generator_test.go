package golang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/broady/openenum/enumgen/ir"
	"github.com/broady/openenum/enumgen/sink"
)

func TestGoGenerator_Generate(t *testing.T) {
	mem := sink.NewMemorySink()
	dup := &ir.EnumSpec{
		Name:     "Dup",
		Repr:     ir.Uint(8),
		Variants: []ir.Variant{{Name: "A", Literal: "0"}, {Name: "B", Literal: "0"}},
	}
	f := fileOf(elfType(), dup)

	g := &GoGenerator{}
	if g.Name() != "go" {
		t.Errorf("Name() = %q", g.Name())
	}
	res, err := g.Generate(context.Background(), f, GenerateOptions{Sink: mem})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.EnumsGenerated != 2 {
		t.Errorf("EnumsGenerated = %d, want 2", res.EnumsGenerated)
	}
	if len(res.Files) != 1 || res.Files[0].Path != DefaultFileName || !res.Files[0].Changed {
		t.Errorf("Files = %+v", res.Files)
	}
	content := mem.Get(DefaultFileName)
	if int64(len(content)) != res.Files[0].Size {
		t.Errorf("Size = %d, stored %d bytes", res.Files[0].Size, len(content))
	}
	if !sink.IsGenerated(content) {
		t.Error("output lacks generated header")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != ir.WarningShadowedName {
		t.Errorf("Warnings = %+v, want one %s", res.Warnings, ir.WarningShadowedName)
	}

	res, err = g.Generate(context.Background(), f, GenerateOptions{Sink: mem})
	if err != nil {
		t.Fatal(err)
	}
	if res.Files[0].Changed {
		t.Error("regeneration reported changed")
	}
}

func TestGoGenerator_FileName(t *testing.T) {
	mem := sink.NewMemorySink()
	_, err := (&GoGenerator{}).Generate(context.Background(), fileOf(elfType()), GenerateOptions{
		Sink:   mem,
		Config: Config{FileName: "elf_enum.go"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if mem.Get("elf_enum.go") == nil {
		t.Errorf("files = %v", mem.Files())
	}
}

func TestGoGenerator_Errors(t *testing.T) {
	bad := elfType()
	bad.Variants = append(bad.Variants,
		ir.Variant{Name: "ET_HUGE", Literal: "70000"},
		ir.Variant{Name: "ET_BAD", Literal: "x"},
	)

	tests := []struct {
		name string
		file *ir.File
		opts GenerateOptions
		want []string
	}{
		{name: "nil file", opts: GenerateOptions{Sink: sink.NewMemorySink()}, want: []string{"nil"}},
		{name: "nil sink", file: fileOf(elfType()), want: []string{"sink"}},
		{
			name: "all validation errors",
			file: fileOf(bad),
			opts: GenerateOptions{Sink: sink.NewMemorySink()},
			want: []string{"ET_HUGE", "overflows uint16", "ET_BAD"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&GoGenerator{}).Generate(context.Background(), tt.file, tt.opts)
			if err == nil {
				t.Fatal("Generate() succeeded")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q missing %q", err, w)
				}
			}
		})
	}
}

func TestGoGenerator_ValidationErrorType(t *testing.T) {
	bad := elfType()
	bad.Repr = ir.Repr{Bits: 12}
	mem := sink.NewMemorySink()
	_, err := (&GoGenerator{}).Generate(context.Background(), fileOf(bad), GenerateOptions{Sink: mem})
	var verr *ir.ValidationError
	if !errors.As(err, &verr) || verr.Code != ir.CodeInvalidRepr {
		t.Fatalf("error = %v, want %s", err, ir.CodeInvalidRepr)
	}
	if len(mem.Files()) != 0 {
		t.Error("files written despite validation failure")
	}
}
