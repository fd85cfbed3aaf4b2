package gen

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const elfYAML = `enums:
  - name: ElfType
    repr: uint16
    format: switch
    variants:
      - {name: ET_NONE, value: 0}
      - {name: ET_EXEC, value: 2}
`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeModule(t *testing.T) string {
	t.Helper()
	t.Setenv("GOWORK", "off")
	dir := t.TempDir()
	files := map[string]string{
		"go.mod":   "module example.com/elf\n\ngo 1.21\n",
		"doc.go":   "package elf\n",
		"elf.yaml": elfYAML,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCmd_Run(t *testing.T) {
	dir := writeModule(t)
	cmd := &Cmd{
		Input: Input{
			File:   filepath.Join(dir, "elf.yaml"),
			Dir:    dir,
			Output: "elf_enum.go",
		},
		Verify: true,
	}

	var out bytes.Buffer
	if err := cmd.Run(discard(), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"✓ Wrote", "elf_enum.go (1 enums)", "✓ Verified 1 enums in example.com/elf"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	written, err := os.ReadFile(filepath.Join(dir, "elf_enum.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(written), "package elf") {
		t.Errorf("package clause not discovered:\n%s", written)
	}

	out.Reset()
	if err := cmd.Run(discard(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "is up to date") {
		t.Errorf("second run output:\n%s", out.String())
	}
}

func TestCmd_RunDirectives(t *testing.T) {
	dir := writeModule(t)
	src := "package elf\n\n//openenum:enum Class repr=uint8 format=switch\n//openenum:value CLASS32 1\n"
	if err := os.WriteFile(filepath.Join(dir, "class.go"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := &Cmd{Input: Input{Dir: dir, Output: "openenum_gen.go"}}
	var out bytes.Buffer
	if err := cmd.Run(discard(), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "(1 enums)") {
		t.Errorf("output:\n%s", out.String())
	}

	if err := os.WriteFile(filepath.Join(dir, "class.go"), []byte("package elf\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := cmd.Run(discard(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "✓ Removed stale") {
		t.Errorf("output:\n%s", out.String())
	}

	out.Reset()
	if err := cmd.Run(discard(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No //openenum: directives found") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestPrintCmd_Run(t *testing.T) {
	dir := writeModule(t)
	cmd := &PrintCmd{Input: Input{
		File:       filepath.Join(dir, "elf.yaml"),
		Dir:        dir,
		Output:     "openenum_gen.go",
		Package:    "elf",
		NoComments: true,
	}}

	var out bytes.Buffer
	if err := cmd.Run(discard(), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "// Code generated by openenum; DO NOT EDIT.") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, `return "ET_EXEC"`) {
		t.Errorf("missing switch case:\n%s", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "openenum_gen.go")); !os.IsNotExist(err) {
		t.Errorf("print wrote a file: %v", err)
	}
}

func TestPrintCmd_MissingFile(t *testing.T) {
	cmd := &PrintCmd{Input: Input{File: filepath.Join(t.TempDir(), "nope.yaml"), Package: "p", Output: "x.go"}}
	if err := cmd.Run(discard(), io.Discard); err == nil {
		t.Error("Run() succeeded for a missing file")
	}
}
