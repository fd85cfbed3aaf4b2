package enumgen

import (
	"context"
	"log/slog"

	"github.com/broady/openenum/enumgen/ir"
)

// Generator provides a fluent API for code generation.
// Create with FromYAML, FromPackage or FromFile and configure with method
// chaining.
//
// Example:
//
//	enumgen.FromYAML("elf.yaml").
//	    Package("elf").
//	    ToDir("./elf")
type Generator struct {
	cfg Config
}

// FromYAML creates a Generator for a YAML definition file.
func FromYAML(path string) *Generator {
	return &Generator{cfg: Config{Source: SourceYAML, Input: path}}
}

// FromYAMLData creates a Generator for an in-memory YAML document. name
// appears in error positions.
func FromYAMLData(name string, data []byte) *Generator {
	return &Generator{cfg: Config{Source: SourceYAML, Input: name, Data: data}}
}

// FromPackage creates a Generator for the //openenum: directives of a Go
// package. The pattern follows go command semantics; "." is the package in
// the working directory.
func FromPackage(pattern string) *Generator {
	return &Generator{cfg: Config{Source: SourcePackage, Input: pattern}}
}

// FromFile creates a Generator for an already built ir.File.
func FromFile(f *ir.File) *Generator {
	return &Generator{cfg: Config{Source: SourceIR, File: f}}
}

// WithLogger sets the logger for progress and warnings.
// Default: slog.Default().
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	g.cfg.Logger = l
	return g
}

// WithContext sets the context used for loading and writing.
func (g *Generator) WithContext(ctx context.Context) *Generator {
	g.cfg.Context = ctx
	return g
}

// InDir sets the working directory a package pattern is resolved in.
func (g *Generator) InDir(dir string) *Generator {
	g.cfg.WorkDir = dir
	return g
}

// Output sets the generated file name. Default: openenum_gen.go.
func (g *Generator) Output(name string) *Generator {
	g.cfg.FileName = name
	return g
}

// Package sets the package clause of the generated file, overriding the
// package named by the input.
func (g *Generator) Package(name string) *Generator {
	g.cfg.Package = name
	return g
}

// RuntimeImport overrides the import path of the openenum runtime used by
// table-style String methods.
func (g *Generator) RuntimeImport(path string) *Generator {
	g.cfg.RuntimeImport = path
	return g
}

// OmitComments drops documentation comments from the generated code.
func (g *Generator) OmitComments() *Generator {
	g.cfg.OmitComments = true
	return g
}

// Verify type-checks the destination package after ToDir writes it.
func (g *Generator) Verify() *Generator {
	g.cfg.Verify = true
	return g
}

// ToDir generates files into dir.
// This is a terminal operation that writes files to disk. For FromPackage an
// empty dir means the scanned package's own directory.
func (g *Generator) ToDir(dir string) (*GenerateResult, error) {
	cfg := g.cfg
	cfg.OutDir = dir
	cfg.toDisk = true
	return Generate(&cfg)
}

// Generate returns generated files in memory without writing to disk.
// Use ToDir() to write files to disk instead.
func (g *Generator) Generate() (*GenerateResult, error) {
	cfg := g.cfg
	return Generate(&cfg)
}
