// Package golang emits Go source for open enumerations described by an
// ir.File.
package golang

import (
	"context"

	"github.com/broady/openenum/enumgen/ir"
	"github.com/broady/openenum/enumgen/sink"
)

// DefaultRuntimeImport is the import path of the runtime formatter used by
// table-style String methods.
const DefaultRuntimeImport = "github.com/broady/openenum"

// DefaultFileName is the name of the generated file within its package.
const DefaultFileName = "openenum_gen.go"

// GenerateOptions configures generation behavior.
type GenerateOptions struct {
	// Sink receives generated output files.
	Sink sink.OutputSink

	// Config contains emitter configuration.
	Config Config
}

// Config controls the shape of emitted code.
type Config struct {
	// FileName is the output path relative to the sink root.
	// Default: DefaultFileName.
	FileName string

	// RuntimeImport overrides the import path of the openenum runtime.
	// Default: DefaultRuntimeImport.
	RuntimeImport string

	// OmitComments drops documentation comments from the output. Extras are
	// always emitted.
	OmitComments bool
}

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files handed to the sink.
	Files []OutputFile

	// EnumsGenerated is the number of enum types emitted.
	EnumsGenerated int

	// Warnings contains non-fatal issues encountered.
	Warnings []ir.Warning
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Size is the number of bytes produced.
	Size int64

	// Changed is false when the sink already held identical content.
	Changed bool
}

// Generator transforms an ir.File into source code.
type Generator interface {
	// Name returns the generator's identifier.
	Name() string

	// Generate produces source code for the given file.
	Generate(ctx context.Context, file *ir.File, opts GenerateOptions) (*GenerateResult, error)
}

func (c Config) withDefaults() Config {
	if c.FileName == "" {
		c.FileName = DefaultFileName
	}
	if c.RuntimeImport == "" {
		c.RuntimeImport = DefaultRuntimeImport
	}
	return c
}
