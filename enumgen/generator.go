// Package enumgen generates Go open enumerations: integer types whose
// every bit pattern is a valid value, with named constants and a String
// method that prints unnamed values as TypeName(n).
package enumgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/broady/openenum/enumgen/golang"
	"github.com/broady/openenum/enumgen/ir"
	"github.com/broady/openenum/enumgen/provider"
	"github.com/broady/openenum/enumgen/sink"
	"github.com/broady/openenum/internal/discover"
	"github.com/broady/openenum/internal/verify"
)

// Source selects where enum definitions come from.
type Source int

const (
	SourceYAML    Source = iota // YAML definition document
	SourcePackage               // //openenum: directives in a Go package
	SourceIR                    // a caller-built ir.File
)

func (s Source) String() string {
	switch s {
	case SourceYAML:
		return "yaml"
	case SourcePackage:
		return "package"
	case SourceIR:
		return "ir"
	default:
		return "unknown"
	}
}

// Config holds the configuration for code generation.
type Config struct {
	// Source selects the provider.
	Source Source

	// Input is the YAML path or the package pattern.
	Input string

	// Data is in-memory YAML content for SourceYAML.
	Data []byte

	// File is the definition set for SourceIR.
	File *ir.File

	// WorkDir resolves package patterns. Default: current directory.
	WorkDir string

	// OutDir is the directory generated files are written to.
	OutDir string

	// FileName is the generated file name. Default: openenum_gen.go.
	FileName string

	// Package overrides the package clause.
	Package string

	// RuntimeImport overrides the openenum runtime import path.
	RuntimeImport string

	// OmitComments drops documentation comments.
	OmitComments bool

	// Verify type-checks the written package.
	Verify bool

	// Logger receives progress and warnings. Default: slog.Default().
	Logger *slog.Logger

	// Context for loading and writing. Default: context.Background().
	Context context.Context

	toDisk bool
}

// GenerateResult describes one generation run.
type GenerateResult struct {
	// Package is the destination package.
	Package ir.PackageInfo

	// Enums are the generated definitions in output order.
	Enums []*ir.EnumSpec

	// Files maps each output path to its content.
	Files map[string][]byte

	// Changed lists output paths whose content differs from what the sink
	// already held.
	Changed []string

	// Removed is set when a package scan found no directives and a stale
	// generated file was deleted.
	Removed bool

	// Warnings are non-fatal findings, also logged.
	Warnings []ir.Warning

	// Verification is the type-check report when Config.Verify is set.
	Verification *verify.Report
}

// Generate runs the pipeline described by cfg: load definitions, validate,
// emit, write and optionally verify.
func Generate(cfg *Config) (*GenerateResult, error) {
	cfg = applyConfigDefaults(cfg)
	ctx := cfg.Context
	log := cfg.Logger.With("source", cfg.Source.String())

	file, err := loadFile(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	if cfg.Package != "" {
		file.Package.Name = cfg.Package
	}

	outDir := cfg.OutDir
	if cfg.toDisk && outDir == "" {
		outDir = file.Package.Dir
	}
	if cfg.toDisk && outDir == "" {
		return nil, errors.New("output directory is required")
	}
	if cfg.toDisk && file.Package.Name == "" {
		// Fill the package clause from the destination directory.
		found, err := discover.FindDir(".", outDir)
		if err != nil {
			return nil, fmt.Errorf("resolve destination package: %w", err)
		}
		file.Package.Name = found.PackageName
		file.Package.Path = found.PackagePath
		log.Debug("resolved destination package", "name", found.PackageName, "path", found.PackagePath)
	}

	var out sink.OutputSink = sink.NewMemorySink()
	if cfg.toDisk {
		out = sink.NewFilesystemSink(outDir)
	}

	result := &GenerateResult{
		Package: file.Package,
		Enums:   file.Enums,
		Files:   make(map[string][]byte),
	}

	if len(file.Enums) == 0 && cfg.Source == SourcePackage {
		removed, err := out.RemoveGenerated(ctx, cfg.FileName)
		if err != nil {
			return nil, fmt.Errorf("remove stale %s: %w", cfg.FileName, err)
		}
		result.Removed = removed
		if removed {
			log.Info("removed stale generated file", "file", cfg.FileName, "dir", outDir)
		} else {
			log.Debug("no openenum directives found", "pattern", cfg.Input)
		}
		return result, nil
	}

	content, genResult, err := emit(ctx, file, out, cfg)
	if err != nil {
		return nil, err
	}
	for _, f := range genResult.Files {
		result.Files[f.Path] = content
		if f.Changed {
			result.Changed = append(result.Changed, f.Path)
		}
		log.Debug("generated", "file", f.Path, "bytes", f.Size, "changed", f.Changed)
	}
	result.Warnings = genResult.Warnings
	for _, w := range result.Warnings {
		args := []any{"code", w.Code, "type", w.TypeName}
		if w.Source != nil && !w.Source.IsZero() {
			args = append(args, "pos", w.Source.String())
		}
		log.Warn(w.Message, args...)
	}
	log.Info("generated open enums", "package", file.Package.Name, "enums", genResult.EnumsGenerated, "changed", len(result.Changed))

	if cfg.Verify {
		if !cfg.toDisk {
			return nil, errors.New("verify requires writing to a directory")
		}
		report, err := verify.Package(ctx, outDir, file.Enums)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		result.Verification = report
		if err := report.Err(); err != nil {
			return result, err
		}
		log.Info("verified package", "path", report.PackagePath, "enums", report.Checked)
	}
	return result, nil
}

func applyConfigDefaults(cfg *Config) *Config {
	c := *cfg
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Context == nil {
		c.Context = context.Background()
	}
	if c.FileName == "" {
		c.FileName = golang.DefaultFileName
	}
	return &c
}

func loadFile(ctx context.Context, cfg *Config) (*ir.File, error) {
	switch cfg.Source {
	case SourceYAML:
		return (&provider.YAMLProvider{}).BuildFile(ctx, provider.YAMLInputOptions{
			Path:           cfg.Input,
			Data:           cfg.Data,
			DefaultPackage: cfg.Package,
		})
	case SourcePackage:
		return (&provider.SourceProvider{}).BuildFile(ctx, provider.SourceInputOptions{
			Pattern: cfg.Input,
			Dir:     cfg.WorkDir,
		})
	case SourceIR:
		if cfg.File == nil {
			return nil, errors.New("no ir.File given")
		}
		// The caller's File is not modified.
		f := *cfg.File
		return &f, nil
	default:
		return nil, fmt.Errorf("unknown source %d", cfg.Source)
	}
}

// emit runs the Go generator and returns the content it produced.
func emit(ctx context.Context, file *ir.File, out sink.OutputSink, cfg *Config) ([]byte, *golang.GenerateResult, error) {
	tee := &recordingSink{OutputSink: out}
	gen := &golang.GoGenerator{}
	res, err := gen.Generate(ctx, file, golang.GenerateOptions{
		Sink: tee,
		Config: golang.Config{
			FileName:      cfg.FileName,
			RuntimeImport: cfg.RuntimeImport,
			OmitComments:  cfg.OmitComments,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("generate: %w", err)
	}
	return tee.last, res, nil
}

// recordingSink keeps the last content written through it.
type recordingSink struct {
	sink.OutputSink
	last []byte
}

func (s *recordingSink) WriteFile(ctx context.Context, path string, content []byte) (bool, error) {
	s.last = content
	return s.OutputSink.WriteFile(ctx, path, content)
}
