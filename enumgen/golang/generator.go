package golang

import (
	"context"
	"errors"
	"fmt"

	"github.com/broady/openenum/enumgen/ir"
)

// GoGenerator implements Generator for Go output.
type GoGenerator struct{}

// Name returns "go".
func (*GoGenerator) Name() string { return "go" }

// Generate validates file, emits it as a single Go source file and hands the
// result to opts.Sink. Validation failures are returned together, joined with
// errors.Join; nothing is written in that case.
func (g *GoGenerator) Generate(ctx context.Context, file *ir.File, opts GenerateOptions) (*GenerateResult, error) {
	if file == nil {
		return nil, errors.New("file is nil")
	}
	if opts.Sink == nil {
		return nil, errors.New("sink is required")
	}
	if errs := file.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid definitions: %w", errors.Join(errs...))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := opts.Config.withDefaults()
	content, err := NewEmitter(cfg).EmitFile(file)
	if err != nil {
		return nil, err
	}

	changed, err := opts.Sink.WriteFile(ctx, cfg.FileName, content)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", cfg.FileName, err)
	}

	warnings := append([]ir.Warning(nil), file.Warnings...)
	warnings = append(warnings, file.Lint()...)

	return &GenerateResult{
		Files: []OutputFile{{
			Path:    cfg.FileName,
			Size:    int64(len(content)),
			Changed: changed,
		}},
		EnumsGenerated: len(file.Enums),
		Warnings:       warnings,
	}, nil
}
