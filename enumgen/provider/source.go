package provider

import (
	"context"
	"errors"
	"fmt"
	"go/token"

	"github.com/broady/openenum/enumgen/ir"
	"github.com/broady/openenum/internal/directive"
)

// SourceProvider reads //openenum: directives from a Go package.
type SourceProvider struct{}

// SourceInputOptions configures directive-based extraction.
type SourceInputOptions struct {
	// Pattern selects the package, as accepted by the go command.
	// Default: ".".
	Pattern string

	// Dir is the working directory the pattern is resolved in.
	Dir string
}

// BuildFile scans the package for directives. A package without directives
// yields a File with no enums.
func (p *SourceProvider) BuildFile(ctx context.Context, opts SourceInputOptions) (*ir.File, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "."
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := directive.ParseDir(pattern, opts.Dir)
	if err != nil {
		return nil, err
	}

	f := &ir.File{
		Package: ir.PackageInfo{
			Path: result.PackagePath,
			Name: result.PackageName,
			Dir:  result.Dir,
		},
		Origin: pattern,
	}
	var errs []error
	for _, d := range result.Enums {
		e, err := enumFromDirective(d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.AddEnum(e)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return f, nil
}

func enumFromDirective(d directive.Enum) (*ir.EnumSpec, error) {
	src := sourceOf(d.Pos)
	repr, err := ir.ParseRepr(d.Options.Repr)
	if err != nil {
		return nil, fmt.Errorf("%s: enum %s: %w", src, d.Name, err)
	}
	e := &ir.EnumSpec{
		Name:          d.Name,
		Repr:          repr,
		Visibility:    ir.Visibility(d.Options.Visibility),
		Scope:         ir.ScopeMode(d.Options.Scope),
		Format:        ir.FormatStyle(d.Options.Format),
		Extras:        d.Extras,
		Documentation: newDocumentation(d.Doc),
		Source:        src,
	}
	for _, v := range d.Values {
		e.Variants = append(e.Variants, ir.Variant{
			Name:    v.Name,
			Literal: v.Literal,
			Source:  sourceOf(v.Pos),
		})
	}
	return e, nil
}

func sourceOf(pos token.Position) ir.Source {
	return ir.Source{File: pos.Filename, Line: pos.Line, Column: pos.Column}
}
