// Package verify type-checks a package after generation and confirms that
// each generated enum has the layout of its underlying integer.
package verify

import (
	"context"
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/broady/openenum/enumgen/ir"
)

// Problem is one finding.
type Problem struct {
	Pos     token.Position
	Message string
}

func (p Problem) String() string {
	if p.Pos.IsValid() {
		return p.Pos.String() + ": " + p.Message
	}
	return p.Message
}

// Report is the outcome of Package.
type Report struct {
	PackagePath string
	Checked     int // enums found and inspected
	Problems    []Problem
}

// OK reports whether no problems were found.
func (r *Report) OK() bool { return len(r.Problems) == 0 }

// Err returns the problems as a single error, or nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		lines[i] = p.String()
	}
	return fmt.Errorf("%d problem(s) in %s:\n  %s", len(r.Problems), r.PackagePath, strings.Join(lines, "\n  "))
}

// Package loads the package in dir with full type information and checks
// each enum:
//   - the type exists and its underlying type is the declared repr,
//   - its size equals the repr's size,
//   - every variant constant exists with the enum type and the declared value,
//   - a String method is present.
//
// Compile errors are reported as problems. Flat constant names that collide
// with other declarations in the package surface this way.
func Package(ctx context.Context, dir string, enums []*ir.EnumSpec) (*Report, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedTypesSizes,
		Dir: dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("expected one package in %s, found %d", dir, len(pkgs))
	}
	pkg := pkgs[0]

	report := &Report{PackagePath: pkg.PkgPath}
	for _, e := range pkg.Errors {
		report.Problems = append(report.Problems, Problem{
			Pos:     parseErrorPos(e.Pos),
			Message: e.Msg,
		})
	}
	if pkg.Types == nil || pkg.TypesSizes == nil {
		return report, nil
	}

	for _, enum := range enums {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		checkEnum(report, pkg, enum)
	}
	return report, nil
}

func checkEnum(report *Report, pkg *packages.Package, enum *ir.EnumSpec) {
	problem := func(pos token.Pos, format string, args ...any) {
		p := Problem{Message: fmt.Sprintf(format, args...)}
		if pos.IsValid() {
			p.Pos = pkg.Fset.Position(pos)
		}
		report.Problems = append(report.Problems, p)
	}

	name, err := enum.TypeIdent()
	if err != nil {
		problem(token.NoPos, "enum %s: %v", enum.Name, err)
		return
	}
	obj, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		problem(token.NoPos, "type %s not declared in %s", name, pkg.PkgPath)
		return
	}
	report.Checked++

	named, ok := obj.Type().(*types.Named)
	if !ok || obj.IsAlias() {
		problem(obj.Pos(), "%s is not a defined type", name)
		return
	}
	basic, ok := named.Underlying().(*types.Basic)
	want := basicKind(enum.Repr)
	if !ok || basic.Kind() != want {
		problem(obj.Pos(), "%s has underlying type %s, want %s", name, named.Underlying(), enum.Repr)
		return
	}
	sizes := pkg.TypesSizes
	if got, wantSize := sizes.Sizeof(named), int64(enum.Repr.Bits/8); got != wantSize || got != sizes.Sizeof(basic) {
		problem(obj.Pos(), "%s occupies %d bytes, want %d", name, got, wantSize)
	}

	for _, v := range enum.Variants {
		ident, err := enum.ConstIdent(v)
		if err != nil {
			problem(token.NoPos, "enum %s: %v", enum.Name, err)
			continue
		}
		c, ok := pkg.Types.Scope().Lookup(ident).(*types.Const)
		if !ok {
			problem(token.NoPos, "constant %s not declared", ident)
			continue
		}
		if !types.Identical(c.Type(), named) {
			problem(c.Pos(), "constant %s has type %s, want %s", ident, c.Type(), name)
		}
		if want, err := v.Value(); err == nil && !constant.Compare(c.Val(), token.EQL, want) {
			problem(c.Pos(), "constant %s = %s, want %s", ident, c.Val().ExactString(), want.ExactString())
		}
	}

	mset := types.NewMethodSet(named)
	sel := mset.Lookup(pkg.Types, "String")
	if sel == nil {
		problem(obj.Pos(), "%s has no String method", name)
		return
	}
	sig, ok := sel.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 ||
		!types.Identical(sig.Results().At(0).Type(), types.Typ[types.String]) {
		problem(sel.Obj().Pos(), "%s.String has signature %s, want func() string", name, sel.Type())
	}
}

func basicKind(r ir.Repr) types.BasicKind {
	switch {
	case r.Signed && r.Bits == 8:
		return types.Int8
	case r.Signed && r.Bits == 16:
		return types.Int16
	case r.Signed && r.Bits == 32:
		return types.Int32
	case r.Signed && r.Bits == 64:
		return types.Int64
	case r.Bits == 8:
		return types.Uint8
	case r.Bits == 16:
		return types.Uint16
	case r.Bits == 32:
		return types.Uint32
	case r.Bits == 64:
		return types.Uint64
	}
	return types.Invalid
}

// parseErrorPos turns a packages.Error position ("file:line:col" or
// "file:line") into a token.Position.
func parseErrorPos(s string) token.Position {
	if s == "" || s == "-" {
		return token.Position{}
	}
	// Filenames may contain colons; line and column are the trailing fields.
	parts := strings.Split(s, ":")
	n := len(parts)
	if n >= 3 {
		line, err1 := strconv.Atoi(parts[n-2])
		col, err2 := strconv.Atoi(parts[n-1])
		if err1 == nil && err2 == nil {
			return token.Position{Filename: strings.Join(parts[:n-2], ":"), Line: line, Column: col}
		}
	}
	if n >= 2 {
		if line, err := strconv.Atoi(parts[n-1]); err == nil {
			return token.Position{Filename: strings.Join(parts[:n-1], ":"), Line: line}
		}
	}
	return token.Position{Filename: s}
}
