// Package directive parses openenum directives from Go source files.
//
// Directives are line comments grouped in a single comment group:
//
//	// ElfType identifies the object file type.
//	//
//	//openenum:enum ElfType repr=uint16 scope=flat visibility=exported format=table
//	//openenum:extra nolint:revive
//	//openenum:value ET_NONE 0
//	//openenum:value ET_REL 1
//
// The enum directive opens a definition and must come first. Each value
// directive adds one variant in declaration order. Each extra directive adds
// one comment line emitted verbatim above the generated type. Ordinary comment
// text in the group becomes the type's documentation.
package directive

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gorilla/schema"
	"golang.org/x/tools/go/packages"
)

// Prefix starts every directive line.
const Prefix = "//openenum:"

var optionDecoder = schema.NewDecoder()

// Options are the key=value settings of an enum directive.
type Options struct {
	Repr       string `schema:"repr,required"`
	Scope      string `schema:"scope"`
	Visibility string `schema:"visibility"`
	Format     string `schema:"format"`
}

// Enum is one //openenum:enum comment group.
type Enum struct {
	Name    string
	Options Options
	Extras  []string
	Values  []Value
	Doc     string         // comment text without directive lines
	Pos     token.Position // position of the enum directive
}

// Value is one //openenum:value line.
type Value struct {
	Name    string
	Literal string
	Pos     token.Position
}

// Result contains all directives found in a package.
type Result struct {
	// Enums in file order, files sorted by name.
	Enums []Enum

	// PackageName is the name of the scanned package.
	PackageName string

	// PackagePath is the import path of the parsed package.
	PackagePath string

	// Dir is the directory containing the package.
	Dir string
}

// Parse scans a Go package for openenum directives.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
//
// Generated files are skipped.
func Parse(pattern string) (*Result, error) {
	return ParseDir(pattern, "")
}

// ParseDir is like Parse but allows specifying a working directory.
// If dir is empty, the current directory is used.
func ParseDir(pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}

	result := &Result{
		PackageName: pkg.Name,
		PackagePath: pkg.PkgPath,
	}
	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	files := append([]string(nil), pkg.GoFiles...)
	sort.Strings(files)

	fset := token.NewFileSet()
	for _, filename := range files {
		f, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		if ast.IsGenerated(f) {
			continue
		}
		enums, err := ParseFile(fset, f)
		if err != nil {
			return nil, err
		}
		result.Enums = append(result.Enums, enums...)
	}
	return result, nil
}

// ParseFile extracts enum definitions from a parsed file. The file must have
// been parsed with parser.ParseComments.
func ParseFile(fset *token.FileSet, f *ast.File) ([]Enum, error) {
	var enums []Enum
	var errs []error
	for _, cg := range f.Comments {
		e, err := parseGroup(fset, cg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if e != nil {
			enums = append(enums, *e)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return enums, nil
}

// parseGroup returns nil when cg holds no directives.
func parseGroup(fset *token.FileSet, cg *ast.CommentGroup) (*Enum, error) {
	var e *Enum
	for _, c := range cg.List {
		if !strings.HasPrefix(c.Text, Prefix) {
			continue
		}
		pos := fset.Position(c.Pos())
		kind, rest, _ := strings.Cut(strings.TrimPrefix(c.Text, Prefix), " ")
		rest = strings.TrimSpace(rest)

		if e == nil && (kind == "extra" || kind == "value") {
			return nil, fmt.Errorf("%s: %s%s must follow %senum in the same comment group", pos, Prefix, kind, Prefix)
		}

		switch kind {
		case "enum":
			if e != nil {
				return nil, fmt.Errorf("%s: second //openenum:enum in one comment group (first at %s)", pos, e.Pos)
			}
			parsed, err := parseEnum(rest, pos)
			if err != nil {
				return nil, err
			}
			e = parsed
		case "extra":
			if rest == "" {
				return nil, fmt.Errorf("%s: //openenum:extra needs text", pos)
			}
			e.Extras = append(e.Extras, rest)
		case "value":
			fields := strings.Fields(rest)
			if len(fields) != 2 {
				return nil, fmt.Errorf("%s: //openenum:value wants NAME LITERAL, got %q", pos, rest)
			}
			e.Values = append(e.Values, Value{Name: fields[0], Literal: fields[1], Pos: pos})
		default:
			return nil, fmt.Errorf("%s: unknown directive %s%s", pos, Prefix, kind)
		}
	}
	if e == nil {
		return nil, nil
	}
	// Text drops //openenum: lines along with other directive comments.
	e.Doc = strings.TrimSpace(cg.Text())
	return e, nil
}

func parseEnum(rest string, pos token.Position) (*Enum, error) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: //openenum:enum needs a type name", pos)
	}
	e := &Enum{Name: fields[0], Pos: pos}

	values := url.Values{}
	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%s: enum %s: malformed option %q (want key=value)", pos, e.Name, field)
		}
		if values.Has(key) {
			return nil, fmt.Errorf("%s: enum %s: option %q given twice", pos, e.Name, key)
		}
		values.Set(key, value)
	}
	if err := optionDecoder.Decode(&e.Options, values); err != nil {
		return nil, fmt.Errorf("%s: enum %s: %s", pos, e.Name, describeOptionError(err))
	}
	return e, nil
}

// describeOptionError rewrites decoder errors in directive terms.
func describeOptionError(err error) string {
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return err.Error()
	}
	keys := make([]string, 0, len(multi))
	for k := range multi {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		var unknown schema.UnknownKeyError
		var empty schema.EmptyFieldError
		switch {
		case errors.As(multi[k], &unknown):
			msgs = append(msgs, fmt.Sprintf("unknown option %q", unknown.Key))
		case errors.As(multi[k], &empty):
			msgs = append(msgs, fmt.Sprintf("option %q is required", empty.Key))
		default:
			msgs = append(msgs, multi[k].Error())
		}
	}
	return strings.Join(msgs, "; ")
}
