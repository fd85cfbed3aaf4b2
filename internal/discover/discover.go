// Package discover resolves the Go package generated code is written into.
//
// Generation may target a directory that holds no Go files yet, for example
// a fresh package whose only source will be the generated file. In that case
// the package name falls back to the directory name.
package discover

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"
)

// Result describes a package directory.
type Result struct {
	PackageName string
	PackagePath string
	ModulePath  string
	ModuleDir   string // directory containing go.mod
	Dir         string // directory containing the package
	HasFiles    bool   // false when the name was derived from the directory
}

// Find resolves the package matching pattern in the current directory.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
func Find(pattern string) (*Result, error) {
	return FindDir(pattern, "")
}

// FindDir is like Find but allows specifying a working directory.
func FindDir(pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedModule,
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
	result := &Result{
		PackageName: pkg.Name,
		PackagePath: pkg.PkgPath,
	}
	if pkg.Module != nil {
		result.ModulePath = pkg.Module.Path
		result.ModuleDir = pkg.Module.Dir
	}

	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
		result.HasFiles = true
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
		}
		return result, nil
	}

	// No Go files: only a directory pattern can be resolved further.
	target := pattern
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", pattern, err)
	}
	result.Dir = abs
	result.PackageName = NameFromDir(abs)
	if result.PackageName == "" {
		return nil, fmt.Errorf("cannot derive a package name from directory %s", abs)
	}
	if result.PackagePath == "" && result.ModuleDir != "" {
		if rel, err := filepath.Rel(result.ModuleDir, abs); err == nil && !strings.HasPrefix(rel, "..") {
			result.PackagePath = strings.TrimSuffix(result.ModulePath+"/"+filepath.ToSlash(rel), "/.")
		}
	}
	return result, nil
}

// NameFromDir derives a package name from the last element of dir. Letters,
// digits and underscores are kept and lower-cased; a leading digit gets an
// underscore prefix. It returns "" when nothing usable remains.
func NameFromDir(dir string) string {
	base := filepath.Base(dir)
	var b strings.Builder
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			if b.Len() == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "_" {
		return ""
	}
	return name
}
