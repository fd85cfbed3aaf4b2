// Package gen implements the gen and print commands.
package gen

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/broady/openenum/enumgen"
)

// Input selects the definitions and shapes the generated file. It is shared
// by every command that runs the generator.
type Input struct {
	File       string `arg:"" optional:"" help:"YAML definition file. Without it, the package in --dir is scanned for //openenum: directives."`
	Dir        string `help:"Package directory." short:"C" default:"."`
	Output     string `help:"Generated file name." short:"o" default:"openenum_gen.go"`
	Package    string `help:"Package clause of the generated file." short:"p"`
	NoComments bool   `help:"Omit documentation comments."`
}

// Generator returns the enumgen pipeline for in.
func (in *Input) Generator(log *slog.Logger) *enumgen.Generator {
	var g *enumgen.Generator
	if in.File != "" {
		g = enumgen.FromYAML(in.File)
	} else {
		g = enumgen.FromPackage(".").InDir(in.Dir)
	}
	g = g.WithLogger(log).Output(in.Output)
	if in.Package != "" {
		g = g.Package(in.Package)
	}
	if in.NoComments {
		g = g.OmitComments()
	}
	return g
}

type Cmd struct {
	Input  `embed:""`
	Verify bool `help:"Type-check the package after writing."`
}

func (c *Cmd) Run(log *slog.Logger, w io.Writer) error {
	g := c.Generator(log)
	if c.Verify {
		g = g.Verify()
	}
	res, err := g.ToDir(c.Dir)
	if err != nil {
		return err
	}

	if res.Removed {
		fmt.Fprintf(w, "✓ Removed stale %s\n", filepath.Join(c.Dir, c.Output))
		return nil
	}
	if len(res.Enums) == 0 {
		fmt.Fprintln(w, "No //openenum: directives found")
		return nil
	}
	for _, name := range sortedKeys(res.Files) {
		path := filepath.Join(c.Dir, name)
		if slices.Contains(res.Changed, name) {
			fmt.Fprintf(w, "✓ Wrote %s (%d enums)\n", path, len(res.Enums))
		} else {
			fmt.Fprintf(w, "✓ %s is up to date\n", path)
		}
	}
	if v := res.Verification; v != nil {
		fmt.Fprintf(w, "✓ Verified %d enums in %s\n", v.Checked, v.PackagePath)
	}
	return nil
}

// PrintCmd writes the generated code to stdout.
type PrintCmd struct {
	Input `embed:""`
}

func (c *PrintCmd) Run(log *slog.Logger, w io.Writer) error {
	res, err := c.Generator(log).Generate()
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(res.Files) {
		if _, err := w.Write(res.Files[name]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
