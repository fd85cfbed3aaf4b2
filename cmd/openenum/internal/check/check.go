// Package check implements the check command.
package check

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/broady/openenum/cmd/openenum/internal/gen"
	"github.com/broady/openenum/internal/discover"
	"github.com/broady/openenum/internal/verify"
)

type Cmd struct {
	gen.Input `embed:""`
}

func (c *Cmd) Run(log *slog.Logger, w io.Writer) error {
	g := c.Generator(log)
	if c.File != "" && c.Package == "" {
		found, err := discover.FindDir(".", c.Dir)
		if err != nil {
			return fmt.Errorf("discover: %w", err)
		}
		g = g.Package(found.PackageName)
	}
	res, err := g.Generate()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ %d enums defined\n", len(res.Enums))

	path := filepath.Join(c.Dir, c.Output)
	onDisk, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && len(res.Enums) == 0:
		return nil
	case os.IsNotExist(err):
		return fmt.Errorf("%s does not exist; run openenum gen", path)
	case err != nil:
		return err
	case !bytes.Equal(onDisk, res.Files[c.Output]):
		return fmt.Errorf("%s is stale; run openenum gen", path)
	}
	fmt.Fprintf(w, "✓ %s is up to date\n", path)

	report, err := verify.Package(context.Background(), c.Dir, res.Enums)
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ %d enums type-check in %s\n", report.Checked, report.PackagePath)
	return nil
}
