package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/broady/openenum/cmd/openenum/internal/check"
	"github.com/broady/openenum/cmd/openenum/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Log progress to stderr." short:"v"`

	Version VersionCmd   `cmd:"" help:"Print version information."`
	Gen     gen.Cmd      `cmd:"" help:"Generate open enumerations into a package directory."`
	Print   gen.PrintCmd `cmd:"" help:"Print generated code to stdout without writing files."`
	Check   check.Cmd    `cmd:"" help:"Check that a package's generated enums match their definitions."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(w io.Writer) error {
	fmt.Fprintln(w, Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("openenum"),
		kong.Description("Generate Go integer types that accept every bit pattern and print unknown values as Type(n)."),
		kong.UsageOnError(),
		kong.BindTo(io.Writer(os.Stdout), (*io.Writer)(nil)),
	)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
