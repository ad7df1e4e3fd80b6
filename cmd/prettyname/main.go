package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/broady/prettyname/cmd/prettyname/internal/check"
	"github.com/broady/prettyname/cmd/prettyname/internal/gen"
	"github.com/broady/prettyname/cmd/prettyname/internal/inspect"
	"github.com/broady/prettyname/cmd/prettyname/internal/repl"
)

type CLI struct {
	Verbose bool `help:"Log every resolved reference." short:"v"`

	Version VersionCmd         `cmd:"" help:"Print version information."`
	Gen     gen.Cmd            `cmd:"" help:"Generate name constants from //prettyname:name directives."`
	Check   check.Cmd          `cmd:"" help:"Resolve directives without generating files."`
	List    inspect.ListCmd    `cmd:"" help:"List the directives of packages."`
	Resolve inspect.ResolveCmd `cmd:"" help:"Resolve references against declarations."`
	Render  inspect.RenderCmd  `cmd:"" help:"Print the canonical rendering of types."`
	Repl    repl.Cmd           `cmd:"" help:"Resolve references interactively."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(w io.Writer) error {
	fmt.Fprintln(w, Version())
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("prettyname"),
		kong.Description("Build-time name resolution for types, values, members and variants."),
		kong.Vars(gen.Vars),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(os.Stdout, (*io.Writer)(nil))
	kctx.Bind(newLogger(os.Stderr, cli.Verbose))
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
