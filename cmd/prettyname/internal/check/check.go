package check

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/broady/prettyname/cmd/prettyname/internal/gen"
	"github.com/broady/prettyname/namegen"
	"github.com/broady/prettyname/namegen/sink"
)

type Cmd struct {
	gen.Options `embed:""`

	Verify string `help:"Also compare the files gen would write with those in this directory." type:"existingdir"`
}

func (c *Cmd) Run(ctx context.Context, log *slog.Logger, w io.Writer) error {
	cfg := c.Config(log)

	var verify *sink.VerifySink
	var res *namegen.GenerateResult
	var err error
	if c.Verify != "" {
		verify = sink.NewVerifySink(c.Verify)
		cfg.Sink = verify
		res, err = namegen.Generate(ctx, cfg)
	} else {
		res, err = namegen.Check(ctx, cfg)
	}
	if err != nil {
		return gen.Summarize(res, err)
	}

	fmt.Fprintf(w, "✓ %d references resolved\n", len(res.Names))
	if verify == nil {
		return nil
	}
	stale := verify.Stale()
	for _, s := range stale {
		fmt.Fprintf(w, "✗ %s\n", s)
	}
	if len(stale) > 0 {
		return fmt.Errorf("%d generated files are stale; run prettyname gen", len(stale))
	}
	fmt.Fprintln(w, "✓ generated files up to date")
	return nil
}
