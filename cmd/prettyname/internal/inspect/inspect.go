// Package inspect implements the commands that resolve, render and list
// references without generating files.
package inspect

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/broady/prettyname"
	"github.com/broady/prettyname/internal/directive"
	"github.com/broady/prettyname/namegen"
	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/symbols"
)

// IndexFlags select the declarations references are checked against.
type IndexFlags struct {
	Packages  []string `help:"Go package patterns whose declarations are visible." name:"package" short:"p"`
	Manifests []string `help:"YAML manifests declaring types and bindings." name:"manifest" short:"m"`
}

// Load builds the index.
func (f *IndexFlags) Load(ctx context.Context, log *slog.Logger) (*symbols.Index, error) {
	return namegen.LoadIndex(ctx, namegen.IndexOptions{
		Packages:  f.Packages,
		Manifests: f.Manifests,
		Logger:    log,
	})
}

type ResolveCmd struct {
	IndexFlags `embed:""`

	Self       string   `help:"Type Self is bound to, with its parameters (e.g. Stack<T>)." short:"s"`
	References []string `arg:"" help:"References to resolve."`
}

func (c *ResolveCmd) Run(ctx context.Context, log *slog.Logger, w io.Writer) error {
	idx, err := c.Load(ctx, log)
	if err != nil {
		return err
	}
	r := prettyname.NewResolver(idx)
	var opts []prettyname.ResolveOption
	if c.Self != "" {
		opts = append(opts, prettyname.InScope(c.Self))
	}

	failed := 0
	for _, ref := range c.References {
		name, err := r.ResolveName(ref, opts...)
		if err != nil {
			failed++
			log.Error("reference failed", "reference", ref, "code", diag.CodeOf(err), "err", err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", ref, name.Value, name.Kind)
	}
	return failures(failed, len(c.References), "references")
}

type RenderCmd struct {
	Types []string `arg:"" help:"Type expressions to render."`
}

func (c *RenderCmd) Run(log *slog.Logger, w io.Writer) error {
	failed := 0
	for _, src := range c.Types {
		s, err := prettyname.RenderType(src)
		if err != nil {
			failed++
			log.Error("type failed", "type", src, "err", err)
			continue
		}
		fmt.Fprintln(w, s)
	}
	return failures(failed, len(c.Types), "types")
}

type ListCmd struct {
	Packages []string `arg:"" optional:"" help:"Package patterns to scan." default:"."`
}

func (c *ListCmd) Run(ctx context.Context, w io.Writer) error {
	ds, err := directive.Load(ctx, "", c.Packages...)
	if err != nil {
		return err
	}
	for _, d := range ds {
		fmt.Fprintf(w, "%s\t%s", d.Pos, d.Reference)
		if d.SelfType != "" {
			fmt.Fprintf(w, "\tSelf=%s", d.SelfType)
		}
		if d.Options.Const != "" {
			fmt.Fprintf(w, "\tconst=%s", d.Options.Const)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func failures(failed, total int, what string) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d %s failed", failed, total, what)
}
