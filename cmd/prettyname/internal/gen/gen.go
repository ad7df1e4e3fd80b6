package gen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/broady/prettyname/internal/discover"
	"github.com/broady/prettyname/namegen"
	"github.com/broady/prettyname/namegen/golang"
)

// Options are the build pass flags shared by gen and check.
type Options struct {
	Packages  []string `help:"Package patterns to scan (default: current directory)." name:"package" short:"p" default:"."`
	Manifests []string `help:"YAML manifests declaring types not visible in Go source." name:"manifest" short:"m"`
	PkgName   string   `help:"Package clause of the generated file (default: the loaded package)." name:"pkg-name"`
	FileName  string   `help:"Generated Go file name." name:"file" default:"${gen_file}"`
	JSON      bool     `help:"Also write the name table to names.json." short:"j"`
	Positions bool     `help:"Record directive positions in generated doc comments."`
}

// Vars are the kong variables referenced by the Options tags.
var Vars = map[string]string{"gen_file": golang.DefaultFileName}

// JSONFile is the file --json writes.
const JSONFile = "names.json"

// Config converts the flags to a build pass configuration.
func (o *Options) Config(log *slog.Logger) *namegen.Config {
	cfg := &namegen.Config{
		Packages:  o.Packages,
		Manifests: o.Manifests,
		Package:   o.PkgName,
		FileName:  o.FileName,
		Positions: o.Positions,
		Logger:    log,
	}
	if o.JSON {
		cfg.JSONFile = JSONFile
	}
	return cfg
}

type Cmd struct {
	Options `embed:""`

	Out string `help:"Output directory for generated files (default: the package directory)." short:"o"`
}

func (c *Cmd) Run(ctx context.Context, log *slog.Logger, w io.Writer) error {
	outDir, err := discover.OutputDir(ctx, c.Out, c.Packages)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	cfg := c.Config(log)
	cfg.OutDir = outDir

	res, err := namegen.Generate(ctx, cfg)
	if err != nil {
		return Summarize(res, err)
	}
	for _, f := range res.Files {
		fmt.Fprintf(w, "wrote %s (%d bytes)\n", filepath.Join(outDir, f.Path), f.Size)
	}
	fmt.Fprintf(w, "%d names\n", len(res.Names))
	return nil
}

// Summarize replaces the joined reference failures of a build pass with a
// count; each failure has already been logged.
func Summarize(res *namegen.GenerateResult, err error) error {
	if res == nil || len(res.Failures) == 0 {
		return err
	}
	return fmt.Errorf("%d of %d references failed", len(res.Failures), len(res.Failures)+len(res.Names))
}
