package namegen

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/broady/prettyname/internal/directive"
	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/golang"
	"github.com/broady/prettyname/namegen/sink"
	"github.com/broady/prettyname/namegen/symbols"
)

// Config holds the configuration for the build pass.
type Config struct {
	// Packages are the Go package patterns to scan for directives.
	// e.g. []string{"./shapes"}
	Packages []string `validate:"required,dive,required"`

	// Dir is the directory package patterns and manifests are resolved in.
	// Empty means the current directory.
	Dir string

	// Manifests are YAML files declaring types and bindings that are not
	// visible in Go source.
	Manifests []string `validate:"dive,required"`

	// OutDir is the directory generated files are written to. Ignored when
	// Sink is set.
	OutDir string

	// Sink receives the generated files instead of OutDir.
	Sink sink.OutputSink `validate:"-"`

	// Package is the package clause of the generated file. Default: the
	// name of the loaded package.
	Package string `validate:"omitempty,goident"`

	// FileName is the generated Go file.
	// Default: "prettyname_gen.go"
	FileName string `validate:"omitempty,endswith=.go,excludesall=/\\"`

	// JSONFile, when set, also writes the name table as JSON.
	JSONFile string `validate:"omitempty,endswith=.json,excludesall=/\\"`

	// Positions records directive positions in generated doc comments.
	Positions bool

	// Logger receives progress and failure records.
	// Default: slog.Default()
	Logger *slog.Logger `validate:"-"`
}

// GenerateResult describes a build pass.
type GenerateResult struct {
	// Names are the resolved entries, sorted by constant name.
	Names []golang.Entry

	// Failures are the diagnostics of references that did not resolve.
	Failures []error

	// Files lists the files written. Empty in check mode or on failure.
	Files []golang.OutputFile
}

var configValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return validGoIdent(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

func validGoIdent(s string) bool {
	return token.IsIdentifier(s) && !token.IsKeyword(s)
}

// Generate runs the build pass and writes the generated files. When any
// reference fails nothing is written; the result lists every failure and the
// returned error joins them.
func Generate(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	return run(ctx, cfg, true)
}

// Check runs the build pass without writing files.
func Check(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	return run(ctx, cfg, false)
}

func run(ctx context.Context, cfg *Config, write bool) (*GenerateResult, error) {
	if cfg == nil {
		return nil, diag.NewError(diag.CodeInvalidConfig, "config is required")
	}
	cfg = applyConfigDefaults(cfg)
	if err := configValidate.Struct(cfg); err != nil {
		return nil, diag.FromValidation(diag.CodeInvalidConfig, "config", err)
	}
	if write && cfg.Sink == nil && cfg.OutDir == "" {
		return nil, diag.NewError(diag.CodeInvalidConfig, "OutDir or Sink is required")
	}
	log := cfg.Logger

	// 1. Build the symbol index
	src, lookup, err := buildIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Scan directives
	directives, err := directive.Scan(src.Packages)
	if err != nil {
		return nil, fmt.Errorf("scan directives: %w", err)
	}

	// 3. Resolve each reference in its scope
	engine := NewEngine(lookup)
	result := &GenerateResult{}
	for _, d := range directives {
		l := symbols.At(lookup, d.Package, d.At)
		name, err := engine.ResolveIn(l, d.Reference, d.Self)
		if err != nil {
			err = locate(err, d)
			log.Error("reference failed", "reference", d.Reference, "pos", d.Pos.String(), "code", diag.CodeOf(err), "err", err)
			result.Failures = append(result.Failures, err)
			continue
		}
		log.Debug("resolved reference", "reference", d.Reference, "name", name.Value, "kind", name.Kind.String(), "pos", d.Pos.String())
		result.Names = append(result.Names, golang.Entry{
			Const:     d.ConstName(name.Value),
			Reference: d.Reference,
			Name:      name.Value,
			Kind:      name.Kind.String(),
			Static:    name.Static,
			Self:      d.SelfType,
			Doc:       d.Options.Doc,
			Pos:       relPos(d),
		})
	}
	slices.SortFunc(result.Names, func(a, b golang.Entry) int { return cmp.Compare(a.Const, b.Const) })

	// 4. Any failure aborts the pass
	if len(result.Failures) > 0 {
		log.Info("name resolution failed", "references", len(directives), "failed", len(result.Failures))
		return result, errors.Join(result.Failures...)
	}
	if !write {
		log.Info("checked references", "references", len(directives), "failed", 0)
		return result, nil
	}

	// 5. Emit the constant table
	pkgName, err := packageName(cfg, src)
	if err != nil {
		return result, err
	}
	out := cfg.Sink
	if out == nil {
		out = sink.NewFilesystemSink(cfg.OutDir)
	}
	gen := &golang.ConstGenerator{}
	genResult, err := gen.Generate(ctx, result.Names, golang.GenerateOptions{
		Sink: out,
		Config: golang.GeneratorConfig{
			Package:   pkgName,
			FileName:  cfg.FileName,
			JSONFile:  cfg.JSONFile,
			Positions: cfg.Positions,
		},
	})
	if err != nil {
		return result, fmt.Errorf("failed to generate Go: %w", err)
	}
	result.Files = genResult.Files
	log.Info("generated names", "references", len(directives), "failed", 0, "files", len(result.Files))
	return result, nil
}

// buildIndex loads the packages and merges the manifests into their index.
func buildIndex(ctx context.Context, cfg *Config) (*symbols.SourceIndex, *symbols.Index, error) {
	p := &symbols.SourceProvider{}
	src, err := p.BuildIndex(ctx, symbols.SourceInputOptions{
		Packages: cfg.Packages,
		Dir:      cfg.Dir,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build symbol index: %w", err)
	}
	merged, err := mergeManifests(src.Index, cfg.Manifests, cfg.Dir, cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	return src, merged, nil
}

// IndexOptions selects the declarations LoadIndex reads.
type IndexOptions struct {
	// Packages are Go package patterns. May be empty.
	Packages []string

	// Manifests are YAML declaration files. May be empty.
	Manifests []string

	// Dir is the directory patterns and manifests are resolved in.
	Dir string

	// Logger receives debug records. Default: slog.Default()
	Logger *slog.Logger
}

// LoadIndex builds a symbol index from Go packages and manifests without
// scanning directives.
func LoadIndex(ctx context.Context, opts IndexOptions) (*symbols.Index, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	base := symbols.NewIndex()
	if len(opts.Packages) > 0 {
		p := &symbols.SourceProvider{}
		src, err := p.BuildIndex(ctx, symbols.SourceInputOptions{
			Packages: opts.Packages,
			Dir:      opts.Dir,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build symbol index: %w", err)
		}
		opts.Logger.Debug("loaded packages", "index", src.String())
		base = src.Index
	}
	return mergeManifests(base, opts.Manifests, opts.Dir, opts.Logger)
}

func mergeManifests(base *symbols.Index, manifests []string, dir string, log *slog.Logger) (*symbols.Index, error) {
	if len(manifests) == 0 {
		return base, nil
	}
	indexes := []*symbols.Index{base}
	for _, path := range manifests {
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		m, err := symbols.LoadManifest(path)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, m)
	}
	merged, err := symbols.Merge(indexes...)
	if err != nil {
		return nil, diag.Errorf(diag.CodeInvalidManifest, "%v", err)
	}
	log.Debug("merged manifests", "manifests", len(manifests), "types", len(merged.Types()), "bindings", len(merged.Bindings()))
	return merged, nil
}

// locate positions a failure at its directive.
func locate(err error, d directive.Directive) error {
	var de *diag.Error
	if errors.As(err, &de) {
		return de.WithReference(d.Reference, "").WithPos(d.Pos)
	}
	return fmt.Errorf("%s: reference %q: %w", d.Pos, d.Reference, err)
}

// relPos is the directive position with the file name reduced to its base,
// so that generated output does not depend on the checkout location.
func relPos(d directive.Directive) string {
	p := d.Pos
	p.Filename = filepath.Base(p.Filename)
	return p.String()
}

func packageName(cfg *Config, src *symbols.SourceIndex) (string, error) {
	if cfg.Package != "" {
		return cfg.Package, nil
	}
	var name string
	for _, pkg := range src.Packages {
		if name != "" && pkg.Name != name {
			return "", diag.Errorf(diag.CodeInvalidConfig,
				"packages %s and %s are both loaded; set Package for the generated file", name, pkg.Name)
		}
		name = pkg.Name
	}
	return name, nil
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.FileName == "" {
		result.FileName = golang.DefaultFileName
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}

	return &result
}
