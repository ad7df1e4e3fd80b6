package namegen

import (
	"context"
	"log/slog"

	"github.com/broady/prettyname/namegen/sink"
)

// Generator provides a fluent API for the build pass.
// Create with FromPackages() and configure with method chaining.
//
// Example:
//
//	namegen.FromPackages("./shapes").
//	    WithManifest("decls.yaml").
//	    WithJSON("names.json").
//	    ToDir("./shapes")
type Generator struct {
	cfg Config
}

// FromPackages creates a Generator for the given Go package patterns.
func FromPackages(patterns ...string) *Generator {
	return &Generator{cfg: Config{Packages: patterns}}
}

// InDir resolves package patterns relative to dir.
func (g *Generator) InDir(dir string) *Generator {
	g.cfg.Dir = dir
	return g
}

// WithManifest adds declaration manifests. Can be called multiple times.
func (g *Generator) WithManifest(paths ...string) *Generator {
	g.cfg.Manifests = append(g.cfg.Manifests, paths...)
	return g
}

// Package sets the package clause of the generated file.
func (g *Generator) Package(name string) *Generator {
	g.cfg.Package = name
	return g
}

// FileName sets the generated Go file name.
func (g *Generator) FileName(name string) *Generator {
	g.cfg.FileName = name
	return g
}

// WithJSON also writes the name table as JSON to the named file.
func (g *Generator) WithJSON(name string) *Generator {
	g.cfg.JSONFile = name
	return g
}

// WithPositions records directive positions in the generated doc comments.
func (g *Generator) WithPositions() *Generator {
	g.cfg.Positions = true
	return g
}

// WithLogger sets the logger. The default is slog.Default().
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	g.cfg.Logger = l
	return g
}

// ToDir generates files to the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*GenerateResult, error) {
	g.cfg.OutDir = dir
	return Generate(context.Background(), &g.cfg)
}

// ToSink generates files into s.
func (g *Generator) ToSink(s sink.OutputSink) (*GenerateResult, error) {
	g.cfg.Sink = s
	return Generate(context.Background(), &g.cfg)
}

// Check resolves every directive without writing anything.
func (g *Generator) Check() (*GenerateResult, error) {
	return Check(context.Background(), &g.cfg)
}

// Config returns a copy of the accumulated configuration.
func (g *Generator) Config() Config {
	return g.cfg
}
