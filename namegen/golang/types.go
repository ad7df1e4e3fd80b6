package golang

import (
	"context"

	"github.com/broady/prettyname/namegen/sink"
)

// Generator turns resolved names into source files.
type Generator interface {
	// Name returns the generator's identifier.
	Name() string

	// Generate writes the files for entries to opts.Sink.
	Generate(ctx context.Context, entries []Entry, opts GenerateOptions) (*GenerateResult, error)
}

// Entry is one resolved reference.
type Entry struct {
	// Const is the generated constant name.
	Const string `json:"const"`

	// Reference is the reference as written in the directive.
	Reference string `json:"reference"`

	// Name is the composed canonical name.
	Name string `json:"name"`

	// Kind is the member kind, e.g. "field" or "tuple variant".
	Kind string `json:"kind"`

	// Static reports whether the name is made of bare identifiers only.
	Static bool `json:"static"`

	// Self is the enclosing type, if any.
	Self string `json:"self,omitempty"`

	// Doc is the doc comment text for the constant.
	Doc string `json:"doc,omitempty"`

	// Pos is the directive position, file:line:column.
	Pos string `json:"pos,omitempty"`
}

// GenerateOptions configures generation behavior.
type GenerateOptions struct {
	// Sink receives generated output files.
	Sink sink.OutputSink

	Config GeneratorConfig
}

// GeneratorConfig controls the generated files.
type GeneratorConfig struct {
	// Package is the package clause of the generated file.
	Package string

	// FileName is the generated Go file. Default: prettyname_gen.go.
	FileName string

	// JSONFile, when set, also writes the table as JSON.
	JSONFile string

	// Positions adds the directive position to each constant's doc comment.
	Positions bool
}

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files that were written.
	Files []OutputFile

	// Constants is the number of constants generated.
	Constants int
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Size is the number of bytes written.
	Size int64
}
