// Package golang emits resolved names as a Go constant table.
package golang

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"go/format"
	"slices"
	"strconv"
	"strings"
)

// Header marks generated files.
const Header = "// Code generated by prettyname; DO NOT EDIT."

// DefaultFileName is the generated Go file name.
const DefaultFileName = "prettyname_gen.go"

// ConstGenerator writes a const block of resolved names.
type ConstGenerator struct{}

// Name returns "go".
func (g *ConstGenerator) Name() string { return "go" }

// Generate writes the constant table, sorted by constant name, and the JSON
// table if configured. Duplicate or invalid constant names are errors and
// nothing is written.
func (g *ConstGenerator) Generate(ctx context.Context, entries []Entry, opts GenerateOptions) (*GenerateResult, error) {
	if opts.Sink == nil {
		return nil, fmt.Errorf("golang: no output sink")
	}
	cfg := opts.Config
	if cfg.FileName == "" {
		cfg.FileName = DefaultFileName
	}
	if !validConst(cfg.Package) {
		return nil, fmt.Errorf("golang: invalid package name %q", cfg.Package)
	}

	sorted, err := prepare(entries)
	if err != nil {
		return nil, err
	}

	src, err := Emit(cfg, sorted)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{Constants: len(sorted)}
	if err := opts.Sink.WriteFile(ctx, cfg.FileName, src); err != nil {
		return nil, fmt.Errorf("golang: write %s: %w", cfg.FileName, err)
	}
	result.Files = append(result.Files, OutputFile{Path: cfg.FileName, Size: int64(len(src))})

	if cfg.JSONFile != "" {
		data, err := json.MarshalIndent(sorted, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("golang: encode %s: %w", cfg.JSONFile, err)
		}
		data = append(data, '\n')
		if err := opts.Sink.WriteFile(ctx, cfg.JSONFile, data); err != nil {
			return nil, fmt.Errorf("golang: write %s: %w", cfg.JSONFile, err)
		}
		result.Files = append(result.Files, OutputFile{Path: cfg.JSONFile, Size: int64(len(data))})
	}
	return result, nil
}

// prepare escapes, checks and sorts the entries. The input is not modified.
func prepare(entries []Entry) ([]Entry, error) {
	out := make([]Entry, len(entries))
	seen := make(map[string]Entry, len(entries))
	var problems []string
	for i, e := range entries {
		e.Const = escapePredeclared(e.Const)
		if !validConst(e.Const) {
			problems = append(problems, fmt.Sprintf("%s: %q is not a valid constant name", e.Pos, e.Const))
		}
		if prev, dup := seen[e.Const]; dup {
			problems = append(problems, fmt.Sprintf("%s: constant %s already declared for %q at %s",
				e.Pos, e.Const, prev.Reference, prev.Pos))
		} else {
			seen[e.Const] = e
		}
		out[i] = e
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("golang: %s", strings.Join(problems, "\n"))
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.Const, b.Const) })
	return out, nil
}

// Emit renders and formats the Go source for already prepared entries.
func Emit(cfg GeneratorConfig, entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", cfg.Package)

	if len(entries) > 0 {
		buf.WriteString("// Names resolved from //prettyname:name directives.\n")
		buf.WriteString("const (\n")
		for i, e := range entries {
			if i > 0 {
				buf.WriteString("\n")
			}
			emitDoc(&buf, e, cfg.Positions)
			fmt.Fprintf(&buf, "\t%s = %s\n", e.Const, strconv.Quote(e.Name))
		}
		buf.WriteString(")\n")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("golang: format generated source: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}

func emitDoc(buf *bytes.Buffer, e Entry, positions bool) {
	doc := e.Doc
	if doc == "" {
		doc = "is the name of " + e.Reference
		if e.Self != "" {
			doc += " in " + e.Self
		}
		doc += "."
	}
	for i, line := range strings.Split(doc, "\n") {
		buf.WriteString("\t//")
		if i == 0 {
			buf.WriteString(" " + e.Const)
		}
		if line = strings.TrimSpace(line); line != "" {
			buf.WriteString(" " + line)
		}
		buf.WriteString("\n")
	}
	if positions && e.Pos != "" {
		fmt.Fprintf(buf, "\t//\n\t// Declared at %s.\n", e.Pos)
	}
}
