// Package namegen resolves name references at build time.
//
// A reference goes through four stages: it is parsed, its Self placeholder
// is replaced by the enclosing type, it is checked against the declarations
// of a symbol index, and its canonical name is composed. Any failure is a
// diagnostic; there is no fallback name.
//
// The build pass (Generate) loads Go packages, finds their
// //prettyname:name directives and writes a table of string constants.
package namegen

import (
	"github.com/broady/prettyname/namegen/compose"
	"github.com/broady/prettyname/namegen/resolve"
	"github.com/broady/prettyname/namegen/symbols"
	"github.com/broady/prettyname/namegen/syntax"
	"github.com/broady/prettyname/namegen/validate"
)

// Engine runs the resolution pipeline against a symbol index.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	Lookup symbols.Lookup
}

// NewEngine returns an engine over lookup. A nil lookup declares nothing.
func NewEngine(lookup symbols.Lookup) *Engine {
	if lookup == nil {
		lookup = symbols.NewIndex()
	}
	return &Engine{Lookup: lookup}
}

// Resolve returns the canonical name of the reference text. scope binds
// Self; nil means there is no enclosing type.
func (e *Engine) Resolve(text string, scope resolve.Scope) (compose.Name, error) {
	return e.ResolveIn(e.Lookup, text, scope)
}

// ResolveIn is Resolve against another lookup, typically the engine's
// lookup layered with local variables.
func (e *Engine) ResolveIn(lookup symbols.Lookup, text string, scope resolve.Scope) (compose.Name, error) {
	ref, err := syntax.ParseReference(text)
	if err != nil {
		return compose.Name{}, err
	}
	ref, err = resolve.Self(ref, scope)
	if err != nil {
		return compose.Name{}, err
	}
	ref, err = validate.Validator{Lookup: lookup}.Validate(ref)
	if err != nil {
		return compose.Name{}, err
	}
	return compose.Compose(ref)
}
