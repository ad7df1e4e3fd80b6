package prettyname

import (
	"context"
	"reflect"
	"sync"

	"github.com/broady/prettyname/namegen"
	"github.com/broady/prettyname/namegen/compose"
	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/ir"
	"github.com/broady/prettyname/namegen/resolve"
	"github.com/broady/prettyname/namegen/symbols"
	"github.com/broady/prettyname/namegen/syntax"
)

// Resolver resolves references against a symbol index and remembers the
// names it has computed. It is safe for concurrent use.
type Resolver struct {
	engine *namegen.Engine
	names  sync.Map // resolveKey -> compose.Name
}

type resolveKey struct {
	ref   string
	scope string
}

// NewResolver returns a resolver over lookup, typically an index built by
// symbols.SourceProvider or symbols.LoadManifest. A nil lookup declares
// nothing.
func NewResolver(lookup symbols.Lookup) *Resolver {
	return &Resolver{engine: namegen.NewEngine(lookup)}
}

// NewTypeResolver returns a resolver over the given run-time types and the
// named types reachable from their fields. Reflection sees fields and exported
// methods only; enum variants need a manifest or the Go source.
func NewTypeResolver(ctx context.Context, types ...reflect.Type) (*Resolver, error) {
	idx, err := (&symbols.ReflectionProvider{}).BuildIndex(ctx, symbols.ReflectionInputOptions{RootTypes: types})
	if err != nil {
		return nil, err
	}
	return NewResolver(idx), nil
}

// ResolveOption configures a single resolution.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	self string
}

// InScope binds Self to selfType, written as a type path with its
// parameters: "Stack<T>", "geometry::Point".
func InScope(selfType string) ResolveOption {
	return func(o *resolveOptions) { o.self = selfType }
}

// Resolve returns the canonical name of ref.
func (r *Resolver) Resolve(ref string, opts ...ResolveOption) (string, error) {
	n, err := r.ResolveName(ref, opts...)
	if err != nil {
		return "", err
	}
	return n.Value, nil
}

// ResolveName is like Resolve but returns the full composed name.
// Failures are not remembered.
func (r *Resolver) ResolveName(ref string, opts ...ResolveOption) (compose.Name, error) {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}
	key := resolveKey{ref: ref, scope: o.self}
	if n, ok := r.names.Load(key); ok {
		return n.(compose.Name), nil
	}

	scope, err := parseScope(o.self)
	if err != nil {
		return compose.Name{}, err
	}
	n, err := r.engine.Resolve(ref, scope)
	if err != nil {
		return compose.Name{}, err
	}
	stored, _ := r.names.LoadOrStore(key, n)
	return stored.(compose.Name), nil
}

// TypeOf returns the declared type of the named value binding.
func (r *Resolver) TypeOf(binding string) (string, error) {
	b, ok := r.engine.Lookup.LookupBinding(binding)
	if !ok {
		return "", diag.Errorf(diag.CodeUnknownIdentifierOrType,
			"no variable, constant, static or function named %s is declared", binding).
			WithReference(binding, "ident")
	}
	if b.Type == "" {
		return "", diag.Errorf(diag.CodeUnknownIdentifierOrType,
			"%s is declared without a type", binding).
			WithReference(binding, "ident")
	}
	return b.Type, nil
}

func parseScope(self string) (resolve.Scope, error) {
	if self == "" {
		return resolve.NoScope, nil
	}
	t, err := syntax.ParseType(self)
	if err != nil {
		return nil, err
	}
	p, ok := t.(*ir.PathExpr)
	if !ok || p.QSelf != nil {
		return nil, diag.Errorf(diag.CodeMalformedReference,
			"scope %q is not a type path", self)
	}
	return resolve.PathScope(p), nil
}
