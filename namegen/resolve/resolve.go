// Package resolve substitutes the Self placeholder of a reference with the
// type it is bound to in the enclosing scope.
//
// Substitution is purely syntactic. Self::Assoc inside a type becomes the
// qualified path <Foo<T>>::Assoc; no trait or projection is looked at.
package resolve

import (
	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/ir"
)

// Scope reports what Self is bound to at the point a reference appears.
type Scope interface {
	// SelfType returns the enclosing type with its declared generic
	// parameters, or false if there is none (e.g. in a free function).
	SelfType() (*ir.PathExpr, bool)
}

type noScope struct{}

func (noScope) SelfType() (*ir.PathExpr, bool) { return nil, false }

// NoScope is a scope without an enclosing type.
var NoScope Scope = noScope{}

type pathScope struct{ p *ir.PathExpr }

func (s pathScope) SelfType() (*ir.PathExpr, bool) { return s.p, true }

// PathScope binds Self to p.
func PathScope(p *ir.PathExpr) Scope {
	if p == nil {
		return NoScope
	}
	return pathScope{p}
}

// TypeScope binds Self to the named type with the given type parameters.
func TypeScope(name string, params ...string) Scope {
	args := make([]ir.TypeExpr, len(params))
	for i, p := range params {
		args[i] = ir.Ident(p)
	}
	return pathScope{ir.Generic(name, args...)}
}

// Self returns ref with every Self placeholder replaced by the scope's type.
// A reference without placeholders is returned unchanged. The input is not
// modified.
func Self(ref ir.Reference, scope Scope) (ir.Reference, error) {
	if !HasSelf(ref) {
		return ref, nil
	}
	if scope == nil {
		scope = NoScope
	}
	self, ok := scope.SelfType()
	if !ok {
		return ref, diag.NewError(diag.CodeSelfOutsideImpl,
			"Self used outside of a method or type declaration").
			WithReference(ref.Text, ref.Shape())
	}

	out := ref
	switch {
	case ref.Base.IsSelf() && self.IsIdent():
		out.Base = ir.Base{Ident: self.Last().Name, Resolved: true}
	case ref.Base.IsSelf():
		out.Base = ir.Base{Type: self, Resolved: true}
	case ref.Base.Type != nil:
		out.Base.Type = substitute(ref.Base.Type, self)
	}
	if len(ref.Generics.Args) > 0 {
		args := make([]ir.TypeExpr, len(ref.Generics.Args))
		for i, a := range ref.Generics.Args {
			args[i] = substitute(a, self)
		}
		out.Generics.Args = args
	}
	return out, nil
}

// HasSelf reports whether ref contains the Self placeholder anywhere.
func HasSelf(ref ir.Reference) bool {
	if ref.Base.IsSelf() {
		return true
	}
	if ref.Base.Type != nil && ir.ContainsPath(ref.Base.Type, isSelfPath) {
		return true
	}
	for _, a := range ref.Generics.Args {
		if ir.ContainsPath(a, isSelfPath) {
			return true
		}
	}
	return false
}

func isSelfPath(p *ir.PathExpr) bool {
	return !p.Global && p.QSelf == nil && len(p.Segments) > 0 &&
		p.Segments[0].Name == ir.SelfPlaceholder
}

func substitute(t ir.TypeExpr, self *ir.PathExpr) ir.TypeExpr {
	return ir.Rewrite(t, func(p *ir.PathExpr) (ir.TypeExpr, bool) {
		if !isSelfPath(p) {
			return nil, false
		}
		if len(p.Segments) == 1 {
			return self, true
		}
		// Self::Assoc becomes <Self>::Assoc.
		return &ir.PathExpr{
			QSelf:    &ir.QSelf{Type: self},
			Segments: p.Segments[1:],
		}, true
	})
}
