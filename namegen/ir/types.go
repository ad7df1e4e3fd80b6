// Package ir defines the data model of the name resolution pipeline: parsed
// type expressions and reference descriptors.
//
// The types are syntax trees, not semantic types. They preserve what was
// written (paths, lifetimes, generic arguments) so that the renderer can
// decide what to discard.
package ir

// PathRewriter is called for every path in a tree, children first. It returns
// the replacement expression and true, or false to keep the path.
type PathRewriter func(p *PathExpr) (TypeExpr, bool)

// Rewrite returns a copy of t in which paths accepted by fn are replaced.
// It never mutates t. Sub-trees without replacements are shared.
func Rewrite(t TypeExpr, fn PathRewriter) TypeExpr {
	if t == nil {
		return nil
	}
	switch e := t.(type) {
	case *PathExpr:
		p := rewritePath(e, fn)
		if repl, ok := fn(p); ok {
			return repl
		}
		return p
	case *RefExpr:
		elem := Rewrite(e.Elem, fn)
		if elem == e.Elem {
			return e
		}
		return &RefExpr{Lifetime: e.Lifetime, Mut: e.Mut, Elem: elem}
	case *PtrExpr:
		elem := Rewrite(e.Elem, fn)
		if elem == e.Elem {
			return e
		}
		return &PtrExpr{Mut: e.Mut, Elem: elem}
	case *SliceExpr:
		elem := Rewrite(e.Elem, fn)
		if elem == e.Elem {
			return e
		}
		return &SliceExpr{Elem: elem}
	case *ArrayExpr:
		elem := Rewrite(e.Elem, fn)
		if elem == e.Elem {
			return e
		}
		return &ArrayExpr{Elem: elem, Len: e.Len}
	case *TupleExpr:
		elems, changed := rewriteList(e.Elems, fn)
		if !changed {
			return e
		}
		return &TupleExpr{Elems: elems}
	case *FnExpr:
		inputs, changed := rewriteList(e.Inputs, fn)
		output := Rewrite(e.Output, fn)
		if !changed && output == e.Output {
			return e
		}
		c := *e
		c.Inputs = inputs
		c.Output = output
		return &c
	case *TraitObjectExpr:
		bounds, changed := rewriteBounds(e.Bounds, fn)
		if !changed {
			return e
		}
		return &TraitObjectExpr{Bounds: bounds}
	case *ImplTraitExpr:
		bounds, changed := rewriteBounds(e.Bounds, fn)
		if !changed {
			return e
		}
		return &ImplTraitExpr{Bounds: bounds}
	case *ParenExpr:
		elem := Rewrite(e.Elem, fn)
		if elem == e.Elem {
			return e
		}
		return &ParenExpr{Elem: elem}
	default:
		return t
	}
}

// rewritePath rewrites the children of p; fn is not applied to p itself.
func rewritePath(p *PathExpr, fn PathRewriter) *PathExpr {
	changed := false
	var qself *QSelf
	if p.QSelf != nil {
		qt := Rewrite(p.QSelf.Type, fn)
		var trait *PathExpr
		if p.QSelf.Trait != nil {
			trait = rewritePath(p.QSelf.Trait, fn)
		}
		qself = &QSelf{Type: qt, Trait: trait}
		changed = qt != p.QSelf.Type || trait != p.QSelf.Trait
	}
	segs := make([]PathSegment, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = s
		if len(s.Args) > 0 {
			args := make([]GenericArg, len(s.Args))
			for j, a := range s.Args {
				args[j] = a
				if a.Type != nil {
					args[j].Type = Rewrite(a.Type, fn)
					changed = changed || args[j].Type != a.Type
				}
			}
			segs[i].Args = args
		}
		if s.Fn != nil {
			inputs, c := rewriteList(s.Fn.Inputs, fn)
			output := Rewrite(s.Fn.Output, fn)
			if c || output != s.Fn.Output {
				segs[i].Fn = &FnArgs{Inputs: inputs, Output: output}
				changed = true
			}
		}
	}
	if !changed {
		return p
	}
	return &PathExpr{Global: p.Global, QSelf: qself, Segments: segs}
}

func rewriteList(ts []TypeExpr, fn PathRewriter) ([]TypeExpr, bool) {
	if len(ts) == 0 {
		return ts, false
	}
	out := make([]TypeExpr, len(ts))
	changed := false
	for i, t := range ts {
		out[i] = Rewrite(t, fn)
		changed = changed || out[i] != t
	}
	return out, changed
}

func rewriteBounds(bs []Bound, fn PathRewriter) ([]Bound, bool) {
	out := make([]Bound, len(bs))
	changed := false
	for i, b := range bs {
		out[i] = b
		if b.Trait != nil {
			out[i].Trait = rewritePath(b.Trait, fn)
			changed = changed || out[i].Trait != b.Trait
		}
	}
	return out, changed
}

// ContainsPath reports whether any path in t satisfies pred.
func ContainsPath(t TypeExpr, pred func(*PathExpr) bool) bool {
	found := false
	Rewrite(t, func(p *PathExpr) (TypeExpr, bool) {
		if !found && pred(p) {
			found = true
		}
		return nil, false
	})
	return found
}
