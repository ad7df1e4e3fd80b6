package syntax

import (
	"fmt"
	"strings"

	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/ir"
)

// parser is a recursive-descent parser over a token slice.
type parser struct {
	src  string
	toks []token
	pos  int
}

func newParser(src string) (*parser, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	return &parser{src: src, toks: toks}, nil
}

func (p *parser) peek() token       { return p.toks[p.pos] }
func (p *parser) peekAt(n int) token { return p.toks[min(p.pos+n, len(p.toks)-1)] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) at(kind tokenKind) bool { return p.peek().kind == kind }

func (p *parser) atKeyword(kw string) bool {
	t := p.peek()
	return t.kind == tokIdent && t.text == kw
}

func (p *parser) accept(kind tokenKind) bool {
	if p.at(kind) {
		p.next()
		return true
	}
	return false
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.atKeyword(kw) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.errorf("expected %s, found %s", kind, t.describe())
	}
	return p.next(), nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.peek().off, fmt.Sprintf(format, args...))
}

// ParseType parses a complete type expression.
func ParseType(src string) (ir.TypeExpr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, diag.Errorf(diag.CodeMalformedReference, "type %q: %v", src, err)
	}
	t, err := p.parseType(true)
	if err == nil && !p.at(tokEOF) {
		err = p.errorf("unexpected %s after type", p.peek().describe())
	}
	if err != nil {
		return nil, diag.Errorf(diag.CodeMalformedReference, "type %q: %v", src, err)
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error. It is intended for
// tests and static tables.
func MustParseType(src string) ir.TypeExpr {
	t, err := ParseType(src)
	if err != nil {
		panic(err)
	}
	return t
}

// parseType parses a type. allowPlus controls whether a trailing "+ Bound"
// list is accepted, mirroring the places where the grammar allows a bare
// trait object with several bounds.
func (p *parser) parseType(allowPlus bool) (ir.TypeExpr, error) {
	t := p.peek()
	switch t.kind {
	case tokAmp:
		p.next()
		ref := &ir.RefExpr{}
		if p.at(tokLifetime) {
			ref.Lifetime = p.next().text
		}
		ref.Mut = p.acceptKeyword("mut")
		elem, err := p.parseType(false)
		if err != nil {
			return nil, err
		}
		ref.Elem = elem
		return p.rejectPlus(ref)

	case tokStar:
		p.next()
		ptr := &ir.PtrExpr{}
		switch {
		case p.acceptKeyword("mut"):
			ptr.Mut = true
		case p.acceptKeyword("const"):
		default:
			return nil, p.errorf("expected 'const' or 'mut' after '*', found %s", p.peek().describe())
		}
		elem, err := p.parseType(false)
		if err != nil {
			return nil, err
		}
		ptr.Elem = elem
		return p.rejectPlus(ptr)

	case tokLBrack:
		return p.parseSliceOrArray()

	case tokLParen:
		return p.parseTupleOrParen(allowPlus)

	case tokBang:
		p.next()
		return &ir.NeverExpr{}, nil

	case tokUnder:
		p.next()
		return &ir.InferExpr{}, nil

	case tokQuestion:
		// ?Sized as a bare bound list start
		if !allowPlus {
			return nil, p.errorf("unexpected '?'")
		}
		bounds, err := p.parseBounds(true)
		if err != nil {
			return nil, err
		}
		return &ir.TraitObjectExpr{Bounds: bounds}, nil

	case tokLt, tokColon2:
		return p.parsePathType(allowPlus)

	case tokIdent:
		switch t.text {
		case "dyn":
			p.next()
			bounds, err := p.parseBounds(allowPlus)
			if err != nil {
				return nil, err
			}
			return &ir.TraitObjectExpr{Bounds: bounds}, nil
		case "impl":
			p.next()
			bounds, err := p.parseBounds(allowPlus)
			if err != nil {
				return nil, err
			}
			return &ir.ImplTraitExpr{Bounds: bounds}, nil
		case "fn", "unsafe", "extern", "for":
			return p.parseFn()
		}
		if keywords[t.text] {
			return nil, p.errorf("unexpected keyword %q", t.text)
		}
		return p.parsePathType(allowPlus)
	}
	return nil, p.errorf("expected type, found %s", t.describe())
}

// rejectPlus reports the ambiguous &dyn A + B form.
func (p *parser) rejectPlus(t ir.TypeExpr) (ir.TypeExpr, error) {
	if p.at(tokPlus) {
		return nil, p.errorf("ambiguous '+' in type; use parentheses")
	}
	return t, nil
}

// parsePathType parses a path and, when allowed, a trailing "+ Bound" list
// turning it into a bare trait object.
func (p *parser) parsePathType(allowPlus bool) (ir.TypeExpr, error) {
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if allowPlus && p.at(tokPlus) {
		bounds := []ir.Bound{{Trait: path}}
		for p.accept(tokPlus) {
			b, err := p.parseBound()
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, b)
		}
		return &ir.TraitObjectExpr{Bounds: bounds}, nil
	}
	return path, nil
}

// parsePath parses [::] seg (:: seg)* or a qualified <T as Trait>::seg path.
func (p *parser) parsePath() (*ir.PathExpr, error) {
	path := &ir.PathExpr{}
	if p.at(tokLt) {
		p.next()
		qt, err := p.parseType(true)
		if err != nil {
			return nil, err
		}
		qself := &ir.QSelf{Type: qt}
		if p.acceptKeyword("as") {
			trait, err := p.parsePath()
			if err != nil {
				return nil, err
			}
			qself.Trait = trait
		}
		if _, err := p.expect(tokGt); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon2); err != nil {
			return nil, err
		}
		path.QSelf = qself
	} else if p.accept(tokColon2) {
		path.Global = true
	}

	for {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		path.Segments = append(path.Segments, seg)
		// A "::" followed by "<" is a turbofish on the segment just parsed.
		if p.at(tokColon2) && p.peekAt(1).kind == tokLt && len(seg.Args) == 0 {
			p.next()
			args, err := p.parseGenericArgs()
			if err != nil {
				return nil, err
			}
			path.Segments[len(path.Segments)-1].Args = args
		}
		if !p.at(tokColon2) || p.peekAt(1).kind != tokIdent {
			break
		}
		p.next()
	}
	return path, nil
}

func (p *parser) parseSegment() (ir.PathSegment, error) {
	t := p.peek()
	if t.kind != tokIdent {
		return ir.PathSegment{}, p.errorf("expected path segment, found %s", t.describe())
	}
	if keywords[t.text] {
		return ir.PathSegment{}, p.errorf("unexpected keyword %q in path", t.text)
	}
	p.next()
	seg := ir.PathSegment{Name: t.text}
	switch {
	case p.at(tokLt):
		args, err := p.parseGenericArgs()
		if err != nil {
			return seg, err
		}
		seg.Args = args
	case p.at(tokLParen) && isFnTrait(t.text):
		fa, err := p.parseFnArgs()
		if err != nil {
			return seg, err
		}
		seg.Fn = fa
	}
	return seg, nil
}

// isFnTrait reports whether a segment takes parenthesized arguments.
func isFnTrait(name string) bool {
	switch name {
	case "Fn", "FnMut", "FnOnce", "AsyncFn", "AsyncFnMut", "AsyncFnOnce":
		return true
	}
	return false
}

// parseGenericArgs parses "<" arg ("," arg)* [","] ">".
func (p *parser) parseGenericArgs() ([]ir.GenericArg, error) {
	if _, err := p.expect(tokLt); err != nil {
		return nil, err
	}
	args := []ir.GenericArg{}
	for !p.at(tokGt) {
		arg, err := p.parseGenericArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(tokComma) {
			break
		}
	}
	if _, err := p.expect(tokGt); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseGenericArg() (ir.GenericArg, error) {
	t := p.peek()
	switch {
	case t.kind == tokLifetime:
		p.next()
		return ir.GenericArg{Kind: ir.ArgLifetime, Name: t.text}, nil
	case t.kind == tokInt:
		p.next()
		return ir.GenericArg{Kind: ir.ArgConst, Value: t.text}, nil
	case t.kind == tokLBrace:
		v, err := p.parseBraced()
		if err != nil {
			return ir.GenericArg{}, err
		}
		return ir.GenericArg{Kind: ir.ArgConst, Value: v}, nil
	case t.kind == tokIdent && p.peekAt(1).kind == tokEq:
		p.next()
		p.next()
		bt, err := p.parseType(true)
		if err != nil {
			return ir.GenericArg{}, err
		}
		return ir.GenericArg{Kind: ir.ArgBinding, Name: t.text, Type: bt}, nil
	}
	typ, err := p.parseType(true)
	if err != nil {
		return ir.GenericArg{}, err
	}
	return ir.TypeArg(typ), nil
}

// parseBraced consumes a balanced { ... } block and returns its normalized text.
func (p *parser) parseBraced() (string, error) {
	start := p.peek()
	depth := 0
	for {
		t := p.next()
		switch t.kind {
		case tokLBrace:
			depth++
		case tokRBrace:
			depth--
			if depth == 0 {
				return normalizeSpace(p.src[start.off : t.off+len(t.text)]), nil
			}
		case tokEOF:
			return "", p.errorf("unbalanced '{'")
		}
	}
}

// parseBounds parses Bound ("+" Bound)*; at least one trait bound is required.
func (p *parser) parseBounds(allowPlus bool) ([]ir.Bound, error) {
	var bounds []ir.Bound
	for {
		b, err := p.parseBound()
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, b)
		if !allowPlus || !p.accept(tokPlus) {
			break
		}
	}
	hasTrait := false
	for _, b := range bounds {
		if b.Trait != nil && !b.Maybe {
			hasTrait = true
			break
		}
	}
	if !hasTrait {
		return nil, p.errorf("at least one trait is required for an object type")
	}
	return bounds, nil
}

func (p *parser) parseBound() (ir.Bound, error) {
	if p.at(tokLifetime) {
		return ir.Bound{Lifetime: p.next().text}, nil
	}
	paren := p.accept(tokLParen)
	maybe := p.accept(tokQuestion)
	if p.acceptKeyword("for") {
		if _, err := p.parseLifetimeParams(); err != nil {
			return ir.Bound{}, err
		}
	}
	path, err := p.parsePath()
	if err != nil {
		return ir.Bound{}, err
	}
	if paren {
		if _, err := p.expect(tokRParen); err != nil {
			return ir.Bound{}, err
		}
	}
	return ir.Bound{Trait: path, Maybe: maybe}, nil
}

// parseLifetimeParams parses the <'a, 'b> of a for<...> binder.
func (p *parser) parseLifetimeParams() ([]string, error) {
	if _, err := p.expect(tokLt); err != nil {
		return nil, err
	}
	var lts []string
	for p.at(tokLifetime) {
		lts = append(lts, p.next().text)
		if !p.accept(tokComma) {
			break
		}
	}
	if _, err := p.expect(tokGt); err != nil {
		return nil, err
	}
	return lts, nil
}

// parseFnArgs parses the (A, B) -> C of an Fn-family trait.
func (p *parser) parseFnArgs() (*ir.FnArgs, error) {
	inputs, _, err := p.parseFnInputs(false)
	if err != nil {
		return nil, err
	}
	fa := &ir.FnArgs{Inputs: inputs}
	if p.accept(tokArrow) {
		out, err := p.parseType(false)
		if err != nil {
			return nil, err
		}
		fa.Output = out
	}
	return fa, nil
}

// parseFnInputs parses a parenthesized, comma-separated input list. Parameter
// names (x: T) are accepted and dropped.
func (p *parser) parseFnInputs(allowVariadic bool) ([]ir.TypeExpr, bool, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, false, err
	}
	var inputs []ir.TypeExpr
	variadic := false
	for !p.at(tokRParen) {
		if allowVariadic && p.at(tokEllipsis) {
			p.next()
			variadic = true
			p.accept(tokComma)
			break
		}
		if (p.at(tokIdent) || p.at(tokUnder)) && p.peekAt(1).kind == tokColon {
			p.next()
			p.next()
		}
		in, err := p.parseType(true)
		if err != nil {
			return nil, false, err
		}
		inputs = append(inputs, in)
		if !p.accept(tokComma) {
			break
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, false, err
	}
	return inputs, variadic, nil
}

// parseFn parses [for<'a>] [unsafe] [extern ["ABI"]] fn(...) [-> T].
func (p *parser) parseFn() (ir.TypeExpr, error) {
	fn := &ir.FnExpr{}
	if p.acceptKeyword("for") {
		lts, err := p.parseLifetimeParams()
		if err != nil {
			return nil, err
		}
		fn.Lifetimes = lts
	}
	fn.Unsafe = p.acceptKeyword("unsafe")
	if p.acceptKeyword("extern") {
		abi := ""
		if p.at(tokString) {
			abi = p.next().text
		}
		fn.ABI = &abi
	}
	if !p.acceptKeyword("fn") {
		return nil, p.errorf("expected 'fn', found %s", p.peek().describe())
	}
	inputs, variadic, err := p.parseFnInputs(true)
	if err != nil {
		return nil, err
	}
	fn.Inputs = inputs
	fn.Variadic = variadic
	if p.accept(tokArrow) {
		out, err := p.parseType(false)
		if err != nil {
			return nil, err
		}
		fn.Output = out
	}
	return fn, nil
}

// parseSliceOrArray parses [T] or [T; N].
func (p *parser) parseSliceOrArray() (ir.TypeExpr, error) {
	p.next() // [
	elem, err := p.parseType(true)
	if err != nil {
		return nil, err
	}
	if p.accept(tokRBrack) {
		return &ir.SliceExpr{Elem: elem}, nil
	}
	if _, err := p.expect(tokSemi); err != nil {
		return nil, err
	}
	start := p.peek()
	depth := 0
	for {
		t := p.peek()
		switch t.kind {
		case tokEOF:
			return nil, p.errorf("unbalanced '['")
		case tokLBrack, tokLParen, tokLBrace:
			depth++
		case tokRParen, tokRBrace:
			depth--
		case tokRBrack:
			if depth == 0 {
				if t.off == start.off {
					return nil, p.errorf("expected array length")
				}
				n := normalizeSpace(p.src[start.off:t.off])
				p.next()
				return &ir.ArrayExpr{Elem: elem, Len: n}, nil
			}
			depth--
		}
		p.next()
	}
}

// parseTupleOrParen parses (), (T,), (A, B) or (T).
func (p *parser) parseTupleOrParen(allowPlus bool) (ir.TypeExpr, error) {
	p.next() // (
	if p.accept(tokRParen) {
		return &ir.TupleExpr{}, nil
	}
	first, err := p.parseType(true)
	if err != nil {
		return nil, err
	}
	if p.accept(tokRParen) {
		paren := &ir.ParenExpr{Elem: first}
		if allowPlus && p.at(tokPlus) {
			// (Trait) + Send
			if path, ok := first.(*ir.PathExpr); ok {
				bounds := []ir.Bound{{Trait: path}}
				for p.accept(tokPlus) {
					b, err := p.parseBound()
					if err != nil {
						return nil, err
					}
					bounds = append(bounds, b)
				}
				return &ir.TraitObjectExpr{Bounds: bounds}, nil
			}
		}
		return paren, nil
	}
	elems := []ir.TypeExpr{first}
	for p.accept(tokComma) {
		if p.at(tokRParen) {
			break
		}
		e, err := p.parseType(true)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return &ir.TupleExpr{Elems: elems}, nil
}

// normalizeSpace collapses runs of whitespace and trims the result.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
