package syntax

import (
	"fmt"
	"strings"

	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/ir"
)

// Shapes lists the accepted reference forms, for diagnostics.
var Shapes = []string{
	"ident",
	"ident::<..>",
	"ident::<Args>",
	"Type::member",
	"<Type>::member",
	"Type::member(..)",
	"Type::member{..}",
	"Type::member::<..>",
	"Type::member::<Args>",
}

// ParseReference parses a reference into a descriptor. Bare Type::member
// references are returned with MemberAmbiguous; the validator decides between
// field, unit variant and method.
func ParseReference(text string) (ir.Reference, error) {
	ref := ir.Reference{Text: text}
	p, err := newParser(text)
	if err != nil {
		return ref, malformed(ref, "%v", err)
	}

	if p.at(tokLt) {
		p.next()
		t, err := p.parseType(true)
		if err != nil {
			return ref, malformed(ref, "in bracketed type: %v", err)
		}
		if _, err := p.expect(tokGt); err != nil {
			return ref, malformed(ref, "%v", err)
		}
		ref.Base.Type = t
		if !p.at(tokColon2) || p.peekAt(1).kind != tokIdent {
			return ref, malformed(ref, "expected <Type>::member, found %s after bracketed type", p.peek().describe())
		}
		p.next()
		return parseMember(p, ref)
	}

	base := p.peek()
	if base.kind != tokIdent || keywords[base.text] {
		return ref, malformed(ref, "expected identifier or <Type>, found %s", base.describe())
	}
	p.next()
	ref.Base.Ident = base.text

	switch {
	case p.at(tokEOF):
		return ref, nil
	case p.at(tokColon2) && p.peekAt(1).kind == tokLt:
		p.next()
		if ref.Generics, err = parseRefGenerics(p); err != nil {
			return ref, malformed(ref, "%v", err)
		}
		return ref, expectEnd(p, ref)
	case p.at(tokColon2) && p.peekAt(1).kind == tokIdent:
		p.next()
		return parseMember(p, ref)
	}
	return ref, malformed(ref, "unexpected %s after identifier", p.peek().describe())
}

// MustParseReference is like ParseReference but panics on error.
func MustParseReference(text string) ir.Reference {
	ref, err := ParseReference(text)
	if err != nil {
		panic(err)
	}
	return ref
}

// parseMember parses the member and its optional shape or generic suffix. The
// parser is positioned just after "::".
func parseMember(p *parser, ref ir.Reference) (ir.Reference, error) {
	member := p.next()
	if keywords[member.text] {
		return ref, malformed(ref, "unexpected keyword %q as member", member.text)
	}
	ref.Member = member.text
	ref.MemberKind = ir.MemberAmbiguous

	var err error
	switch {
	case p.at(tokLParen):
		ref.MemberKind = ir.MemberTupleVariant
		err = expectElided(p, tokRParen, "(..)")
	case p.at(tokLBrace):
		ref.MemberKind = ir.MemberStructVariant
		err = expectElided(p, tokRBrace, "{..}")
	case p.at(tokColon2) && p.peekAt(1).kind == tokLt:
		p.next()
		ref.MemberKind = ir.MemberMethod
		ref.Generics, err = parseRefGenerics(p)
	case p.at(tokColon2):
		return ref, malformed(ref, "expected Type::member; a reference has at most one member, use <Type>::member for qualified types")
	}
	if err != nil {
		return ref, malformed(ref, "%v", err)
	}
	if ref.MemberKind.IsVariant() && p.at(tokColon2) {
		return ref, malformed(ref, "a variant shape suffix cannot be followed by generic arguments")
	}
	return ref, expectEnd(p, ref)
}

// expectElided consumes an opening bracket, "..", and closing.
func expectElided(p *parser, closing tokenKind, form string) error {
	p.next()
	if !p.accept(tokDotDot) {
		return p.errorf("expected %s, found %s", form, p.peek().describe())
	}
	if !p.accept(closing) {
		return p.errorf("expected %s, found %s", form, p.peek().describe())
	}
	return nil
}

// parseRefGenerics parses <..> or <A, B>, positioned at "<".
func parseRefGenerics(p *parser) (ir.GenericArgs, error) {
	p.next() // <
	if p.accept(tokDotDot) {
		if _, err := p.expect(tokGt); err != nil {
			return ir.GenericArgs{}, err
		}
		return ir.GenericArgs{Mode: ir.GenericsElided}, nil
	}
	if p.at(tokGt) {
		return ir.GenericArgs{}, p.errorf("empty generic argument list; use ::<..> for all parameters")
	}
	var args []ir.TypeExpr
	for {
		t, err := p.parseType(true)
		if err != nil {
			return ir.GenericArgs{}, err
		}
		args = append(args, t)
		if !p.accept(tokComma) || p.at(tokGt) {
			break
		}
	}
	if _, err := p.expect(tokGt); err != nil {
		return ir.GenericArgs{}, err
	}
	return ir.GenericArgs{Mode: ir.GenericsExplicit, Args: args}, nil
}

func expectEnd(p *parser, ref ir.Reference) error {
	if p.at(tokEOF) {
		return nil
	}
	return malformed(ref, "unexpected %s after %s", p.peek().describe(), ref.Shape())
}

func malformed(ref ir.Reference, format string, args ...any) error {
	return diag.Errorf(diag.CodeMalformedReference, "%s; expected one of %s",
		fmt.Sprintf(format, args...), strings.Join(Shapes, ", ")).
		WithReference(ref.Text, "")
}
