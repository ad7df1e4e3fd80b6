// Package compose assembles the canonical name of a validated reference.
package compose

import (
	"strings"

	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/ir"
	"github.com/broady/prettyname/namegen/render"
	"github.com/broady/prettyname/namegen/syntax"
)

// Name is the composed name of a reference.
type Name struct {
	Value string

	// Static is true when every part of Value is a bare identifier taken
	// from the reference as written. Anything that went through the type
	// renderer makes the whole name dynamic.
	Static bool

	// Kind is the member kind fixed by validation.
	Kind ir.MemberKind
}

func (n Name) String() string { return n.Value }

// Compose joins base, member and any explicit generic arguments of a
// validated reference. Elided generics print nothing.
func Compose(ref ir.Reference) (Name, error) {
	if err := ref.Check(); err != nil {
		return Name{}, fail(ref, diag.CodeMalformedReference, "%v", err)
	}
	if ref.MemberKind == ir.MemberAmbiguous {
		return Name{}, fail(ref, diag.CodeAmbiguousOrMissingMember,
			"member %s has not been validated", ref.Member)
	}
	if ref.Base.IsSelf() && !ref.Base.Resolved {
		return Name{}, fail(ref, diag.CodeSelfOutsideImpl, "Self has not been resolved")
	}

	var b strings.Builder
	static := true

	switch {
	case ref.Base.Type != nil:
		static = false
		base := render.Type(ref.Base.Type)
		if ref.HasMember() && !syntax.IsIdent(base) {
			base = "<" + base + ">"
		}
		b.WriteString(base)
	default:
		b.WriteString(ref.Base.Ident)
	}

	if ref.HasMember() {
		b.WriteString("::")
		b.WriteString(ref.Member)
	}

	if ref.Generics.Mode == ir.GenericsExplicit {
		static = false
		b.WriteString("::<")
		for i, arg := range ref.Generics.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(render.Type(arg))
		}
		b.WriteString(">")
	}

	return Name{Value: b.String(), Static: static, Kind: ref.MemberKind}, nil
}

func fail(ref ir.Reference, code diag.Code, format string, args ...any) error {
	return diag.Errorf(code, format, args...).WithReference(ref.Text, ref.Shape())
}
