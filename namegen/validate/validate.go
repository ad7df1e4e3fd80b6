// Package validate checks a resolved reference against the declarations it
// claims to denote and fixes the member kind of bare Type::member references.
package validate

import (
	"fmt"
	"strings"

	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/ir"
	"github.com/broady/prettyname/namegen/render"
	"github.com/broady/prettyname/namegen/symbols"
)

// Validator validates references against a declaration index.
type Validator struct {
	Lookup symbols.Lookup
}

// Validate returns ref with MemberKind fixed, or the first rule it violates.
// A bare Type::member is a field, a unit variant or a method, tried in that
// order.
func (v Validator) Validate(ref ir.Reference) (ir.Reference, error) {
	if err := ref.Check(); err != nil {
		return ref, v.fail(ref, diag.CodeMalformedReference, "%v", err)
	}
	if !ref.HasMember() {
		return v.validatePlain(ref)
	}
	return v.validateMember(ref)
}

func (v Validator) fail(ref ir.Reference, code diag.Code, format string, args ...any) error {
	return diag.Errorf(code, format, args...).WithReference(ref.Text, ref.Shape())
}

func (v Validator) validatePlain(ref ir.Reference) (ir.Reference, error) {
	if ref.Base.Type != nil || ref.Base.Resolved {
		decl, name, err := v.baseType(ref)
		if err != nil {
			return ref, err
		}
		if err := v.checkGenerics(ref, decl.TypeParams, "type "+name); err != nil {
			return ref, err
		}
		return ref, nil
	}

	b, ok := v.Lookup.LookupBinding(ref.Base.Ident)
	if !ok {
		return ref, v.fail(ref, diag.CodeUnknownIdentifierOrType,
			"no variable, constant, static or function named %s is in scope", ref.Base.Ident)
	}
	if b.Kind != symbols.BindingFunc {
		switch ref.Generics.Mode {
		case ir.GenericsElided:
			return ref, v.fail(ref, diag.CodeUnknownIdentifierOrType,
				"%s is a %s, not a function; ::<..> names a generic function", b.Name, kindName(b.Kind))
		case ir.GenericsExplicit:
			return ref, v.fail(ref, diag.CodeGenericArityExceeded,
				"%s is a %s and takes no generic arguments, got %d", b.Name, kindName(b.Kind), len(ref.Generics.Args))
		}
		return ref, nil
	}
	if err := v.checkGenerics(ref, b.TypeParams, "function "+b.Name); err != nil {
		return ref, err
	}
	ref.MemberKind = ir.MemberFunction
	return ref, nil
}

func (v Validator) validateMember(ref ir.Reference) (ir.Reference, error) {
	decl, name, err := v.baseType(ref)
	if err != nil {
		return ref, err
	}
	member := ref.Member

	switch ref.MemberKind {
	case ir.MemberAmbiguous:
		if _, ok := decl.Field(member); ok {
			ref.MemberKind = ir.MemberField
			return ref, nil
		}
		if vr, ok := decl.Variant(member); ok && vr.Shape == symbols.ShapeUnit {
			ref.MemberKind = ir.MemberUnitVariant
			return ref, nil
		}
		if _, ok := decl.Method(member); ok {
			ref.MemberKind = ir.MemberMethod
			return ref, nil
		}
		if vr, ok := decl.Variant(member); ok {
			return ref, v.fail(ref, diag.CodeAmbiguousOrMissingMember,
				"%s::%s is a %s variant; write %s::%s%s", name, member, vr.Shape, name, member, shapeSuffix(vr.Shape))
		}
		return ref, v.fail(ref, diag.CodeAmbiguousOrMissingMember,
			"%s has no field, unit variant or method named %s", name, member)

	case ir.MemberUnitVariant, ir.MemberTupleVariant, ir.MemberStructVariant:
		want := variantShape(ref.MemberKind)
		vr, ok := decl.Variant(member)
		if !ok {
			return ref, v.fail(ref, diag.CodeAmbiguousOrMissingMember,
				"%s has no variant named %s", name, member)
		}
		if vr.Shape != want {
			return ref, v.fail(ref, diag.CodeVariantShapeMismatch,
				"%s::%s is declared as a %s variant but referenced as a %s variant", name, member, vr.Shape, want)
		}
		return ref, nil

	case ir.MemberField:
		if _, ok := decl.Field(member); !ok {
			return ref, v.fail(ref, diag.CodeAmbiguousOrMissingMember, "%s has no field named %s", name, member)
		}
		return ref, nil

	case ir.MemberMethod:
		m, ok := decl.Method(member)
		if !ok {
			if v.hasNonMethod(decl, member) && ref.Generics.Mode != ir.GenericsAbsent {
				return ref, v.fail(ref, diag.CodeGenericArityExceeded,
					"%s::%s is not a method and takes no generic arguments", name, member)
			}
			return ref, v.fail(ref, diag.CodeAmbiguousOrMissingMember, "%s has no method named %s", name, member)
		}
		if err := v.checkGenerics(ref, m.TypeParams, "method "+name+"::"+member); err != nil {
			return ref, err
		}
		return ref, nil
	}
	return ref, v.fail(ref, diag.CodeMalformedReference, "unexpected member kind %s", ref.MemberKind)
}

// baseType finds the declaration of the reference base and checks the
// explicit type arguments written inside a bracketed base.
func (v Validator) baseType(ref ir.Reference) (*symbols.TypeDecl, string, error) {
	var path []string
	var args int
	switch {
	case ref.Base.Type != nil:
		p, ok := ref.Base.Type.(*ir.PathExpr)
		if !ok || p.QSelf != nil {
			return nil, "", v.fail(ref, diag.CodeUnknownIdentifierOrType,
				"members of %s cannot be looked up; the base must name a type", render.Type(ref.Base.Type))
		}
		path = p.Names()
		args = len(p.Last().TypeArgs())
	default:
		path = []string{ref.Base.Ident}
	}

	name := strings.Join(path, "::")
	decl, ok := v.Lookup.LookupType(path)
	if !ok {
		return nil, name, v.fail(ref, diag.CodeUnknownIdentifierOrType, "no type named %s is declared", name)
	}
	if args > len(decl.TypeParams) {
		return nil, name, v.fail(ref, diag.CodeGenericArityExceeded,
			"type %s takes %d type parameters, got %d", name, len(decl.TypeParams), args)
	}
	return decl, decl.Name, nil
}

// checkGenerics checks a generic suffix against the declared parameters.
func (v Validator) checkGenerics(ref ir.Reference, declared []string, subject string) error {
	switch ref.Generics.Mode {
	case ir.GenericsAbsent:
		return nil
	case ir.GenericsElided:
		if len(declared) == 0 {
			return v.fail(ref, diag.CodeGenericArityExceeded, "%s is not generic", subject)
		}
		return nil
	}
	if got := len(ref.Generics.Args); got > len(declared) {
		if len(declared) == 0 {
			return v.fail(ref, diag.CodeGenericArityExceeded, "%s is not generic, got %d type arguments", subject, got)
		}
		return v.fail(ref, diag.CodeGenericArityExceeded,
			"%s takes %d type parameters (%s), got %d", subject, len(declared), strings.Join(declared, ", "), got)
	}
	return nil
}

func (v Validator) hasNonMethod(decl *symbols.TypeDecl, member string) bool {
	if _, ok := decl.Field(member); ok {
		return true
	}
	_, ok := decl.Variant(member)
	return ok
}

func variantShape(k ir.MemberKind) symbols.VariantShape {
	switch k {
	case ir.MemberTupleVariant:
		return symbols.ShapeTuple
	case ir.MemberStructVariant:
		return symbols.ShapeStruct
	default:
		return symbols.ShapeUnit
	}
}

func shapeSuffix(s symbols.VariantShape) string {
	switch s {
	case symbols.ShapeTuple:
		return "(..)"
	case symbols.ShapeStruct:
		return "{..}"
	default:
		return ""
	}
}

func kindName(k symbols.BindingKind) string {
	switch k {
	case symbols.BindingVar:
		return "variable"
	case symbols.BindingConst:
		return "constant"
	case symbols.BindingStatic:
		return "static"
	default:
		return fmt.Sprint(k)
	}
}
