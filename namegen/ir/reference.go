package ir

import "fmt"

// SelfPlaceholder is the token that stands for the enclosing type.
const SelfPlaceholder = "Self"

// MemberKind identifies what the member of a reference denotes.
type MemberKind int

const (
	MemberNone          MemberKind = iota // Plain identifier reference, no member
	MemberAmbiguous                       // Bare Type::member, fixed by validation
	MemberField                           // Struct field
	MemberMethod                          // Method
	MemberUnitVariant                     // Enum variant without payload
	MemberTupleVariant                    // Enum variant with positional payload
	MemberStructVariant                   // Enum variant with named fields
	MemberFunction                        // Free function named by a plain identifier
)

// String returns the string representation of the member kind.
func (k MemberKind) String() string {
	switch k {
	case MemberNone:
		return "none"
	case MemberAmbiguous:
		return "ambiguous"
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	case MemberUnitVariant:
		return "unit variant"
	case MemberTupleVariant:
		return "tuple variant"
	case MemberStructVariant:
		return "struct variant"
	case MemberFunction:
		return "function"
	default:
		return "unknown"
	}
}

// IsVariant reports whether k is one of the variant kinds.
func (k MemberKind) IsVariant() bool {
	return k == MemberUnitVariant || k == MemberTupleVariant || k == MemberStructVariant
}

// GenericMode distinguishes the three generic argument forms of a reference.
type GenericMode int

const (
	GenericsAbsent   GenericMode = iota // No generic suffix
	GenericsElided                      // ::<..>, all parameters, not printed
	GenericsExplicit                    // ::<A, B>, printed
)

// GenericArgs is the generic argument suffix of a reference.
type GenericArgs struct {
	Mode GenericMode

	// Args is non-empty iff Mode is GenericsExplicit.
	Args []TypeExpr
}

// Base is the part of a reference before the member. Exactly one of Ident
// and Type is set.
type Base struct {
	// Ident is a bare identifier, possibly SelfPlaceholder.
	Ident string

	// Type is a bracketed <TypeExpr> base.
	Type TypeExpr

	// Resolved marks a base substituted for a bare Self. It names a type
	// even when the reference has no member.
	Resolved bool
}

// IsSelf reports whether the base is the bare self placeholder.
func (b Base) IsSelf() bool {
	return b.Ident == SelfPlaceholder
}

// Reference is the parsed form of a user-supplied reference.
type Reference struct {
	// Text is the reference as written.
	Text string

	Base       Base
	Member     string
	MemberKind MemberKind
	Generics   GenericArgs
}

// HasMember reports whether the reference names a member of its base.
func (r Reference) HasMember() bool {
	return r.Member != ""
}

// Check reports a violation of the descriptor invariants.
func (r Reference) Check() error {
	if (r.Base.Ident == "") == (r.Base.Type == nil) {
		return fmt.Errorf("exactly one of base identifier and base type must be set")
	}
	// Plain identifiers carry MemberNone, or MemberFunction once validated.
	if r.HasMember() != (r.MemberKind != MemberNone && r.MemberKind != MemberFunction) {
		return fmt.Errorf("member %q inconsistent with member kind %s", r.Member, r.MemberKind)
	}
	switch r.Generics.Mode {
	case GenericsAbsent, GenericsElided:
		if len(r.Generics.Args) != 0 {
			return fmt.Errorf("generic arguments present without explicit mode")
		}
	case GenericsExplicit:
		if len(r.Generics.Args) == 0 {
			return fmt.Errorf("explicit generic mode without arguments")
		}
	default:
		return fmt.Errorf("unknown generic mode %d", r.Generics.Mode)
	}
	return nil
}

// Shape describes the syntactic form of the reference, e.g. "Type::member(..)".
// It is used in diagnostics to name the expected shape.
func (r Reference) Shape() string {
	base := "ident"
	if r.Base.Type != nil {
		base = "<Type>"
	} else if r.HasMember() {
		base = "Type"
	}
	s := base
	if r.HasMember() {
		s += "::member"
		switch r.MemberKind {
		case MemberTupleVariant:
			s += "(..)"
		case MemberStructVariant:
			s += "{..}"
		}
	}
	switch r.Generics.Mode {
	case GenericsElided:
		s += "::<..>"
	case GenericsExplicit:
		s += "::<Args>"
	}
	return s
}
