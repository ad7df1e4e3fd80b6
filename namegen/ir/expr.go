package ir

// PathExpr is a possibly qualified, possibly generic path to a named type,
// e.g. std::collections::HashMap<String, i32> or <Vec<T> as IntoIterator>::Item.
type PathExpr struct {
	exprBase

	// Global is true for paths written with a leading "::".
	Global bool

	// QSelf is the qualified self type of <T as Trait>::Assoc paths. When set,
	// Segments holds the segments after the closing bracket.
	QSelf *QSelf

	// Segments is never empty for a parsed path.
	Segments []PathSegment
}

// Kind returns KindPath.
func (p *PathExpr) Kind() ExprKind { return KindPath }

// Last returns the final path segment.
func (p *PathExpr) Last() PathSegment {
	return p.Segments[len(p.Segments)-1]
}

// Names returns the segment names in order.
func (p *PathExpr) Names() []string {
	names := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		names[i] = s.Name
	}
	return names
}

// IsIdent reports whether the path is a single segment with no arguments and
// no qualification.
func (p *PathExpr) IsIdent() bool {
	return !p.Global && p.QSelf == nil && len(p.Segments) == 1 &&
		len(p.Segments[0].Args) == 0 && p.Segments[0].Fn == nil
}

// QSelf is the "<Type as Trait>" prefix of a qualified path.
type QSelf struct {
	Type TypeExpr

	// Trait is nil for the <Type>::Assoc form.
	Trait *PathExpr
}

// PathSegment is one "::"-separated component of a path.
type PathSegment struct {
	Name string

	// Args are angle-bracketed generic arguments, in order.
	Args []GenericArg

	// Fn holds parenthesized arguments, as in Fn(i32) -> i32.
	Fn *FnArgs
}

// TypeArgs returns the type arguments of the segment, skipping lifetimes,
// constants and associated-type bindings.
func (s PathSegment) TypeArgs() []TypeExpr {
	var out []TypeExpr
	for _, a := range s.Args {
		if a.Kind == ArgType {
			out = append(out, a.Type)
		}
	}
	return out
}

// ArgKind identifies the category of a generic argument.
type ArgKind int

const (
	ArgType     ArgKind = iota // A type argument: Vec<i32>
	ArgLifetime                // A lifetime argument: Cow<'a, str>
	ArgConst                   // A const argument: Array<u8, 4>
	ArgBinding                 // An associated type binding: Iterator<Item = u8>
)

// GenericArg is a single angle-bracketed generic argument.
type GenericArg struct {
	Kind ArgKind

	// Type is set for ArgType and ArgBinding.
	Type TypeExpr

	// Name is the lifetime for ArgLifetime and the associated type for ArgBinding.
	Name string

	// Value is the constant expression text for ArgConst.
	Value string
}

// TypeArg returns a type generic argument.
func TypeArg(t TypeExpr) GenericArg {
	return GenericArg{Kind: ArgType, Type: t}
}

// FnArgs are the parenthesized arguments of an Fn-family trait path.
type FnArgs struct {
	Inputs []TypeExpr

	// Output is nil when no "-> T" is written.
	Output TypeExpr
}

// RefExpr is a borrowed reference.
type RefExpr struct {
	exprBase

	// Lifetime is the annotation as written (e.g. "'static"), or "".
	Lifetime string

	Mut  bool
	Elem TypeExpr
}

// Kind returns KindRef.
func (r *RefExpr) Kind() ExprKind { return KindRef }

// PtrExpr is a raw pointer.
type PtrExpr struct {
	exprBase

	// Mut distinguishes *mut T from *const T.
	Mut  bool
	Elem TypeExpr
}

// Kind returns KindPtr.
func (p *PtrExpr) Kind() ExprKind { return KindPtr }

// SliceExpr is an unsized slice [T].
type SliceExpr struct {
	exprBase
	Elem TypeExpr
}

// Kind returns KindSlice.
func (s *SliceExpr) Kind() ExprKind { return KindSlice }

// ArrayExpr is a fixed-length array [T; N].
type ArrayExpr struct {
	exprBase
	Elem TypeExpr

	// Len is the length expression as written, with whitespace normalized.
	Len string
}

// Kind returns KindArray.
func (a *ArrayExpr) Kind() ExprKind { return KindArray }

// TupleExpr is a tuple type. An empty tuple is the unit type ().
type TupleExpr struct {
	exprBase
	Elems []TypeExpr
}

// Kind returns KindTuple.
func (t *TupleExpr) Kind() ExprKind { return KindTuple }

// FnExpr is a function pointer type.
type FnExpr struct {
	exprBase

	Unsafe bool

	// ABI is the extern ABI. Nil means no extern qualifier; an empty string
	// means a bare `extern`.
	ABI *string

	// Lifetimes are the higher-ranked lifetimes of a for<'a> prefix.
	Lifetimes []string

	Inputs   []TypeExpr
	Variadic bool

	// Output is nil for functions returning the unit type implicitly.
	Output TypeExpr
}

// Kind returns KindFn.
func (f *FnExpr) Kind() ExprKind { return KindFn }

// Bound is one "+"-separated bound of a trait object or impl type.
type Bound struct {
	// Trait is nil for lifetime bounds.
	Trait *PathExpr

	// Lifetime is set for lifetime bounds ('a, 'static).
	Lifetime string

	// Maybe marks a ?Trait bound.
	Maybe bool
}

// TraitObjectExpr is a trait object: the dyn marker plus one or more bounds.
type TraitObjectExpr struct {
	exprBase
	Bounds []Bound
}

// Kind returns KindTraitObject.
func (t *TraitObjectExpr) Kind() ExprKind { return KindTraitObject }

// ImplTraitExpr is an opaque impl Trait type.
type ImplTraitExpr struct {
	exprBase
	Bounds []Bound
}

// Kind returns KindImplTrait.
func (t *ImplTraitExpr) Kind() ExprKind { return KindImplTrait }

// ParenExpr is a parenthesized type, e.g. &(dyn Debug + Send).
type ParenExpr struct {
	exprBase
	Elem TypeExpr
}

// Kind returns KindParen.
func (p *ParenExpr) Kind() ExprKind { return KindParen }

// NeverExpr is the never type !.
type NeverExpr struct{ exprBase }

// Kind returns KindNever.
func (*NeverExpr) Kind() ExprKind { return KindNever }

// InferExpr is the inferred type _.
type InferExpr struct{ exprBase }

// Kind returns KindInfer.
func (*InferExpr) Kind() ExprKind { return KindInfer }

// Convenience constructors.

// Ident returns a single-segment path.
func Ident(name string) *PathExpr {
	return &PathExpr{Segments: []PathSegment{{Name: name}}}
}

// Path returns a path from segment names. Type arguments, if any, are
// attached to the final segment.
func Path(names []string, args ...TypeExpr) *PathExpr {
	p := &PathExpr{Segments: make([]PathSegment, len(names))}
	for i, n := range names {
		p.Segments[i] = PathSegment{Name: n}
	}
	if len(args) > 0 && len(names) > 0 {
		last := &p.Segments[len(names)-1]
		for _, a := range args {
			last.Args = append(last.Args, TypeArg(a))
		}
	}
	return p
}

// Generic returns a single-segment path with type arguments.
func Generic(name string, args ...TypeExpr) *PathExpr {
	return Path([]string{name}, args...)
}

// Ref returns a shared reference to elem.
func Ref(elem TypeExpr) *RefExpr {
	return &RefExpr{Elem: elem}
}

// RefMut returns a mutable reference to elem.
func RefMut(elem TypeExpr) *RefExpr {
	return &RefExpr{Elem: elem, Mut: true}
}

// Slice returns [elem].
func Slice(elem TypeExpr) *SliceExpr {
	return &SliceExpr{Elem: elem}
}

// Array returns [elem; n].
func Array(elem TypeExpr, n string) *ArrayExpr {
	return &ArrayExpr{Elem: elem, Len: n}
}

// Tuple returns (elems...).
func Tuple(elems ...TypeExpr) *TupleExpr {
	return &TupleExpr{Elems: elems}
}

// Dyn returns a trait object over the given trait paths.
func Dyn(traits ...*PathExpr) *TraitObjectExpr {
	t := &TraitObjectExpr{}
	for _, p := range traits {
		t.Bounds = append(t.Bounds, Bound{Trait: p})
	}
	return t
}
