package ir

// ExprKind identifies the category of a type expression.
type ExprKind int

const (
	KindPath        ExprKind = iota // Path, possibly with generic arguments (Vec<T>, std::io::Error)
	KindRef                         // Borrowed reference (&T, &mut T)
	KindPtr                         // Raw pointer (*const T, *mut T)
	KindSlice                       // Unsized slice ([T])
	KindArray                       // Fixed-length array ([T; N])
	KindTuple                       // Tuple, including the unit type ()
	KindFn                          // Function pointer (fn(A) -> B)
	KindTraitObject                 // Trait object (dyn A + B)
	KindImplTrait                   // Opaque type (impl A + B)
	KindParen                       // Parenthesized type ((T))
	KindNever                       // Never type (!)
	KindInfer                       // Inferred type (_)
)

// String returns the string representation of the expression kind.
func (k ExprKind) String() string {
	switch k {
	case KindPath:
		return "Path"
	case KindRef:
		return "Ref"
	case KindPtr:
		return "Ptr"
	case KindSlice:
		return "Slice"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindFn:
		return "Fn"
	case KindTraitObject:
		return "TraitObject"
	case KindImplTrait:
		return "ImplTrait"
	case KindParen:
		return "Paren"
	case KindNever:
		return "Never"
	case KindInfer:
		return "Infer"
	default:
		return "Unknown"
	}
}

// TypeExpr is the base interface for all type expressions.
//
// Type expressions are trees: generic arguments, bounds and element types are
// owned sub-trees, never back-references. They are built once by the parser
// and never mutated afterwards; rewrites produce new trees.
type TypeExpr interface {
	// Kind returns the expression kind for type switching.
	Kind() ExprKind

	// Ensure only types in this package can implement TypeExpr.
	sealed()
}

// exprBase seals TypeExpr implementations to this package.
type exprBase struct{}

func (exprBase) sealed() {}
