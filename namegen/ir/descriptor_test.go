package ir

import "testing"

func TestExprKind_String(t *testing.T) {
	tests := []struct {
		kind ExprKind
		want string
	}{
		{KindPath, "Path"},
		{KindRef, "Ref"},
		{KindPtr, "Ptr"},
		{KindSlice, "Slice"},
		{KindArray, "Array"},
		{KindTuple, "Tuple"},
		{KindFn, "Fn"},
		{KindTraitObject, "TraitObject"},
		{KindImplTrait, "ImplTrait"},
		{KindParen, "Paren"},
		{KindNever, "Never"},
		{KindInfer, "Infer"},
		{ExprKind(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("ExprKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeExpr_Kinds(t *testing.T) {
	tests := []struct {
		expr TypeExpr
		want ExprKind
	}{
		{Ident("i32"), KindPath},
		{Ref(Ident("str")), KindRef},
		{&PtrExpr{Elem: Ident("u8")}, KindPtr},
		{Slice(Ident("u8")), KindSlice},
		{Array(Ident("u8"), "4"), KindArray},
		{Tuple(), KindTuple},
		{&FnExpr{}, KindFn},
		{Dyn(Ident("Debug")), KindTraitObject},
		{&ImplTraitExpr{}, KindImplTrait},
		{&ParenExpr{Elem: Ident("T")}, KindParen},
		{&NeverExpr{}, KindNever},
		{&InferExpr{}, KindInfer},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			if got := tt.expr.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}
