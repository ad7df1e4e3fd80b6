package ir

import "testing"

func TestPathConstructor(t *testing.T) {
	p := Path([]string{"std", "vec", "Vec"}, Ident("i32"))
	if len(p.Segments) != 3 {
		t.Fatalf("len(Segments) = %d, want 3", len(p.Segments))
	}
	if p.Last().Name != "Vec" {
		t.Errorf("Last().Name = %q, want %q", p.Last().Name, "Vec")
	}
	args := p.Last().TypeArgs()
	if len(args) != 1 || args[0].(*PathExpr).Last().Name != "i32" {
		t.Errorf("TypeArgs() = %v, want [i32]", args)
	}
	if len(p.Segments[0].Args) != 0 {
		t.Error("type arguments should only be attached to the last segment")
	}
}

func TestPathExpr_IsIdent(t *testing.T) {
	tests := []struct {
		name string
		path *PathExpr
		want bool
	}{
		{"single segment", Ident("Foo"), true},
		{"generic", Generic("Vec", Ident("T")), false},
		{"qualified", Path([]string{"a", "Foo"}), false},
		{"global", &PathExpr{Global: true, Segments: []PathSegment{{Name: "Foo"}}}, false},
		{"fn args", &PathExpr{Segments: []PathSegment{{Name: "Fn", Fn: &FnArgs{}}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.IsIdent(); got != tt.want {
				t.Errorf("IsIdent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathSegment_TypeArgs(t *testing.T) {
	seg := PathSegment{
		Name: "Cow",
		Args: []GenericArg{
			{Kind: ArgLifetime, Name: "'a"},
			TypeArg(Ident("str")),
			{Kind: ArgConst, Value: "4"},
			{Kind: ArgBinding, Name: "Item", Type: Ident("u8")},
		},
	}
	args := seg.TypeArgs()
	if len(args) != 1 {
		t.Fatalf("len(TypeArgs()) = %d, want 1", len(args))
	}
}

func TestRewrite_ReplacesNestedPaths(t *testing.T) {
	// Vec<&Self>
	orig := Generic("Vec", Ref(Ident("Self")))
	got := Rewrite(orig, func(p *PathExpr) (TypeExpr, bool) {
		if p.IsIdent() && p.Last().Name == "Self" {
			return Generic("Stack", Ident("T")), true
		}
		return nil, false
	})

	vec, ok := got.(*PathExpr)
	if !ok {
		t.Fatalf("Rewrite() returned %T, want *PathExpr", got)
	}
	ref := vec.Last().Args[0].Type.(*RefExpr)
	inner := ref.Elem.(*PathExpr)
	if inner.Last().Name != "Stack" {
		t.Errorf("inner name = %q, want %q", inner.Last().Name, "Stack")
	}

	// The original tree is untouched.
	origInner := orig.Last().Args[0].Type.(*RefExpr).Elem.(*PathExpr)
	if origInner.Last().Name != "Self" {
		t.Errorf("original mutated: inner name = %q", origInner.Last().Name)
	}
}

func TestRewrite_SharesUnchangedTrees(t *testing.T) {
	orig := Tuple(Ident("i32"), Slice(Ident("u8")))
	got := Rewrite(orig, func(p *PathExpr) (TypeExpr, bool) { return nil, false })
	if got != TypeExpr(orig) {
		t.Error("Rewrite() without replacements should return the same tree")
	}
}

func TestRewrite_VisitsAllPositions(t *testing.T) {
	fnPtr := &FnExpr{Inputs: []TypeExpr{Ident("Self")}, Output: Ident("Self")}
	boxed := Generic("Box", &TraitObjectExpr{Bounds: []Bound{{
		Trait: &PathExpr{Segments: []PathSegment{{Name: "Fn", Fn: &FnArgs{Inputs: []TypeExpr{Ident("Self")}}}}},
	}}})
	qualified := &PathExpr{
		QSelf:    &QSelf{Type: Ident("Self"), Trait: Ident("Iterator")},
		Segments: []PathSegment{{Name: "Item"}},
	}
	arr := Array(&ParenExpr{Elem: &PtrExpr{Elem: Ident("Self")}}, "3")

	for _, expr := range []TypeExpr{fnPtr, boxed, qualified, arr} {
		isSelf := func(p *PathExpr) bool { return p.IsIdent() && p.Last().Name == "Self" }
		if !ContainsPath(expr, isSelf) {
			t.Fatalf("ContainsPath(%T) = false, want true", expr)
		}
		got := Rewrite(expr, func(p *PathExpr) (TypeExpr, bool) {
			if isSelf(p) {
				return Ident("Foo"), true
			}
			return nil, false
		})
		if ContainsPath(got, isSelf) {
			t.Errorf("Rewrite(%T) left a Self path behind", expr)
		}
	}
}
