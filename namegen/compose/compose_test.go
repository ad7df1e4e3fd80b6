package compose

import (
	"testing"

	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/ir"
	"github.com/broady/prettyname/namegen/resolve"
	"github.com/broady/prettyname/namegen/syntax"
)

// validated parses ref and fixes the member kind the way the validator would.
func validated(t *testing.T, text string, kind ir.MemberKind) ir.Reference {
	t.Helper()
	ref := syntax.MustParseReference(text)
	if ref.MemberKind == ir.MemberAmbiguous {
		ref.MemberKind = kind
	}
	return ref
}

func TestCompose(t *testing.T) {
	tests := []struct {
		ref    string
		kind   ir.MemberKind
		want   string
		static bool
	}{
		{"counter", ir.MemberNone, "counter", true},
		{"identity::<..>", ir.MemberNone, "identity", true},
		{"identity::<i32>", ir.MemberNone, "identity::<i32>", false},
		{"pair::<std::string::String, &'a str>", ir.MemberNone, "pair::<String, &str>", false},
		{"Point::x", ir.MemberField, "Point::x", true},
		{"Shape::Circle", ir.MemberUnitVariant, "Shape::Circle", true},
		{"Shape::Square(..)", ir.MemberNone, "Shape::Square", true},
		{"Shape::Triangle{..}", ir.MemberNone, "Shape::Triangle", true},
		{"Point::map::<..>", ir.MemberNone, "Point::map", true},
		{"Point::map::<u8, Vec<u16>>", ir.MemberNone, "Point::map::<u8, Vec<u16>>", false},
		{"<Point>::x", ir.MemberField, "Point::x", false},
		{"<geometry::Point>::x", ir.MemberField, "Point::x", false},
		{"<std::vec::Vec<i32>>::len", ir.MemberMethod, "<Vec<i32>>::len", false},
		{"<&'static str>::len", ir.MemberMethod, "<&str>::len", false},
		{"<HashMap<K, V>>::insert::<..>", ir.MemberNone, "<HashMap<K, V>>::insert", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := Compose(validated(t, tt.ref, tt.kind))
			if err != nil {
				t.Fatalf("Compose(%q) error = %v", tt.ref, err)
			}
			if got.Value != tt.want {
				t.Errorf("Value = %q, want %q", got.Value, tt.want)
			}
			if got.Static != tt.static {
				t.Errorf("Static = %v, want %v", got.Static, tt.static)
			}
		})
	}
}

// A composed name with a member parses back to an equivalent reference.
func TestCompose_Reparses(t *testing.T) {
	for _, text := range []string{
		"<std::vec::Vec<i32>>::len",
		"<&mut [u8]>::len",
		"Point::map::<u8, Option<&'a str>>",
		"<(i32, u8)>::clone",
	} {
		t.Run(text, func(t *testing.T) {
			first, err := Compose(validated(t, text, ir.MemberMethod))
			if err != nil {
				t.Fatal(err)
			}
			again, err := Compose(validated(t, first.Value, ir.MemberMethod))
			if err != nil {
				t.Fatalf("composed name %q does not compose again: %v", first.Value, err)
			}
			if again.Value != first.Value {
				t.Errorf("Compose is not stable: %q then %q", first.Value, again.Value)
			}
		})
	}
}

func TestCompose_Self(t *testing.T) {
	tests := []struct {
		ref    string
		scope  resolve.Scope
		kind   ir.MemberKind
		want   string
		static bool
	}{
		{"Self", resolve.TypeScope("Foo"), ir.MemberNone, "Foo", true},
		{"Self::bar", resolve.TypeScope("Foo"), ir.MemberMethod, "Foo::bar", true},
		{"Self::bar", resolve.TypeScope("Foo", "T"), ir.MemberMethod, "<Foo<T>>::bar", false},
		{"Self", resolve.TypeScope("Foo", "T"), ir.MemberNone, "Foo<T>", false},
		{"<Vec<Self>>::len", resolve.TypeScope("Foo"), ir.MemberMethod, "<Vec<Foo>>::len", false},
		{"Self::map::<Self>", resolve.TypeScope("Foo"), ir.MemberNone, "Foo::map::<Foo>", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref, err := resolve.Self(validated(t, tt.ref, tt.kind), tt.scope)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Compose(ref)
			if err != nil {
				t.Fatal(err)
			}
			if got.Value != tt.want || got.Static != tt.static {
				t.Errorf("Compose = %q (static %v), want %q (static %v)", got.Value, got.Static, tt.want, tt.static)
			}
		})
	}

	// Self::bar and Foo::bar compose identically.
	a, _ := resolve.Self(validated(t, "Self::bar", ir.MemberMethod), resolve.TypeScope("Foo"))
	na, _ := Compose(a)
	nb, _ := Compose(validated(t, "Foo::bar", ir.MemberMethod))
	if na != nb {
		t.Errorf("Self::bar = %+v, Foo::bar = %+v", na, nb)
	}
}

func TestCompose_Errors(t *testing.T) {
	tests := []struct {
		name string
		ref  ir.Reference
		code diag.Code
	}{
		{"unvalidated member", syntax.MustParseReference("Point::x"), diag.CodeAmbiguousOrMissingMember},
		{"unresolved self", syntax.MustParseReference("Self"), diag.CodeSelfOutsideImpl},
		{"broken descriptor", ir.Reference{Text: "x"}, diag.CodeMalformedReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(tt.ref)
			if got := diag.CodeOf(err); got != tt.code {
				t.Errorf("code = %q, want %q (err = %v)", got, tt.code, err)
			}
		})
	}
}
