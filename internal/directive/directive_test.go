package directive

import (
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/render"
)

func scan(t *testing.T, src string) ([]Directive, error) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "main.go", src, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	return ScanFile(fset, f)
}

func selfOf(d Directive) string {
	p, ok := d.Self.SelfType()
	if !ok {
		return ""
	}
	return render.Path(p)
}

func TestScanFile(t *testing.T) {
	src := `package main

//prettyname:name counter
var counter int

// Stack is a stack.
//
//prettyname:name Self::items
type Stack[T any] struct {
	items []T //prettyname:name Self::Push
}

//prettyname:name Self::Push::<..>
func (s *Stack[T]) Push(v T) {
	//prettyname:name Self::items const=StackItems
	s.items = append(s.items, v)
}

type Pair[A, B any] struct{}

func (p Pair[A, B]) Swap() {
	//prettyname:name <Self>::Swap doc="swaps the pair"
}

func free() {
	//prettyname:name identity::<i32, String>
}

type (
	Color int //prettyname:name Self::Red
)
`
	ds, err := scan(t, src)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		ref, self, selfType, konst, doc string
	}{
		{"counter", "", "", "NameCounter", ""},
		{"Self::items", "Stack<T>", "Stack[T]", "NameSelfItems", ""},
		{"Self::Push", "Stack<T>", "Stack[T]", "NameSelfPush", ""},
		{"Self::Push::<..>", "Stack<T>", "Stack[T]", "NameSelfPush", ""},
		{"Self::items", "Stack<T>", "Stack[T]", "StackItems", ""},
		{"<Self>::Swap", "Pair<A, B>", "Pair[A, B]", "NameSelfSwap", "swaps the pair"},
		{"identity::<i32, String>", "", "", "NameIdentityI32String", ""},
		{"Self::Red", "Color", "Color", "NameSelfRed", ""},
	}
	if len(ds) != len(want) {
		t.Fatalf("got %d directives, want %d: %+v", len(ds), len(want), ds)
	}
	for i, w := range want {
		d := ds[i]
		t.Run(w.ref, func(t *testing.T) {
			if d.Reference != w.ref {
				t.Errorf("Reference = %q, want %q", d.Reference, w.ref)
			}
			if got := selfOf(d); got != w.self {
				t.Errorf("Self = %q, want %q", got, w.self)
			}
			if d.SelfType != w.selfType {
				t.Errorf("SelfType = %q, want %q", d.SelfType, w.selfType)
			}
			if got := d.ConstName(d.Reference); got != w.konst {
				t.Errorf("ConstName() = %q, want %q", got, w.konst)
			}
			if d.Options.Doc != w.doc {
				t.Errorf("Doc = %q, want %q", d.Options.Doc, w.doc)
			}
			if !d.Pos.IsValid() || !d.At.IsValid() {
				t.Errorf("directive has no position: %+v", d.Pos)
			}
		})
	}
}

func TestConstName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Shape::Triangle", "NameShapeTriangle"},
		{"Stack::items", "NameStackItems"},
		{"<Vec<i32>>::len", "NameVecI32Len"},
		{"snake_case_fn", "NameSnakeCaseFn"},
		{"identity::<&str>", "NameIdentityStr"},
	}
	for _, tt := range tests {
		if got := (Directive{}).ConstName(tt.name); got != tt.want {
			t.Errorf("ConstName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
	d := Directive{Options: Options{Const: "Custom"}}
	if got := d.ConstName("Shape::Circle"); got != "Custom" {
		t.Errorf("ConstName with const option = %q, want Custom", got)
	}
}

func TestScanFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		wantErr string
	}{
		{"unknown verb", "//prettyname:nme Foo", "unknown directive //prettyname:nme"},
		{"missing reference", "//prettyname:name", "requires a reference"},
		{"options only", "//prettyname:name const=Foo", "requires a reference"},
		{"unknown option", "//prettyname:name Foo color=red", "options:"},
		{"keyword const", "//prettyname:name Foo const=func", "is not a Go identifier"},
		{"invalid const", "//prettyname:name Foo const=1abc", "is not a Go identifier"},
		{"repeated option", "//prettyname:name Foo const=A const=B", "given twice"},
		{"unterminated doc", `//prettyname:name Foo doc="abc`, "unterminated string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scan(t, "package main\n\n"+tt.comment+"\nvar x int\n")
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err, tt.wantErr)
			}
			if diag.CodeOf(err) != diag.CodeInvalidDirective {
				t.Errorf("code = %q, want %q", diag.CodeOf(err), diag.CodeInvalidDirective)
			}
			if !strings.HasPrefix(err.Error(), "main.go:3:1: ") {
				t.Errorf("error %q is not positioned at the comment", err)
			}
		})
	}
}

func TestScanFile_CollectsAllErrors(t *testing.T) {
	_, err := scan(t, `package main

//prettyname:one
//prettyname:two
//prettyname:name ok
`)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"//prettyname:one", "//prettyname:two"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestSplitOptions(t *testing.T) {
	tests := []struct {
		in      string
		wantRef string
		want    map[string]string
	}{
		{"Foo", "Foo", nil},
		{"pair::<i32, String>", "pair::<i32, String>", nil},
		{"<fn(i32) -> u8>::call const=Call", "<fn(i32) -> u8>::call", map[string]string{"const": "Call"}},
		{"<Iterator<Item = u8>>::next doc=x", "<Iterator<Item = u8>>::next", map[string]string{"doc": "x"}},
		{`Foo doc="a b c" const=X`, "Foo", map[string]string{"doc": "a b c", "const": "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ref, vals, err := splitOptions(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if ref != tt.wantRef {
				t.Errorf("reference = %q, want %q", ref, tt.wantRef)
			}
			if len(vals) != len(tt.want) {
				t.Errorf("options = %v, want %v", vals, tt.want)
			}
			for k, v := range tt.want {
				if got := vals.Get(k); got != v {
					t.Errorf("option %s = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	// Disable go.work so temp directories work as standalone modules
	t.Setenv("GOWORK", "off")
	dir := t.TempDir()
	files := map[string]string{
		"go.mod": "module test\n\ngo 1.21\n",
		"b.go": `package main

//prettyname:name b
var b int
`,
		"a.go": `package main

//prettyname:name a
var a int

func main() {}
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	ds, err := Load(context.Background(), dir, ".")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds) != 2 || ds[0].Reference != "a" || ds[1].Reference != "b" {
		t.Fatalf("directives = %+v, want a then b", ds)
	}
	if ds[0].Package == nil || ds[0].Package.Name != "main" {
		t.Errorf("directive package = %v", ds[0].Package)
	}
}

func TestLoad_NoPackage(t *testing.T) {
	t.Setenv("GOWORK", "off")
	_, err := Load(context.Background(), t.TempDir(), "./does-not-exist")
	if err == nil {
		t.Fatal("expected error")
	}
}
