package symbols

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/broady/prettyname/namegen/diag"
)

func TestLoadManifest(t *testing.T) {
	idx, err := LoadManifest(filepath.Join("testdata", "geometry.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}

	shape := mustType(t, idx, "geometry", "Shape")
	if shape.Kind != DeclEnum || len(shape.Variants) != 3 {
		t.Errorf("Shape = %+v, want enum with 3 variants", shape)
	}
	if v, ok := shape.Variant("Triangle"); !ok || v.Shape != ShapeStruct {
		t.Errorf("Triangle = %+v, %v; want struct variant", v, ok)
	}
	if m, ok := shape.Method("scaled"); !ok || !slices.Equal(m.TypeParams, []string{"F"}) {
		t.Errorf("scaled = %+v, %v; want params [F]", m, ok)
	}

	point := mustType(t, idx, "Point")
	if !slices.Equal(point.TypeParams, []string{"T"}) {
		t.Errorf("Point.TypeParams = %v, want [T]", point.TypeParams)
	}
	if _, ok := point.Field("len"); !ok {
		t.Error("Point.len field not found")
	}
	if _, ok := point.Method("len"); !ok {
		t.Error("Point.len method not found")
	}

	reg, ok := idx.LookupBinding("registry")
	if !ok {
		t.Fatal("registry binding not found")
	}
	if reg.Kind != BindingStatic {
		t.Errorf("registry.Kind = %q, want static", reg.Kind)
	}
	if want := "HashMap<&str, Vec<u8>>"; reg.Type != want {
		t.Errorf("registry.Type = %q, want %q", reg.Type, want)
	}
	if !strings.Contains(reg.Source, "bindings[1]") {
		t.Errorf("registry.Source = %q, want it to name bindings[1]", reg.Source)
	}
}

func TestReadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "missing kind",
			yaml:    "types:\n  - name: Foo\n",
			wantMsg: "types[0].kind: required",
		},
		{
			name:    "bad kind",
			yaml:    "types:\n  - {name: Foo, kind: class}\n",
			wantMsg: "must be one of",
		},
		{
			name:    "bad identifier",
			yaml:    "types:\n  - {name: \"Foo-Bar\", kind: struct}\n",
			wantMsg: "is not an identifier",
		},
		{
			name:    "bad variant shape",
			yaml:    "types:\n  - name: E\n    kind: enum\n    variants: [{name: A, shape: record}]\n",
			wantMsg: "variants[0].shape",
		},
		{
			name:    "bad field type",
			yaml:    "types:\n  - name: S\n    kind: struct\n    fields: [{name: a, type: \"Vec<\"}]\n",
			wantMsg: "is not a type expression",
		},
		{
			name:    "duplicate types",
			yaml:    "types:\n  - {name: A, kind: struct}\n  - {name: A, kind: enum}\n",
			wantMsg: "must not contain duplicates",
		},
		{
			name:    "duplicate params",
			yaml:    "types:\n  - {name: A, kind: struct, params: [T, T]}\n",
			wantMsg: "must not contain duplicates",
		},
		{
			name:    "unknown key",
			yaml:    "types:\n  - {name: A, kind: struct, colour: red}\n",
			wantMsg: "colour",
		},
		{
			name:    "variants on struct",
			yaml:    "types:\n  - name: A\n    kind: struct\n    variants: [{name: B, shape: unit}]\n",
			wantMsg: "only allowed on enums",
		},
		{
			name:    "generic constant",
			yaml:    "bindings:\n  - {name: X, kind: const, params: [T]}\n",
			wantMsg: "only functions take type parameters",
		},
		{
			name:    "bad binding kind",
			yaml:    "bindings:\n  - {name: X, kind: let}\n",
			wantMsg: "bindings[0].kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadManifest("test.yaml", strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := diag.CodeOf(err); got != diag.CodeInvalidManifest {
				t.Errorf("code = %q, want %q", got, diag.CodeInvalidManifest)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestReadManifest_Empty(t *testing.T) {
	idx, err := ReadManifest("empty.yaml", strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if n := len(idx.Types()); n != 0 {
		t.Errorf("got %d types, want 0", n)
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want not-exist", err)
	}
	if _, err := LoadManifest(""); diag.CodeOf(err) != diag.CodeInvalidManifest {
		t.Errorf("empty path error = %v, want %s", err, diag.CodeInvalidManifest)
	}
}
