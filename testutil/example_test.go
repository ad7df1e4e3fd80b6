package testutil_test

import (
	"log/slog"
	"testing"

	"github.com/broady/prettyname"
	"github.com/broady/prettyname/namegen"
	"github.com/broady/prettyname/namegen/sink"
	"github.com/broady/prettyname/testutil"
)

const shapes = `
types:
  - name: Shape
    kind: enum
    methods:
      - {name: area}
    variants:
      - {name: Circle, shape: unit}
      - {name: Rect, shape: struct}
  - name: Grid
    kind: struct
    params: [T]
    fields:
      - {name: cells}
`

func TestAssertName(t *testing.T) {
	r := testutil.NewResolver(t, shapes)

	testutil.AssertName(t, r, "Shape::Circle", "Shape::Circle")
	testutil.AssertName(t, r, "Shape::Rect{..}", "Shape::Rect")
	testutil.AssertName(t, r, "Self::cells", "<Grid<T>>::cells", prettyname.InScope("Grid<T>"))
}

func TestAssertFails(t *testing.T) {
	r := testutil.NewResolver(t, shapes)

	testutil.AssertFails(t, r, "Shape::Rect", prettyname.CodeAmbiguousOrMissingMember)
	testutil.AssertFails(t, r, "Shape::Circle{..}", prettyname.CodeVariantShapeMismatch)
	testutil.AssertFails(t, r, "Self::cells", prettyname.CodeSelfOutsideImpl)
}

func TestAssertCode(t *testing.T) {
	_, err := prettyname.RenderType("Vec<")
	if e := testutil.AssertCode(t, err, prettyname.CodeMalformedReference); e == nil {
		t.Error("AssertCode did not return the diagnostic")
	}
}

func TestAssertGenerated(t *testing.T) {
	mem := sink.NewMemorySink()
	_, err := namegen.FromPackages("github.com/broady/prettyname/namegen/testdata/app").
		WithManifest("../namegen/testdata/geometry.yaml").
		WithLogger(slog.New(slog.DiscardHandler)).
		ToSink(mem)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertGenerated(t, mem, "prettyname_gen.go",
		"package app",
		`NameShapeCircle = "Shape::Circle"`,
	)
}
