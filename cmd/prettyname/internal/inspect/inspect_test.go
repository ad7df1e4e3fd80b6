package inspect

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

const (
	appPkg   = "github.com/broady/prettyname/namegen/testdata/app"
	manifest = "../../../../namegen/testdata/geometry.yaml"
)

func TestResolveCmd(t *testing.T) {
	var out, logs bytes.Buffer
	c := &ResolveCmd{
		IndexFlags: IndexFlags{Packages: []string{appPkg}, Manifests: []string{manifest}},
		References: []string{"Shape::Circle", "<geometry::Point<f64>>::norm", "Shape::Hexagon"},
	}
	err := c.Run(t.Context(), slog.New(slog.NewTextHandler(&logs, nil)), &out)
	if err == nil || err.Error() != "1 of 3 references failed" {
		t.Errorf("err = %v", err)
	}
	for _, want := range []string{
		"Shape::Circle\tShape::Circle\tunit variant\n",
		"<geometry::Point<f64>>::norm\t<Point<f64>>::norm\tmethod\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if !strings.Contains(logs.String(), "Shape::Hexagon") {
		t.Errorf("failure not logged:\n%s", logs.String())
	}
}

func TestResolveCmd_Self(t *testing.T) {
	var out bytes.Buffer
	c := &ResolveCmd{
		IndexFlags: IndexFlags{Manifests: []string{manifest}},
		Self:       "geometry::Point<T>",
		References: []string{"Self::x"},
	}
	if err := c.Run(t.Context(), slog.New(slog.DiscardHandler), &out); err != nil {
		t.Fatal(err)
	}
	if want := "Self::x\t<Point<T>>::x\tfield\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRenderCmd(t *testing.T) {
	var out bytes.Buffer
	c := &RenderCmd{Types: []string{"std::vec::Vec<u8>", "Vec<", "[u8;4]"}}
	err := c.Run(slog.New(slog.DiscardHandler), &out)
	if err == nil || err.Error() != "1 of 3 types failed" {
		t.Errorf("err = %v", err)
	}
	if want := "Vec<u8>\n[u8; 4]\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestListCmd(t *testing.T) {
	var out bytes.Buffer
	c := &ListCmd{Packages: []string{appPkg}}
	if err := c.Run(t.Context(), &out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"app.go:17:1\tShape::Circle\n",
		"\tSelf::items\tSelf=Stack[T]\n",
		"\tMaxDepth\tconst=MaxDepthName\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
