package check

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/broady/prettyname/cmd/prettyname/internal/gen"
	"github.com/broady/prettyname/namegen/golang"
)

const (
	appPkg   = "github.com/broady/prettyname/namegen/testdata/app"
	manifest = "../../../../namegen/testdata/geometry.yaml"
)

func options() gen.Options {
	return gen.Options{
		Packages:  []string{appPkg},
		Manifests: []string{manifest},
		FileName:  golang.DefaultFileName,
	}
}

func TestCmd_Run(t *testing.T) {
	var out bytes.Buffer
	c := &Cmd{Options: options()}
	if err := c.Run(t.Context(), slog.New(slog.DiscardHandler), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "references resolved") {
		t.Errorf("output = %q", out.String())
	}

	c.Manifests = nil
	if err := c.Run(t.Context(), slog.New(slog.DiscardHandler), &out); err == nil {
		t.Error("check passed without the manifest")
	}
}

func TestCmd_Verify(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	dir := t.TempDir()

	var out bytes.Buffer
	c := &Cmd{Options: options(), Verify: dir}
	err := c.Run(t.Context(), log, &out)
	if err == nil || !strings.Contains(err.Error(), "stale") {
		t.Fatalf("err = %v, want stale files", err)
	}
	if !strings.Contains(out.String(), golang.DefaultFileName+": missing") {
		t.Errorf("output = %q", out.String())
	}

	g := &gen.Cmd{Options: options(), Out: dir}
	if err := g.Run(t.Context(), log, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := c.Run(t.Context(), log, &out); err != nil {
		t.Fatalf("after gen: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "up to date") {
		t.Errorf("output = %q", out.String())
	}

	path := filepath.Join(dir, golang.DefaultFileName)
	if err := os.WriteFile(path, []byte("package app\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := c.Run(t.Context(), log, &out); err == nil {
		t.Error("edited file reported up to date")
	}
	if !strings.Contains(out.String(), "out of date") {
		t.Errorf("output = %q", out.String())
	}
}
