package discover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module example.com/m\n\ngo 1.21\n"
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFindDir(t *testing.T) {
	t.Setenv("GOWORK", "off")
	dir := writeModule(t, map[string]string{
		"shapes/shapes.go": "package shapes\n",
		"b/one.go":         "package b\n",
		"b/sub/two.go":     "package sub\n",
	})

	tests := []struct {
		name    string
		pattern string
		wantPkg string
		wantDir string
		wantErr string
	}{
		{name: "relative dir", pattern: "./shapes", wantPkg: "shapes", wantDir: "shapes"},
		{name: "import path", pattern: "example.com/m/b/sub", wantPkg: "sub", wantDir: "b/sub"},
		{name: "several packages", pattern: "./b/...", wantErr: "multiple packages"},
		{name: "no go files", pattern: "./missing", wantErr: "package"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := FindDir(t.Context(), tt.pattern, dir)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Name != tt.wantPkg {
				t.Errorf("Name = %q, want %q", res.Name, tt.wantPkg)
			}
			if res.ModulePath != "example.com/m" {
				t.Errorf("ModulePath = %q", res.ModulePath)
			}
			wantDir, _ := filepath.EvalSymlinks(filepath.Join(dir, tt.wantDir))
			gotDir, _ := filepath.EvalSymlinks(res.Dir)
			if gotDir != wantDir {
				t.Errorf("Dir = %q, want %q", res.Dir, wantDir)
			}
		})
	}
}

func TestOutputDir(t *testing.T) {
	got, err := OutputDir(t.Context(), "out", []string{"./a", "./b"})
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "out" {
		t.Errorf("OutputDir = %q", got)
	}

	if _, err := OutputDir(t.Context(), "", []string{"./a", "./b"}); err == nil {
		t.Error("expected error for several patterns")
	}

	got, err = OutputDir(t.Context(), "", []string{"github.com/broady/prettyname/namegen/testdata/app"})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "app" {
		t.Errorf("OutputDir = %q, want the app directory", got)
	}
}
