// Package testutil provides testing helpers for code that resolves names.
// This package is designed to be import-cycle safe and can be used from any
// package outside the module root.
package testutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/broady/prettyname"
	"github.com/broady/prettyname/namegen/sink"
	"github.com/broady/prettyname/namegen/symbols"
)

// Manifest parses an inline YAML manifest, failing the test on error.
func Manifest(t testing.TB, src string) *symbols.Index {
	t.Helper()
	idx, err := symbols.ReadManifest(t.Name()+".yaml", strings.NewReader(src))
	if err != nil {
		t.Fatalf("invalid manifest: %v", err)
	}
	return idx
}

// NewResolver returns a resolver over an inline YAML manifest.
func NewResolver(t testing.TB, manifest string) *prettyname.Resolver {
	t.Helper()
	return prettyname.NewResolver(Manifest(t, manifest))
}

// AssertName checks that ref resolves to want.
func AssertName(t testing.TB, r *prettyname.Resolver, ref, want string, opts ...prettyname.ResolveOption) {
	t.Helper()
	got, err := r.Resolve(ref, opts...)
	if err != nil {
		t.Errorf("Resolve(%q) failed: %v", ref, err)
		return
	}
	if got != want {
		t.Errorf("Resolve(%q) = %q, want %q", ref, got, want)
	}
}

// AssertCode checks that err is a diagnostic with the expected code and
// returns it.
func AssertCode(t testing.TB, err error, expectedCode prettyname.ErrorCode) *prettyname.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %s, got nil", expectedCode)
	}
	if got := prettyname.CodeOf(err); got != expectedCode {
		t.Errorf("expected error code %s, got %q (error: %v)", expectedCode, got, err)
	}
	var e *prettyname.Error
	errors.As(err, &e)
	return e
}

// AssertFails checks that ref does not resolve and that the diagnostic has
// the expected code and names the reference.
func AssertFails(t testing.TB, r *prettyname.Resolver, ref string, expectedCode prettyname.ErrorCode, opts ...prettyname.ResolveOption) {
	t.Helper()
	_, err := r.Resolve(ref, opts...)
	AssertCode(t, err, expectedCode)
	if err != nil && !strings.Contains(err.Error(), ref) {
		t.Errorf("error %q does not name reference %q", err, ref)
	}
}

// AssertGenerated checks that a generated file exists in mem and contains
// every fragment.
func AssertGenerated(t testing.TB, mem *sink.MemorySink, path string, fragments ...string) string {
	t.Helper()
	content := mem.Get(path)
	if content == nil {
		t.Fatalf("file %s was not generated; have %d files", path, len(mem.Files()))
	}
	for _, f := range fragments {
		if !strings.Contains(string(content), f) {
			t.Errorf("%s does not contain %q:\n%s", path, f, content)
		}
	}
	return string(content)
}
