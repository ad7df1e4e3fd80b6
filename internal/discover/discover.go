// Package discover locates the directory and module of a Go package.
//
// The generated name table is written next to the package it describes, so
// the CLI needs the package directory when no output directory is given.
package discover

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// Result describes a located package.
type Result struct {
	PackagePath string
	Name        string
	ModulePath  string
	ModuleDir   string // directory containing go.mod
	Dir         string // directory containing the package
}

// Find locates a single Go package.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
func Find(ctx context.Context, pattern string) (*Result, error) {
	return FindDir(ctx, pattern, "")
}

// FindDir is like Find but resolves the pattern in dir.
func FindDir(ctx context.Context, pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedModule,
		Dir:     dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}

	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}

	result := &Result{
		PackagePath: pkg.PkgPath,
		Name:        pkg.Name,
	}

	if pkg.Module != nil {
		result.ModulePath = pkg.Module.Path
		result.ModuleDir = pkg.Module.Dir
	}

	if len(pkg.GoFiles) == 0 {
		return nil, fmt.Errorf("package %s has no Go files", pkg.PkgPath)
	}
	result.Dir = filepath.Dir(pkg.GoFiles[0])

	return result, nil
}

// OutputDir returns the directory generated files for patterns go to: out
// when set, otherwise the directory of the single package patterns name.
func OutputDir(ctx context.Context, out string, patterns []string) (string, error) {
	if out != "" {
		return filepath.Abs(out)
	}
	if len(patterns) != 1 {
		return "", fmt.Errorf("%d package patterns given; set an output directory", len(patterns))
	}
	res, err := Find(ctx, patterns[0])
	if err != nil {
		return "", err
	}
	return res.Dir, nil
}
