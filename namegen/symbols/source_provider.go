package symbols

import (
	"cmp"
	"context"
	"fmt"
	"go/token"
	"go/types"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"

	"github.com/broady/prettyname/namegen/diag"
)

// SourceProvider builds an index by analyzing Go source code.
type SourceProvider struct{}

// SourceInputOptions configures source-based index building.
type SourceInputOptions struct {
	// Packages are the Go package patterns to analyze.
	Packages []string

	// Dir is the directory patterns are resolved in. Empty means the
	// current directory.
	Dir string
}

// SourceIndex is an index built from loaded packages. The packages are kept
// so that callers can scan their syntax without loading them again.
type SourceIndex struct {
	*Index
	Packages []*packages.Package
}

// LoadMode is the go/packages mode needed to build an index.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// BuildIndex loads the packages and indexes their package-level declarations.
//
// Go declarations map onto the index as follows:
//   - a struct type declares its fields and methods
//   - a defined basic type with constants of that type is an enum whose unit
//     variants are the constants
//   - an interface with an unexported method is a sealed enum; each type of
//     the package implementing it is a variant: an empty struct is a unit
//     variant, a struct with fields is a struct variant, any other type is a
//     tuple variant
//   - any other interface is a trait
//   - package-level vars, consts and funcs are bindings
//
// Variant names drop the enum's name when it prefixes them (ColorRed is
// Color::Red).
func (p *SourceProvider) BuildIndex(ctx context.Context, opts SourceInputOptions) (*SourceIndex, error) {
	if len(opts.Packages) == 0 {
		return nil, diag.NewError(diag.CodeLoadFailed, "no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode:    LoadMode,
	}
	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, diag.Errorf(diag.CodeLoadFailed, "failed to load packages: %v", err)
	}
	if len(pkgs) == 0 {
		return nil, diag.NewError(diag.CodeLoadFailed, "no packages found")
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, diag.Errorf(diag.CodeLoadFailed, "package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}
	slices.SortFunc(pkgs, func(a, b *packages.Package) int {
		return strings.Compare(a.PkgPath, b.PkgPath)
	})

	b := &indexBuilder{index: NewIndex()}
	for _, pkg := range pkgs {
		if err := b.addPackage(pkg); err != nil {
			return nil, err
		}
	}
	return &SourceIndex{Index: b.index, Packages: pkgs}, nil
}

// LookupAt returns the view from pos in pkg: the declarations of pkg, the
// unscoped ones, and the local variables and constants declared before pos.
func (s *SourceIndex) LookupAt(pkg *packages.Package, pos token.Pos) Lookup {
	return At(s.Index, pkg, pos)
}

// At is LookupAt over any index that holds the declarations of pkg, such as
// a SourceIndex merged with manifests.
func At(x *Index, pkg *packages.Package, pos token.Pos) Lookup {
	if pkg == nil {
		return x
	}
	return WithLocals(x.InPackage(pkg.PkgPath), Locals(pkg, pos))
}

// Locals returns the variables and constants of the function scopes
// enclosing pos that are declared before it. Inner declarations shadow
// outer ones.
func Locals(pkg *packages.Package, pos token.Pos) map[string]*Binding {
	if pkg == nil || pkg.Types == nil || !pos.IsValid() {
		return nil
	}
	pkgScope := pkg.Types.Scope()
	inner := pkgScope.Innermost(pos)
	locals := make(map[string]*Binding)
	for sc := inner; sc != nil && sc != pkgScope && sc.Parent() != pkgScope; sc = sc.Parent() {
		for _, name := range sc.Names() {
			if _, shadowed := locals[name]; shadowed {
				continue
			}
			obj := sc.Lookup(name)
			if obj.Pos() >= pos {
				continue
			}
			var kind BindingKind
			switch obj.(type) {
			case *types.Var:
				kind = BindingVar
			case *types.Const:
				kind = BindingConst
			default:
				continue
			}
			locals[name] = &Binding{
				Name:   name,
				Kind:   kind,
				Type:   typeString(obj.Type()),
				Source: pkg.Fset.Position(obj.Pos()).String(),
			}
		}
	}
	return locals
}

// indexBuilder accumulates declarations from loaded packages.
type indexBuilder struct {
	index *Index
}

func (b *indexBuilder) addPackage(pkg *packages.Package) error {
	scope := pkg.Types.Scope()
	names := scope.Names()

	for _, name := range names {
		obj := scope.Lookup(name)
		src := pkg.Fset.Position(obj.Pos()).String()
		var err error
		switch obj := obj.(type) {
		case *types.TypeName:
			d := b.typeDecl(pkg, obj)
			d.Package = pkg.PkgPath
			d.Source = src
			err = b.index.AddType(d)
		case *types.Var:
			err = b.index.AddBinding(&Binding{Name: name, Kind: BindingVar, Type: typeString(obj.Type()), Package: pkg.PkgPath, Source: src})
		case *types.Const:
			err = b.index.AddBinding(&Binding{Name: name, Kind: BindingConst, Type: typeString(obj.Type()), Package: pkg.PkgPath, Source: src})
		case *types.Func:
			sig := obj.Type().(*types.Signature)
			err = b.index.AddBinding(&Binding{
				Name:       name,
				Kind:       BindingFunc,
				TypeParams: typeParamNames(sig.TypeParams()),
				Type:       typeString(sig),
				Package:    pkg.PkgPath,
				Source:     src,
			})
		}
		if err != nil {
			return diag.Errorf(diag.CodeLoadFailed, "%v", err)
		}
	}
	return nil
}

func (b *indexBuilder) typeDecl(pkg *packages.Package, tn *types.TypeName) *TypeDecl {
	d := &TypeDecl{
		Name:   tn.Name(),
		Module: []string{pkg.Name},
		Kind:   DeclStruct,
	}
	if tn.IsAlias() {
		d.Kind = DeclAlias
		return d
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return d
	}
	d.TypeParams = typeParamNames(named.TypeParams())

	for i := 0; i < named.NumMethods(); i++ {
		d.Methods = append(d.Methods, Method{Name: named.Method(i).Name()})
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			d.Fields = append(d.Fields, Field{Name: f.Name(), Type: typeString(f.Type())})
		}
	case *types.Interface:
		d.Kind = DeclTrait
		for i := 0; i < u.NumMethods(); i++ {
			d.Methods = append(d.Methods, Method{Name: u.Method(i).Name()})
		}
		if isSealed(u) {
			d.Kind = DeclEnum
			d.Variants = sealedVariants(tn, u, pkg.Types.Scope())
		}
	case *types.Basic:
		if consts := enumConstants(named, pkg.Types.Scope()); len(consts) > 0 {
			d.Kind = DeclEnum
			for _, c := range consts {
				d.Variants = append(d.Variants, Variant{Name: variantName(tn.Name(), c), Shape: ShapeUnit})
			}
		}
	}
	return d
}

// isSealed reports whether an interface has an unexported method, so that
// only its own package can implement it.
func isSealed(iface *types.Interface) bool {
	for i := 0; i < iface.NumMethods(); i++ {
		if !iface.Method(i).Exported() {
			return true
		}
	}
	return false
}

// enumConstants returns the names of constants declared with the named type,
// in declaration order.
func enumConstants(named *types.Named, scope *types.Scope) []string {
	var consts []*types.Const
	for _, name := range scope.Names() {
		cnst, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(cnst.Type(), named) {
			consts = append(consts, cnst)
		}
	}
	slices.SortFunc(consts, func(a, b *types.Const) int { return cmp.Compare(a.Pos(), b.Pos()) })
	names := make([]string, len(consts))
	for i, c := range consts {
		names[i] = c.Name()
	}
	return names
}

// sealedVariants returns the types of scope implementing a sealed interface.
func sealedVariants(enum *types.TypeName, iface *types.Interface, scope *types.Scope) []Variant {
	var out []Variant
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn == enum || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		if _, isIface := named.Underlying().(*types.Interface); isIface {
			continue
		}
		if !types.Implements(named, iface) && !types.Implements(types.NewPointer(named), iface) {
			continue
		}
		shape := ShapeTuple
		if st, ok := named.Underlying().(*types.Struct); ok {
			shape = ShapeStruct
			if st.NumFields() == 0 {
				shape = ShapeUnit
			}
		}
		out = append(out, Variant{Name: variantName(enum.Name(), tn.Name()), Shape: shape})
	}
	return out
}

func variantName(enum, name string) string {
	rest, ok := strings.CutPrefix(name, enum)
	if !ok || rest == "" {
		return name
	}
	if r := []rune(rest)[0]; !unicode.IsUpper(r) && r != '_' {
		return name
	}
	if rest = strings.TrimPrefix(rest, "_"); rest == "" {
		return name
	}
	return rest
}

func typeParamNames(tps *types.TypeParamList) []string {
	if tps == nil || tps.Len() == 0 {
		return nil
	}
	names := make([]string, tps.Len())
	for i := 0; i < tps.Len(); i++ {
		names[i] = tps.At(i).Obj().Name()
	}
	return names
}

// typeString prints a Go type without package qualifiers.
func typeString(t types.Type) string {
	return types.TypeString(t, func(*types.Package) string { return "" })
}

// String describes the index for debugging.
func (s *SourceIndex) String() string {
	return fmt.Sprintf("SourceIndex(%d packages, %d types, %d bindings)",
		len(s.Packages), len(s.Types()), len(s.Bindings()))
}
