// Package symbols provides the declaration index consulted by the validator.
//
// An Index is built once, from Go sources (SourceProvider) and from YAML
// manifests (LoadManifest), and is only read afterwards. It is safe for
// concurrent readers once built.
package symbols

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DeclKind is the kind of a type declaration.
type DeclKind string

const (
	DeclStruct DeclKind = "struct"
	DeclEnum   DeclKind = "enum"
	DeclTrait  DeclKind = "trait"
	DeclUnion  DeclKind = "union"
	DeclAlias  DeclKind = "alias"
)

// VariantShape is the payload form of an enum variant.
type VariantShape string

const (
	ShapeUnit   VariantShape = "unit"   // no payload
	ShapeTuple  VariantShape = "tuple"  // positional payload
	ShapeStruct VariantShape = "struct" // named-field payload
)

// Field is a declared field of a struct or a struct variant.
type Field struct {
	Name string
	Type string // canonical display form, may be empty
}

// Method is a declared method.
type Method struct {
	Name       string
	TypeParams []string
}

// Variant is a declared enum variant.
type Variant struct {
	Name  string
	Shape VariantShape
}

// TypeDecl is a declared type and its members.
type TypeDecl struct {
	Name string

	// Module is the module path the type lives in, outermost first. It may be
	// empty.
	Module []string

	Kind       DeclKind
	TypeParams []string
	Fields     []Field
	Methods    []Method
	Variants   []Variant

	// Package is the import path of the Go package declaring the type.
	// Empty for manifest and reflection declarations, which are visible
	// everywhere.
	Package string

	// Source names where the declaration came from, e.g. a file position.
	Source string
}

// QualifiedPath returns Module followed by Name.
func (d *TypeDecl) QualifiedPath() []string {
	return append(slices.Clone(d.Module), d.Name)
}

// Field returns the named field.
func (d *TypeDecl) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Method returns the named method.
func (d *TypeDecl) Method(name string) (Method, bool) {
	for _, m := range d.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// Variant returns the named variant.
func (d *TypeDecl) Variant(name string) (Variant, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// BindingKind is the kind of a value binding.
type BindingKind string

const (
	BindingVar    BindingKind = "var"
	BindingConst  BindingKind = "const"
	BindingStatic BindingKind = "static"
	BindingFunc   BindingKind = "fn"
)

// Binding is a visible value: a variable, constant, static or function.
type Binding struct {
	Name       string
	Kind       BindingKind
	TypeParams []string

	// Type is the declared type in canonical display form.
	Type string

	// Package is the import path of the declaring Go package, empty for
	// bindings visible everywhere.
	Package string

	Source string
}

// Lookup is the declaration-lookup capability.
type Lookup interface {
	// LookupType finds a type by path. A path of several segments must be a
	// suffix of the declared module path and name, after dropping a leading
	// crate, self or super. A single segment must name exactly one visible
	// type.
	LookupType(path []string) (*TypeDecl, bool)

	// LookupBinding finds a visible value binding.
	LookupBinding(name string) (*Binding, bool)
}

// Index is an in-memory Lookup. Declarations of a Go package are keyed by
// that package; Index itself sees them only when the name is unambiguous
// across packages. Use InPackage for the view from inside one package.
type Index struct {
	types    map[string]*TypeDecl
	byName   map[string][]*TypeDecl
	bindings map[string]*Binding
	byBind   map[string][]*Binding
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		types:    make(map[string]*TypeDecl),
		byName:   make(map[string][]*TypeDecl),
		bindings: make(map[string]*Binding),
		byBind:   make(map[string][]*Binding),
	}
}

var _ Lookup = (*Index)(nil)

func typeKey(d *TypeDecl) string {
	key := strings.Join(d.QualifiedPath(), "::")
	if d.Package != "" {
		key = d.Package + " " + key
	}
	return key
}

func bindingKey(b *Binding) string {
	if b.Package != "" {
		return b.Package + " " + b.Name
	}
	return b.Name
}

// AddType adds a type declaration. Declaring the same qualified path twice in
// one package is an error.
func (x *Index) AddType(d *TypeDecl) error {
	key := typeKey(d)
	if prev, ok := x.types[key]; ok {
		return fmt.Errorf("type %s declared twice (%s and %s)",
			strings.Join(d.QualifiedPath(), "::"), sourceOf(prev.Source), sourceOf(d.Source))
	}
	x.types[key] = d
	x.byName[d.Name] = append(x.byName[d.Name], d)
	return nil
}

// AddBinding adds a value binding. Declaring the same name twice in one
// package is an error.
func (x *Index) AddBinding(b *Binding) error {
	key := bindingKey(b)
	if prev, ok := x.bindings[key]; ok {
		return fmt.Errorf("binding %s declared twice (%s and %s)", b.Name, sourceOf(prev.Source), sourceOf(b.Source))
	}
	x.bindings[key] = b
	x.byBind[b.Name] = append(x.byBind[b.Name], b)
	return nil
}

func sourceOf(s string) string {
	if s == "" {
		return "unknown source"
	}
	return s
}

// LookupType implements Lookup. A bare name that matches types in several
// modules or packages is not found.
func (x *Index) LookupType(path []string) (*TypeDecl, bool) {
	return x.lookupType(path, nil)
}

// LookupBinding implements Lookup. A name declared by several packages is
// not found.
func (x *Index) LookupBinding(name string) (*Binding, bool) {
	if b, ok := x.bindings[name]; ok {
		return b, true
	}
	if cands := x.byBind[name]; len(cands) == 1 {
		return cands[0], true
	}
	return nil, false
}

// InPackage returns the view of the index from inside the Go package with
// import path pkg: its own declarations and the unscoped ones. Types of other
// packages are reachable only through a qualified path such as <other::T>.
func (x *Index) InPackage(pkg string) Lookup {
	if pkg == "" {
		return x
	}
	return packageView{index: x, pkg: pkg}
}

type packageView struct {
	index *Index
	pkg   string
}

func (v packageView) LookupType(path []string) (*TypeDecl, bool) {
	return v.index.lookupType(path, func(d *TypeDecl) bool {
		return d.Package == "" || d.Package == v.pkg
	})
}

func (v packageView) LookupBinding(name string) (*Binding, bool) {
	if b, ok := v.index.bindings[v.pkg+" "+name]; ok {
		return b, true
	}
	b, ok := v.index.bindings[name]
	return b, ok
}

// lookupType finds the declaration path names. visible filters the
// candidates of a single-segment path; nil admits all.
func (x *Index) lookupType(path []string, visible func(*TypeDecl) bool) (*TypeDecl, bool) {
	for len(path) > 1 && isRootSegment(path[0]) {
		path = path[1:]
	}
	if len(path) == 0 {
		return nil, false
	}
	var match []*TypeDecl
	for _, d := range x.byName[path[len(path)-1]] {
		if len(path) == 1 {
			if visible == nil || visible(d) {
				match = append(match, d)
			}
			continue
		}
		if hasSuffix(d.QualifiedPath(), path) {
			match = append(match, d)
		}
	}
	if len(match) > 1 && visible != nil && len(path) == 1 {
		// The package's own declaration shadows an unscoped one.
		var own []*TypeDecl
		for _, d := range match {
			if d.Package != "" {
				own = append(own, d)
			}
		}
		match = own
	}
	if len(match) != 1 {
		return nil, false
	}
	return match[0], true
}

func isRootSegment(s string) bool {
	return s == "crate" || s == "self" || s == "super"
}

func hasSuffix(full, suffix []string) bool {
	if len(suffix) > len(full) {
		return false
	}
	return slices.Equal(full[len(full)-len(suffix):], suffix)
}

// Types returns all type declarations sorted by qualified path.
func (x *Index) Types() []*TypeDecl {
	keys := slices.Sorted(maps.Keys(x.types))
	out := make([]*TypeDecl, len(keys))
	for i, k := range keys {
		out[i] = x.types[k]
	}
	return out
}

// Bindings returns all bindings sorted by name.
func (x *Index) Bindings() []*Binding {
	keys := slices.Sorted(maps.Keys(x.bindings))
	out := make([]*Binding, len(keys))
	for i, k := range keys {
		out[i] = x.bindings[k]
	}
	return out
}

// Merge returns a new index holding the declarations of all inputs. A
// declaration present in more than one input is an error.
func Merge(indexes ...*Index) (*Index, error) {
	out := NewIndex()
	for _, x := range indexes {
		if x == nil {
			continue
		}
		for _, d := range x.Types() {
			if err := out.AddType(d); err != nil {
				return nil, err
			}
		}
		for _, b := range x.Bindings() {
			if err := out.AddBinding(b); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// layered shadows the bindings of a base lookup with locals.
type layered struct {
	base   Lookup
	locals map[string]*Binding
}

// WithLocals returns a Lookup in which locals shadow the bindings of base.
// Types always come from base.
func WithLocals(base Lookup, locals map[string]*Binding) Lookup {
	if len(locals) == 0 {
		return base
	}
	return layered{base: base, locals: locals}
}

func (l layered) LookupType(path []string) (*TypeDecl, bool) {
	return l.base.LookupType(path)
}

func (l layered) LookupBinding(name string) (*Binding, bool) {
	if b, ok := l.locals[name]; ok {
		return b, true
	}
	return l.base.LookupBinding(name)
}
