package symbols

import (
	"context"
	"fmt"
	"maps"
	"path"
	"reflect"
	"slices"
	"strings"

	"github.com/broady/prettyname/namegen/diag"
)

// ReflectionProvider builds an index from run-time types, for programs that
// resolve names without access to their source. Reflection cannot see enum
// variants, unexported methods or the names of type parameters; use the
// SourceProvider or a manifest for those.
type ReflectionProvider struct{}

// ReflectionInputOptions configures reflection-based index building.
type ReflectionInputOptions struct {
	// RootTypes are the types to index. Named types reachable through
	// their fields are indexed too.
	RootTypes []reflect.Type

	// Values are bindings by name. Functions become function bindings,
	// anything else a variable.
	Values map[string]any
}

// BuildIndex indexes the root types and values.
//
// A generic instantiation such as Box[int] declares the generic type Box
// with one type parameter per instantiation argument, named T1, T2 and so
// on. The module of a type is the last element of its package path.
func (p *ReflectionProvider) BuildIndex(ctx context.Context, opts ReflectionInputOptions) (*Index, error) {
	if len(opts.RootTypes) == 0 && len(opts.Values) == 0 {
		return nil, diag.NewError(diag.CodeLoadFailed, "no root types or values provided")
	}

	b := &reflectionIndexBuilder{
		index:   NewIndex(),
		visited: make(map[reflect.Type]bool),
	}
	for i, t := range opts.RootTypes {
		if t == nil {
			return nil, diag.Errorf(diag.CodeLoadFailed, "root type %d is nil", i)
		}
		if err := b.extractType(ctx, t); err != nil {
			return nil, err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(opts.Values)) {
		if err := b.addValue(name, opts.Values[name]); err != nil {
			return nil, err
		}
	}
	return b.index, nil
}

// reflectionIndexBuilder maintains state during index construction.
type reflectionIndexBuilder struct {
	index   *Index
	visited map[reflect.Type]bool
}

// extractType indexes t if it is named, then the types it refers to.
func (b *reflectionIndexBuilder) extractType(ctx context.Context, t reflect.Type) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Dereference pointers to get to the underlying type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if b.visited[t] {
		return nil
	}
	b.visited[t] = true

	if t.Name() != "" && t.PkgPath() != "" {
		if err := b.addNamed(t); err != nil {
			return err
		}
	}

	switch t.Kind() {
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := b.extractType(ctx, t.Field(i).Type); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array, reflect.Chan:
		return b.extractType(ctx, t.Elem())
	case reflect.Map:
		if err := b.extractType(ctx, t.Key()); err != nil {
			return err
		}
		return b.extractType(ctx, t.Elem())
	}
	return nil
}

func (b *reflectionIndexBuilder) addNamed(t reflect.Type) error {
	name, args := splitInstantiation(t.Name())
	d := &TypeDecl{
		Name:   name,
		Module: []string{path.Base(t.PkgPath())},
		Kind:   DeclStruct,
		Source: t.PkgPath() + "." + name,
	}
	if prev, ok := b.index.types[typeKey(d)]; ok && prev.Source == d.Source {
		// Another instantiation of the same generic type.
		return nil
	}
	for i := range args {
		d.TypeParams = append(d.TypeParams, fmt.Sprintf("T%d", i+1))
	}

	switch t.Kind() {
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			d.Fields = append(d.Fields, Field{Name: f.Name, Type: StripQualifiers(f.Type.String())})
		}
	case reflect.Interface:
		d.Kind = DeclTrait
	}
	d.Methods = methodsOf(t)

	if err := b.index.AddType(d); err != nil {
		return diag.Errorf(diag.CodeLoadFailed, "%v", err)
	}
	return nil
}

func (b *reflectionIndexBuilder) addValue(name string, v any) error {
	t := reflect.TypeOf(v)
	bd := &Binding{Name: name, Kind: BindingVar, Source: "value " + name}
	if t != nil {
		bd.Type = StripQualifiers(t.String())
		if t.Kind() == reflect.Func {
			bd.Kind = BindingFunc
		}
	}
	if err := b.index.AddBinding(bd); err != nil {
		return diag.Errorf(diag.CodeLoadFailed, "%v", err)
	}
	return nil
}

// methodsOf returns the exported methods of t and *t, sorted by name.
func methodsOf(t reflect.Type) []Method {
	seen := make(map[string]bool)
	var out []Method
	add := func(mt reflect.Type) {
		for i := 0; i < mt.NumMethod(); i++ {
			name := mt.Method(i).Name
			if !seen[name] {
				seen[name] = true
				out = append(out, Method{Name: name})
			}
		}
	}
	add(t)
	if t.Kind() != reflect.Interface {
		add(reflect.PointerTo(t))
	}
	slices.SortFunc(out, func(a, b Method) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// splitInstantiation splits "Pair[int,main.User]" into "Pair" and its top
// level arguments.
func splitInstantiation(name string) (string, []string) {
	open := strings.IndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return name, nil
	}
	inner := name[open+1 : len(name)-1]
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, inner[start:i])
				start = i + 1
			}
		}
	}
	args = append(args, inner[start:])
	return name[:open], args
}
