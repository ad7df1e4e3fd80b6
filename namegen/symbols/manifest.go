package symbols

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/render"
	"github.com/broady/prettyname/namegen/syntax"
)

// Manifest declares types and bindings that are not visible to the Go source
// loader: types of another language, generic methods, struct variants.
//
//	types:
//	  - name: Shape
//	    module: [geometry]
//	    kind: enum
//	    variants:
//	      - {name: Circle, shape: unit}
//	      - {name: Square, shape: tuple}
//	      - {name: Triangle, shape: struct}
//	bindings:
//	  - {name: identity, kind: fn, params: [T], type: "fn(T) -> T"}
type Manifest struct {
	Types    []ManifestType    `yaml:"types" validate:"unique=Name,dive"`
	Bindings []ManifestBinding `yaml:"bindings" validate:"unique=Name,dive"`
}

// ManifestType is a type declaration in a manifest.
type ManifestType struct {
	Name     string            `yaml:"name" validate:"required,rustident"`
	Module   []string          `yaml:"module" validate:"dive,rustident"`
	Kind     string            `yaml:"kind" validate:"required,oneof=struct enum trait union alias"`
	Params   []string          `yaml:"params" validate:"unique,dive,rustident"`
	Fields   []ManifestField   `yaml:"fields" validate:"unique=Name,dive"`
	Methods  []ManifestMethod  `yaml:"methods" validate:"unique=Name,dive"`
	Variants []ManifestVariant `yaml:"variants" validate:"unique=Name,dive"`
}

// ManifestField is a field declaration.
type ManifestField struct {
	Name string `yaml:"name" validate:"required,rustident"`
	Type string `yaml:"type" validate:"omitempty,typeexpr"`
}

// ManifestMethod is a method declaration.
type ManifestMethod struct {
	Name   string   `yaml:"name" validate:"required,rustident"`
	Params []string `yaml:"params" validate:"unique,dive,rustident"`
}

// ManifestVariant is an enum variant declaration.
type ManifestVariant struct {
	Name  string `yaml:"name" validate:"required,rustident"`
	Shape string `yaml:"shape" validate:"required,oneof=unit tuple struct"`
}

// ManifestBinding is a value binding declaration.
type ManifestBinding struct {
	Name   string   `yaml:"name" validate:"required,rustident"`
	Kind   string   `yaml:"kind" validate:"required,oneof=var const static fn"`
	Params []string `yaml:"params" validate:"unique,dive,rustident"`
	Type   string   `yaml:"type" validate:"omitempty,typeexpr"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("rustident", func(fl validator.FieldLevel) bool {
		return syntax.IsIdent(fl.Field().String())
	}))
	must(v.RegisterValidation("typeexpr", func(fl validator.FieldLevel) bool {
		_, err := syntax.ParseType(fl.Field().String())
		return err == nil
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// LoadManifest reads, validates and indexes a YAML manifest file.
func LoadManifest(path string) (*Index, error) {
	if path == "" {
		return nil, diag.NewError(diag.CodeInvalidManifest, "empty manifest path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", abs, err)
	}
	defer f.Close()
	return ReadManifest(abs, f)
}

// ReadManifest parses and indexes a manifest. name is used in diagnostics.
func ReadManifest(name string, r io.Reader) (*Index, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return NewIndex(), nil
		}
		return nil, diag.Errorf(diag.CodeInvalidManifest, "%s: %v", name, err)
	}
	return m.Index(name)
}

// Index validates the manifest and converts it to an index.
func (m *Manifest) Index(name string) (*Index, error) {
	if err := validate.Struct(m); err != nil {
		return nil, diag.FromValidation(diag.CodeInvalidManifest, name, err)
	}

	x := NewIndex()
	for i, t := range m.Types {
		d := &TypeDecl{
			Name:       t.Name,
			Module:     t.Module,
			Kind:       DeclKind(t.Kind),
			TypeParams: t.Params,
			Source:     fmt.Sprintf("%s: types[%d]", name, i),
		}
		for _, f := range t.Fields {
			d.Fields = append(d.Fields, Field{Name: f.Name, Type: canonical(f.Type)})
		}
		for _, mt := range t.Methods {
			d.Methods = append(d.Methods, Method{Name: mt.Name, TypeParams: mt.Params})
		}
		for _, v := range t.Variants {
			d.Variants = append(d.Variants, Variant{Name: v.Name, Shape: VariantShape(v.Shape)})
		}
		if len(d.Variants) > 0 && d.Kind != DeclEnum {
			return nil, diag.Errorf(diag.CodeInvalidManifest, "%s: type %s: variants are only allowed on enums", name, t.Name)
		}
		if err := x.AddType(d); err != nil {
			return nil, diag.Errorf(diag.CodeInvalidManifest, "%s: %v", name, err)
		}
	}
	for i, b := range m.Bindings {
		if len(b.Params) > 0 && b.Kind != string(BindingFunc) {
			return nil, diag.Errorf(diag.CodeInvalidManifest, "%s: binding %s: only functions take type parameters", name, b.Name)
		}
		err := x.AddBinding(&Binding{
			Name:       b.Name,
			Kind:       BindingKind(b.Kind),
			TypeParams: b.Params,
			Type:       canonical(b.Type),
			Source:     fmt.Sprintf("%s: bindings[%d]", name, i),
		})
		if err != nil {
			return nil, diag.Errorf(diag.CodeInvalidManifest, "%s: %v", name, err)
		}
	}
	return x, nil
}

// canonical renders an already validated type expression.
func canonical(src string) string {
	if src == "" {
		return ""
	}
	return render.Type(syntax.MustParseType(src))
}
