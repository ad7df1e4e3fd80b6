// Package directive finds prettyname directives in Go source files.
//
// A directive is a line comment of the form:
//
//	//prettyname:name <reference> [const=<GoIdent>] [doc=<text>]
//
// It may appear anywhere in a file. A directive in the doc comment or body of
// a method binds Self to the receiver type, one in the doc comment or body of
// a type declaration binds Self to that type. Anywhere else there is no Self.
package directive

import (
	"context"
	"errors"
	"go/ast"
	"go/token"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"

	"github.com/broady/prettyname/namegen/diag"
	"github.com/broady/prettyname/namegen/resolve"
)

// Prefix starts every directive comment.
const Prefix = "//prettyname:"

// Directive is a parsed //prettyname:name comment.
type Directive struct {
	// Reference is the reference text as written.
	Reference string

	Options Options

	// Self is the enclosing type context.
	Self resolve.Scope

	// SelfType names the enclosing type for diagnostics, e.g. "Stack[T]".
	// Empty when there is none.
	SelfType string

	// Pos is the location of the comment.
	Pos token.Position

	// At is the comment position in the file set the directive was
	// scanned from, for scope lookups.
	At token.Pos

	// Package is the package the directive was found in.
	Package *packages.Package
}

// Options are the key=value settings following the reference.
type Options struct {
	// Const overrides the generated constant name.
	Const string `schema:"const" validate:"omitempty,goident"`

	// Doc is the doc comment of the generated constant.
	Doc string `schema:"doc" validate:"max=200"`
}

// ConstName returns the generated constant name: the const option, or Name
// followed by the identifier runs of name in title case (Shape::Triangle{..}
// is NameShapeTriangle). name is usually the composed name.
func (d Directive) ConstName(name string) string {
	if d.Options.Const != "" {
		return d.Options.Const
	}
	return "Name" + identTitle(name)
}

func identTitle(s string) string {
	var b strings.Builder
	start := true
	for _, r := range s {
		if r == '_' || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			start = true
			continue
		}
		if start {
			r = unicode.ToUpper(r)
			start = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(false)
	return d
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return token.IsIdentifier(s) && !token.IsKeyword(s)
	}); err != nil {
		panic(err)
	}
	return v
}

// Load loads the packages matching patterns in dir and scans them.
func Load(ctx context.Context, dir string, patterns ...string) ([]Directive, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:     dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, diag.Errorf(diag.CodeLoadFailed, "load packages: %v", err)
	}
	if len(pkgs) == 0 {
		return nil, diag.Errorf(diag.CodeLoadFailed, "no packages found matching %s", strings.Join(patterns, " "))
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, diag.Errorf(diag.CodeLoadFailed, "package %s: %v", pkg.PkgPath, pkg.Errors[0])
		}
	}
	return Scan(pkgs)
}

// Scan returns the directives of every file of pkgs, in position order.
// All malformed directives are reported together.
func Scan(pkgs []*packages.Package) ([]Directive, error) {
	var out []Directive
	var errs []error
	for _, pkg := range pkgs {
		for _, f := range pkg.Syntax {
			ds, err := ScanFile(pkg.Fset, f)
			errs = append(errs, err)
			for i := range ds {
				ds[i].Package = pkg
			}
			out = append(out, ds...)
		}
	}
	slices.SortStableFunc(out, func(a, b Directive) int {
		if c := strings.Compare(a.Pos.Filename, b.Pos.Filename); c != 0 {
			return c
		}
		return a.Pos.Offset - b.Pos.Offset
	})
	return out, errors.Join(errs...)
}

// ScanFile returns the directives of a single parsed file. The file must be
// parsed with comments.
func ScanFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	var out []Directive
	var errs []error
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, Prefix) {
				continue
			}
			pos := fset.Position(c.Pos())
			d, err := parseComment(strings.TrimPrefix(c.Text, Prefix))
			if err != nil {
				var de *diag.Error
				if !errors.As(err, &de) {
					de = diag.Errorf(diag.CodeInvalidDirective, "%v", err)
				}
				errs = append(errs, de.WithPos(pos))
				continue
			}
			d.Pos = pos
			d.At = c.Pos()
			d.Self, d.SelfType = enclosing(f, cg, c)
			out = append(out, d)
		}
	}
	return out, errors.Join(errs...)
}

func parseComment(text string) (Directive, error) {
	verb, rest, _ := strings.Cut(text, " ")
	if verb != "name" {
		return Directive{}, errors.New("unknown directive " + Prefix + verb)
	}
	ref, opts, err := splitOptions(strings.TrimSpace(rest))
	if err != nil {
		return Directive{}, err
	}
	if ref == "" {
		return Directive{}, errors.New(Prefix + "name requires a reference")
	}

	d := Directive{Reference: ref}
	if err := decoder.Decode(&d.Options, opts); err != nil {
		return Directive{}, errors.New("options: " + err.Error())
	}
	if err := validate.Struct(d.Options); err != nil {
		return Directive{}, diag.FromValidation(diag.CodeInvalidDirective, "options", err)
	}
	return d, nil
}

// splitOptions separates the reference from trailing key=value options.
// Options start at the first blank outside brackets that is followed by
// key=. Values may be quoted Go strings.
func splitOptions(s string) (string, url.Values, error) {
	vals := url.Values{}
	depth := 0
	cut := len(s)
	if isOptionStart(s) {
		cut = 0
	}
	for i, r := range s {
		if cut != len(s) {
			break
		}
		switch r {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			if i > 0 && s[i-1] == '-' {
				continue
			}
			depth--
		case ' ', '\t':
			if depth == 0 && isOptionStart(s[i+1:]) {
				cut = i
			}
		}
	}
	ref := strings.TrimSpace(s[:cut])
	rest := strings.TrimSpace(s[cut:])
	for rest != "" {
		key, after, ok := strings.Cut(rest, "=")
		if !ok || !isKey(key) {
			return "", nil, errors.New("malformed option " + strconv.Quote(rest))
		}
		var val string
		if strings.HasPrefix(after, `"`) {
			q, err := strconv.QuotedPrefix(after)
			if err != nil {
				return "", nil, errors.New("option " + key + ": unterminated string")
			}
			val, _ = strconv.Unquote(q)
			after = after[len(q):]
		} else {
			val, after, _ = strings.Cut(after, " ")
		}
		if vals.Has(key) {
			return "", nil, errors.New("option " + key + " given twice")
		}
		vals.Set(key, val)
		rest = strings.TrimSpace(after)
	}
	return ref, vals, nil
}

func isOptionStart(s string) bool {
	s = strings.TrimLeft(s, " \t")
	key, _, ok := strings.Cut(s, "=")
	return ok && isKey(key)
}

func isKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// enclosing finds the type Self refers to at comment c of group cg.
func enclosing(f *ast.File, cg *ast.CommentGroup, c *ast.Comment) (resolve.Scope, string) {
	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			if decl.Doc == cg {
				return receiverScope(decl)
			}
		case *ast.GenDecl:
			if decl.Tok != token.TYPE {
				continue
			}
			for _, spec := range decl.Specs {
				ts := spec.(*ast.TypeSpec)
				if ts.Doc == cg || ts.Comment == cg || (decl.Doc == cg && len(decl.Specs) == 1) {
					return typeSpecScope(ts)
				}
			}
		}
	}

	path, _ := astutil.PathEnclosingInterval(f, c.Pos(), c.End())
	for _, n := range path {
		switch n := n.(type) {
		case *ast.FuncDecl:
			return receiverScope(n)
		case *ast.TypeSpec:
			return typeSpecScope(n)
		}
	}
	return resolve.NoScope, ""
}

func receiverScope(fn *ast.FuncDecl) (resolve.Scope, string) {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return resolve.NoScope, ""
	}
	t := fn.Recv.List[0].Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	var params []string
	switch x := t.(type) {
	case *ast.IndexExpr:
		t = x.X
		params = append(params, exprName(x.Index))
	case *ast.IndexListExpr:
		t = x.X
		for _, idx := range x.Indices {
			params = append(params, exprName(idx))
		}
	}
	return scopeFor(exprName(t), params)
}

func typeSpecScope(ts *ast.TypeSpec) (resolve.Scope, string) {
	var params []string
	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			for _, name := range field.Names {
				params = append(params, name.Name)
			}
		}
	}
	return scopeFor(ts.Name.Name, params)
}

func scopeFor(name string, params []string) (resolve.Scope, string) {
	if name == "" || name == "_" {
		return resolve.NoScope, ""
	}
	display := name
	if len(params) > 0 {
		display += "[" + strings.Join(params, ", ") + "]"
	}
	return resolve.TypeScope(name, params...), display
}

func exprName(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}
