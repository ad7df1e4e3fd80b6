// Package render prints type expressions in canonical display form.
//
// The canonical form keeps the structure of a type and drops the clutter:
// only the last segment of every path is shown, and lifetimes are erased
// wherever they appear. Rendering is a pure fold; the input is never mutated.
package render

import (
	"strings"

	"github.com/broady/prettyname/namegen/ir"
)

// StdPaths lists fully qualified standard library paths whose final segment
// is the usual spelling of the type. Every path renders as its final segment,
// so the table does not change output; it names what IsStd recognizes.
var StdPaths = map[string]string{
	"std::boxed::Box":                "Box",
	"std::cell::Cell":                "Cell",
	"std::cell::RefCell":             "RefCell",
	"std::collections::BTreeMap":     "BTreeMap",
	"std::collections::BTreeSet":     "BTreeSet",
	"std::collections::BinaryHeap":   "BinaryHeap",
	"std::collections::HashMap":      "HashMap",
	"std::collections::HashSet":      "HashSet",
	"std::collections::LinkedList":   "LinkedList",
	"std::collections::VecDeque":     "VecDeque",
	"std::borrow::Cow":               "Cow",
	"std::marker::PhantomData":       "PhantomData",
	"std::option::Option":            "Option",
	"std::rc::Rc":                    "Rc",
	"std::rc::Weak":                  "Weak",
	"std::result::Result":            "Result",
	"std::string::String":            "String",
	"std::sync::Arc":                 "Arc",
	"std::sync::Mutex":               "Mutex",
	"std::sync::RwLock":              "RwLock",
	"std::sync::Weak":                "Weak",
	"std::vec::Vec":                  "Vec",
	"alloc::boxed::Box":              "Box",
	"alloc::string::String":          "String",
	"alloc::vec::Vec":                "Vec",
	"core::cell::Cell":               "Cell",
	"core::marker::PhantomData":      "PhantomData",
	"core::option::Option":           "Option",
	"core::result::Result":           "Result",
	"std::fmt::Debug":                "Debug",
	"std::fmt::Display":              "Display",
	"std::error::Error":              "Error",
	"std::io::Error":                 "Error",
	"std::io::Read":                  "Read",
	"std::io::Write":                 "Write",
	"std::ops::Deref":                "Deref",
	"std::iter::Iterator":            "Iterator",
	"std::iter::IntoIterator":        "IntoIterator",
	"std::any::Any":                  "Any",
	"std::marker::Send":              "Send",
	"std::marker::Sync":              "Sync",
	"std::marker::Sized":             "Sized",
	"std::convert::From":             "From",
	"std::convert::Into":             "Into",
	"std::future::Future":            "Future",
	"std::pin::Pin":                  "Pin",
	"std::ffi::OsString":             "OsString",
	"std::path::PathBuf":             "PathBuf",
	"std::time::Duration":            "Duration",
	"std::num::NonZeroUsize":         "NonZeroUsize",
	"std::sync::atomic::AtomicUsize": "AtomicUsize",
}

// IsStd reports whether the path segments name a recognized standard library
// type. A leading "::" is not significant.
func IsStd(names []string) bool {
	_, ok := StdPaths[strings.Join(names, "::")]
	return ok
}

// Type returns the canonical rendering of t.
func Type(t ir.TypeExpr) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

// Path returns the canonical rendering of a path.
func Path(p *ir.PathExpr) string {
	var b strings.Builder
	writePath(&b, p)
	return b.String()
}

func writeType(b *strings.Builder, t ir.TypeExpr) {
	switch e := t.(type) {
	case nil:
		b.WriteString("()")
	case *ir.PathExpr:
		writePath(b, e)
	case *ir.RefExpr:
		b.WriteByte('&')
		if e.Mut {
			b.WriteString("mut ")
		}
		writeType(b, e.Elem)
	case *ir.PtrExpr:
		if e.Mut {
			b.WriteString("*mut ")
		} else {
			b.WriteString("*const ")
		}
		writeType(b, e.Elem)
	case *ir.SliceExpr:
		b.WriteByte('[')
		writeType(b, e.Elem)
		b.WriteByte(']')
	case *ir.ArrayExpr:
		b.WriteByte('[')
		writeType(b, e.Elem)
		b.WriteString("; ")
		b.WriteString(e.Len)
		b.WriteByte(']')
	case *ir.TupleExpr:
		b.WriteByte('(')
		writeList(b, e.Elems)
		if len(e.Elems) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case *ir.FnExpr:
		writeFn(b, e)
	case *ir.TraitObjectExpr:
		b.WriteString("dyn ")
		writeBounds(b, e.Bounds)
	case *ir.ImplTraitExpr:
		b.WriteString("impl ")
		writeBounds(b, e.Bounds)
	case *ir.ParenExpr:
		b.WriteByte('(')
		writeType(b, e.Elem)
		b.WriteByte(')')
	case *ir.NeverExpr:
		b.WriteByte('!')
	case *ir.InferExpr:
		b.WriteByte('_')
	}
}

func writeList(b *strings.Builder, ts []ir.TypeExpr) {
	for i, t := range ts {
		if i > 0 {
			b.WriteString(", ")
		}
		writeType(b, t)
	}
}

// writePath writes only the final segment. A qualified path keeps its
// <T as Trait> prefix, itself rendered canonically.
func writePath(b *strings.Builder, p *ir.PathExpr) {
	if p.QSelf != nil {
		b.WriteByte('<')
		writeType(b, p.QSelf.Type)
		if p.QSelf.Trait != nil {
			b.WriteString(" as ")
			writePath(b, p.QSelf.Trait)
		}
		b.WriteString(">::")
	}
	if len(p.Segments) == 0 {
		return
	}
	writeSegment(b, p.Last())
}

func writeSegment(b *strings.Builder, s ir.PathSegment) {
	b.WriteString(s.Name)
	if s.Fn != nil {
		b.WriteByte('(')
		writeList(b, s.Fn.Inputs)
		b.WriteByte(')')
		if s.Fn.Output != nil {
			b.WriteString(" -> ")
			writeType(b, s.Fn.Output)
		}
		return
	}
	first := true
	for _, a := range s.Args {
		if a.Kind == ir.ArgLifetime {
			continue
		}
		if first {
			b.WriteByte('<')
			first = false
		} else {
			b.WriteString(", ")
		}
		switch a.Kind {
		case ir.ArgType:
			writeType(b, a.Type)
		case ir.ArgConst:
			b.WriteString(a.Value)
		case ir.ArgBinding:
			b.WriteString(a.Name)
			b.WriteString(" = ")
			writeType(b, a.Type)
		}
	}
	if !first {
		b.WriteByte('>')
	}
}

func writeFn(b *strings.Builder, f *ir.FnExpr) {
	if f.Unsafe {
		b.WriteString("unsafe ")
	}
	if f.ABI != nil {
		b.WriteString("extern ")
		if *f.ABI != "" {
			b.WriteString(*f.ABI)
			b.WriteByte(' ')
		}
	}
	b.WriteString("fn(")
	writeList(b, f.Inputs)
	if f.Variadic {
		if len(f.Inputs) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteByte(')')
	if f.Output != nil {
		b.WriteString(" -> ")
		writeType(b, f.Output)
	}
}

// writeBounds writes trait bounds; lifetime bounds are erased.
func writeBounds(b *strings.Builder, bounds []ir.Bound) {
	first := true
	for _, bd := range bounds {
		if bd.Trait == nil {
			continue
		}
		if !first {
			b.WriteString(" + ")
		}
		first = false
		if bd.Maybe {
			b.WriteByte('?')
		}
		writePath(b, bd.Trait)
	}
}
