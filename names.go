// Package prettyname produces clean, human-readable names for types,
// values, functions, fields, methods and enum variants.
//
// Names of Go types are computed at run time with TypeName and TypeNameOf.
// Names written as references (Shape::Circle, <Vec<T>>::len, Self::items)
// are resolved and checked against declarations by a Resolver, or at build
// time by the prettyname gen command, which turns //prettyname:name
// directives into string constants.
package prettyname

import (
	"reflect"
	"sync"

	"github.com/broady/prettyname/namegen/symbols"
)

var typeNames sync.Map // reflect.Type -> string

// TypeName returns the name of T with every package path removed,
// including those of generic type arguments:
//
//	TypeName[map[string][]*api.User]()  // map[string][]*User
//	TypeName[box.Box[api.User]]()        // Box[User]
func TypeName[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

// TypeNameOf returns the name of the dynamic type of v, or "nil" for a nil
// interface value.
func TypeNameOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	return typeName(t)
}

func typeName(t reflect.Type) string {
	if s, ok := typeNames.Load(t); ok {
		return s.(string)
	}
	// Concurrent first calls compute the same string; the first one stored wins.
	s, _ := typeNames.LoadOrStore(t, symbols.StripQualifiers(t.String()))
	return s.(string)
}
