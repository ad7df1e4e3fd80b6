package golang

import "go/token"

// Go predeclared identifiers. Keywords are rejected outright; these are
// legal constant names but would shadow the universe scope.
var predeclared = map[string]bool{
	"any":        true,
	"append":     true,
	"bool":       true,
	"byte":       true,
	"cap":        true,
	"clear":      true,
	"close":      true,
	"comparable": true,
	"complex":    true,
	"complex64":  true,
	"complex128": true,
	"copy":       true,
	"delete":     true,
	"error":      true,
	"false":      true,
	"float32":    true,
	"float64":    true,
	"imag":       true,
	"int":        true,
	"int8":       true,
	"int16":      true,
	"int32":      true,
	"int64":      true,
	"iota":       true,
	"len":        true,
	"make":       true,
	"max":        true,
	"min":        true,
	"new":        true,
	"nil":        true,
	"panic":      true,
	"print":      true,
	"println":    true,
	"real":       true,
	"recover":    true,
	"rune":       true,
	"string":     true,
	"true":       true,
	"uint":       true,
	"uint8":      true,
	"uint16":     true,
	"uint32":     true,
	"uint64":     true,
	"uintptr":    true,
}

// escapePredeclared appends an underscore to predeclared identifiers.
func escapePredeclared(name string) string {
	if predeclared[name] {
		return name + "_"
	}
	return name
}

// validConst reports whether name can be declared as a constant.
func validConst(name string) bool {
	return token.IsIdentifier(name) && !token.IsKeyword(name) && name != "_"
}
