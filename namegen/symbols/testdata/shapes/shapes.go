// Package shapes is a fixture for source index tests.
package shapes

import "strings"

// Shape is a sealed sum type.
type Shape interface {
	Area() float64
	isShape()
}

// Circle is a unit variant.
type Circle struct{}

// Square is a tuple variant.
type Square float64

// Triangle is a struct variant.
type Triangle struct {
	Base   float64
	Height float64
}

func (Circle) Area() float64   { return 0 }
func (Circle) isShape()        {}
func (s Square) Area() float64 { return float64(s * s) }
func (Square) isShape()        {}
func (t *Triangle) Area() float64 {
	return t.Base * t.Height / 2
}
func (*Triangle) isShape() {}

// Color is an enum of constants.
type Color int

const (
	ColorRed Color = iota
	ColorGreen
	Blue
)

// Point has fields and methods.
type Point struct {
	X, Y int
}

// Len is a method.
func (p Point) Len() int { return p.X + p.Y }

// Scale is a method.
func (p *Point) Scale(k int) { p.X *= k; p.Y *= k }

// Stack is generic.
type Stack[T any] struct {
	items []T
}

// Push adds an item.
func (s *Stack[T]) Push(v T) { s.items = append(s.items, v) }

// Namer is an open interface.
type Namer interface {
	Name() string
}

// Celsius is a defined type without constants.
type Celsius float64

// Alias is a type alias.
type Alias = Point

// MaxItems is a constant.
const MaxItems = 16

// Registry is a variable.
var Registry = map[string][]*Point{}

// Identity is a generic function.
func Identity[T any](v T) T { return v }

// Pair is a generic function with two parameters.
func Pair[A, B any](a A, b B) (A, B) { return a, b }

// Upper is a plain function.
func Upper(s string) string {
	total := len(s)
	prefix := "x"
	_ = total
	return strings.ToUpper(prefix + s)
}
