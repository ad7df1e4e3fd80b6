// Package app exercises the build pass.
package app

// Shape is a closed set of shapes.
type Shape interface{ isShape() }

type Circle struct{}

type Square float64

type Triangle struct{ Base, Height float64 }

func (Circle) isShape()   {}
func (Square) isShape()   {}
func (Triangle) isShape() {}

//prettyname:name Shape::Circle
//prettyname:name Shape::Square(..)
//prettyname:name Shape::Triangle{..}
//prettyname:name MaxDepth const=MaxDepthName doc="names the depth limit."
const MaxDepth = 8

// Stack is a LIFO stack.
//
//prettyname:name Self::items
type Stack[T any] struct {
	items []T
}

// Push adds v.
//
//prettyname:name Self::Push
func (s *Stack[T]) Push(v T) {
	//prettyname:name v
	s.items = append(s.items, v)
}

// Identity returns v.
func Identity[T any](v T) T { return v }

// Describe has names of locals and declared types.
func Describe() string {
	total := 3
	_ = total
	//prettyname:name total
	//prettyname:name <geometry::Point<f64>>::x
	//prettyname:name Identity::<..>
	//prettyname:name Identity::<string>
	return ""
}
