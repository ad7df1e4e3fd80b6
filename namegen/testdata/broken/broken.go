// Package broken has references that do not resolve.
package broken

type Point struct{ X, Y int }

//prettyname:name Point::Z
//prettyname:name Self::X
//prettyname:name Point::X(..)
//prettyname:name Missing
//prettyname:name Point::X::Y
//prettyname:name Point::X
var Origin Point
