package prettyname

import (
	"github.com/broady/prettyname/namegen/render"
	"github.com/broady/prettyname/namegen/syntax"
)

// RenderType parses a type written in reference notation and returns its
// canonical rendering: standard library paths shortened, spacing normalized.
//
//	RenderType("std::vec::Vec<std::string::String>")  // Vec<String>
//	RenderType("&'a mut [u8 ; 4]")                    // &mut [u8; 4]
func RenderType(src string) (string, error) {
	t, err := syntax.ParseType(src)
	if err != nil {
		return "", err
	}
	return render.Type(t), nil
}

// MustRenderType is like RenderType but panics if src does not parse.
func MustRenderType(src string) string {
	s, err := RenderType(src)
	if err != nil {
		panic(err)
	}
	return s
}
