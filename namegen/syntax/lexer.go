// Package syntax parses reference and type-expression text into the ir data
// model.
//
// The grammar is small and finite: a reference is one of a handful of
// path-like shapes, and a type expression is the usual path / reference /
// pointer / slice / array / tuple / fn / dyn family. Both parsers are
// hand-written recursive descent over a token slice.
package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind identifies a lexical token.
type tokenKind int

const (
	tokEOF      tokenKind = iota
	tokIdent              // foo, Vec, Self, _foo
	tokLifetime           // 'a, 'static
	tokInt                // 5, 0x10, 3usize
	tokString             // "C"
	tokUnder              // _
	tokColon2             // ::
	tokColon              // :
	tokLt                 // <
	tokGt                 // >
	tokComma              // ,
	tokLParen             // (
	tokRParen             // )
	tokLBrack             // [
	tokRBrack             // ]
	tokLBrace             // {
	tokRBrace             // }
	tokAmp                // &
	tokStar               // *
	tokArrow              // ->
	tokPlus               // +
	tokSemi               // ;
	tokEq                 // =
	tokBang               // !
	tokQuestion           // ?
	tokDotDot             // ..
	tokEllipsis           // ...
	tokOther              // any other punctuation, only valid inside array lengths
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokIdent:    "identifier",
	tokLifetime: "lifetime",
	tokInt:      "integer",
	tokString:   "string",
	tokUnder:    "'_'",
	tokColon2:   "'::'",
	tokColon:    "':'",
	tokLt:       "'<'",
	tokGt:       "'>'",
	tokComma:    "','",
	tokLParen:   "'('",
	tokRParen:   "')'",
	tokLBrack:   "'['",
	tokRBrack:   "']'",
	tokLBrace:   "'{'",
	tokRBrace:   "'}'",
	tokAmp:      "'&'",
	tokStar:     "'*'",
	tokArrow:    "'->'",
	tokPlus:     "'+'",
	tokSemi:     "';'",
	tokEq:       "'='",
	tokBang:     "'!'",
	tokQuestion: "'?'",
	tokDotDot:   "'..'",
	tokEllipsis: "'...'",
	tokOther:    "punctuation",
}

func (k tokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return "unknown token"
}

// token is a lexical token with its byte offset in the input.
type token struct {
	kind tokenKind
	text string
	off  int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return t.kind.String()
	case tokIdent, tokLifetime, tokInt, tokString:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	default:
		return t.kind.String()
	}
}

// keywords that can never be used as path segments.
var keywords = map[string]bool{
	"as":     true,
	"dyn":    true,
	"extern": true,
	"fn":     true,
	"for":    true,
	"impl":   true,
	"mut":    true,
	"const":  true,
	"unsafe": true,
	"where":  true,
}

// lex splits src into tokens. Whitespace separates tokens and is otherwise
// insignificant. ">>" is always two tokens so that nested generic lists close
// naturally.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		start := i
		switch {
		case r == '_' || unicode.IsLetter(r):
			i = scanIdent(src, i)
			text := src[start:i]
			if text == "_" {
				toks = append(toks, token{tokUnder, text, start})
			} else {
				toks = append(toks, token{tokIdent, text, start})
			}
			continue
		case r >= '0' && r <= '9':
			i = scanIdent(src, i)
			toks = append(toks, token{tokInt, src[start:i], start})
			continue
		case r == '\'':
			i++
			end := scanIdent(src, i)
			if end == i {
				return nil, fmt.Errorf("offset %d: invalid lifetime", start)
			}
			i = end
			toks = append(toks, token{tokLifetime, src[start:i], start})
			continue
		case r == '"':
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(src) {
				return nil, fmt.Errorf("offset %d: unterminated string literal", start)
			}
			i++
			toks = append(toks, token{tokString, src[start:i], start})
			continue
		}

		kind, n := punct(src[i:])
		if n == 0 {
			return nil, fmt.Errorf("offset %d: unexpected character %q", start, r)
		}
		i += n
		toks = append(toks, token{kind, src[start:i], start})
	}
	toks = append(toks, token{tokEOF, "", len(src)})
	return toks, nil
}

func scanIdent(src string, i int) int {
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i += size
	}
	return i
}

func punct(s string) (tokenKind, int) {
	switch {
	case strings.HasPrefix(s, "..."):
		return tokEllipsis, 3
	case strings.HasPrefix(s, ".."):
		return tokDotDot, 2
	case strings.HasPrefix(s, "::"):
		return tokColon2, 2
	case strings.HasPrefix(s, "->"):
		return tokArrow, 2
	}
	switch s[0] {
	case ':':
		return tokColon, 1
	case '<':
		return tokLt, 1
	case '>':
		return tokGt, 1
	case ',':
		return tokComma, 1
	case '(':
		return tokLParen, 1
	case ')':
		return tokRParen, 1
	case '[':
		return tokLBrack, 1
	case ']':
		return tokRBrack, 1
	case '{':
		return tokLBrace, 1
	case '}':
		return tokRBrace, 1
	case '&':
		return tokAmp, 1
	case '*':
		return tokStar, 1
	case '+':
		return tokPlus, 1
	case ';':
		return tokSemi, 1
	case '=':
		return tokEq, 1
	case '!':
		return tokBang, 1
	case '?':
		return tokQuestion, 1
	case '-', '/', '%', '|', '^', '.':
		return tokOther, 1
	}
	return 0, 0
}

// IsIdent reports whether s is a valid identifier that is not a keyword.
func IsIdent(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	if end := scanIdent(s, 0); end != len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r != '_' && !unicode.IsLetter(r) {
		return false
	}
	return !keywords[s]
}
