package symbols

import "strings"

// StripQualifiers removes package qualifiers from a type string: every word
// containing a dot keeps only what follows the last dot. A word never starts
// with a dot, so the ellipsis of a variadic parameter is kept. Quoted struct
// tags are copied unchanged.
func StripQualifiers(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			j := i + 1
			for j < len(s) && s[j] != '"' {
				if s[j] == '\\' {
					j++
				}
				j++
			}
			j = min(j+1, len(s))
			b.WriteString(s[i:j])
			i = j
		case c == '.':
			b.WriteByte(c)
			i++
		case isWordByte(c):
			j := i
			for j < len(s) && isWordByte(s[j]) {
				j++
			}
			word := s[i:j]
			if k := strings.LastIndexByte(word, '.'); k >= 0 {
				word = word[k+1:]
			}
			b.WriteString(word)
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '/' || c == '-' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c >= 0x80
}
