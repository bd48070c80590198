// Package adfilter tells organic chat lines apart from advertisement-shaped
// broadcasts by looking at the first few characters after the timestamp.
package adfilter

import "unicode"

// Window is how many characters of the probe are searched for a speaker colon.
const Window = 22

// Passes reports whether raw, the text following a header's timestamp token,
// looks like organic chat. Emotes ("* waves") and "Name: text" lines pass;
// anything else is treated as an advertisement.
//
// raw must be the untrimmed probe: leading spaces count toward Window.
func Passes(raw string) bool {
	s := []rune(raw)
	i := 0
	for i < len(s) && unicode.IsSpace(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '*' {
		return true
	}
	limit := min(Window, len(s))
	for i := 1; i < limit; i++ {
		if s[i] != ':' {
			continue
		}
		if isWord(s[i-1]) && i+1 < len(s) && s[i+1] == ' ' {
			return true
		}
	}
	return false
}

// IsAd is the negation of Passes.
func IsAd(raw string) bool { return !Passes(raw) }

func isWord(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
