package textproc

import (
	"strings"
	"unicode"
)

// Sentences splits text into sentences at each terminator (., !, ?) that is
// followed by whitespace. The terminator stays with its sentence, the
// whitespace run is consumed, and blank fragments are dropped. Text without
// a trailing terminator still yields its final fragment.
func Sentences(text string) []string {
	var out []string
	var current strings.Builder

	runes := []rune(text)
	n := len(runes)
	for i := 0; i < n; i++ {
		r := runes[i]
		current.WriteRune(r)

		if (r == '.' || r == '!' || r == '?') && i+1 < n && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				out = append(out, s)
			}
			current.Reset()
			for i+1 < n && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}
	return out
}
