package textproc

import (
	"regexp"
	"strings"
)

var (
	hyphenBreak  = regexp.MustCompile(`-\s*\n\s*`)
	controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	multiSpace   = regexp.MustCompile(`\s{2,}`)
)

// Normalize cleans raw extracted page text for downstream splitting. Words
// hyphenated across line breaks are rejoined, isolated line breaks become
// spaces, control characters are stripped, and whitespace runs collapse to a
// single space. The result never contains newlines, so Normalize is
// idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = hyphenBreak.ReplaceAllString(text, "")
	text = joinSingleBreaks(text)
	text = controlChars.ReplaceAllString(text, "")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// joinSingleBreaks turns each newline with no adjacent newline into a space.
// Runs of two or more newlines pass through untouched and are consumed by
// the control-character strip.
func joinSingleBreaks(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	n := len(text)
	for i := 0; i < n; i++ {
		c := text[i]
		if c == '\n' {
			prevNL := i > 0 && text[i-1] == '\n'
			nextNL := i+1 < n && text[i+1] == '\n'
			if !prevNL && !nextNL {
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
