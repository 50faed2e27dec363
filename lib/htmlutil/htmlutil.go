package htmlutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeText flattens the text content of a markup element into a
// single printable line: non-printable runes are dropped, runs of
// whitespace collapse to one space, leading/trailing whitespace is cut.
func NormalizeText(s string) string {
	var printable strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) || c == ' ' || c == '\t' || c == '\n' {
			printable.WriteRune(c)
		}
	}
	s = whitespace.ReplaceAllString(printable.String(), " ")
	return strings.TrimSpace(s)
}
