package green

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeReport prepares one report for prompting. Reports arrive from
// heterogeneous PACS and dictation exports: fullwidth characters, stray
// control codes, tab indentation and ragged spacing. The critique prompt
// wants plain, single-spaced lines, so each line is NFKC-folded and its
// whitespace collapsed; line structure itself is kept.
func NormalizeReport(text string) string {
	folded := norm.NFKC.String(text)
	lines := strings.Split(folded, "\n")
	for i, line := range lines {
		clean := strings.Map(func(r rune) rune {
			if r == '\t' {
				return ' '
			}
			if unicode.IsControl(r) {
				return -1
			}
			return r
		}, line)
		lines[i] = strings.Join(strings.Fields(clean), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// NormalizeReports normalizes every report of a slice.
func NormalizeReports(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = NormalizeReport(t)
	}
	return out
}
