package green

import "strings"

// TruncateWords caps a text at the given number of whitespace-separated
// words. A non-positive budget leaves the text unchanged.
func TruncateWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	fields := strings.Fields(text)
	if len(fields) <= maxWords {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:maxWords], " ")
}

// TruncateAllWords applies TruncateWords to every string of a slice.
func TruncateAllWords(texts []string, maxWords int) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = TruncateWords(t, maxWords)
	}
	return out
}
