package green

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownCategory is returned when a caller asks for a category that is not
// part of the critique template. This is a programming error, not a data error.
var ErrUnknownCategory = errors.New("unknown critique category")

var (
	blockPatterns = buildBlockPatterns()

	// A counted matched-findings block starts with the total, e.g. "3. ...".
	leadingIntPattern = regexp.MustCompile(`\A(\d+)\.`)

	// Error fragments are full lines introduced by a marker. The numeric
	// alphabet is a template variant some generators produce instead of
	// letters.
	letteredFragmentPattern = regexp.MustCompile(`\([a-f]\) .*`)
	numericFragmentPattern  = regexp.MustCompile(`\([1-6]\) .*`)

	// The count inside a fragment is the first integer between a colon and a
	// following period, e.g. "(a) False report: 2. ...".
	fragmentCountPattern = regexp.MustCompile(`: (\d+)\.`)
)

func buildBlockPatterns() map[Category]*regexp.Regexp {
	out := make(map[Category]*regexp.Regexp, len(Categories))
	for _, c := range Categories {
		// The block runs from the bracketed label to the next blank line or
		// the end of the critique.
		out[c] = regexp.MustCompile(`(?s)\[` + regexp.QuoteMeta(string(c)) + `\]:\s*(.*?)(?:\n\s*\n|\z)`)
	}
	return out
}

// locateBlock finds the body of a category block. The second return value is
// false when the critique omits the section entirely.
func locateBlock(text string, category Category) (string, bool, error) {
	pattern, ok := blockPatterns[category]
	if !ok {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false, nil
	}
	return m[1], true, nil
}

// markerAlphabet describes which marker style a block body uses. It is
// detected per block and never stored, so concurrent parses cannot interfere.
type markerAlphabet int

const (
	markersLettered markerAlphabet = iota
	markersNumeric
)

// prefix returns the fragment prefix for the subcategory at the given
// canonical position, e.g. "(c) " or "(3) ".
func (a markerAlphabet) prefix(position int) string {
	if a == markersNumeric {
		return "(" + strconv.Itoa(position+1) + ") "
	}
	return "(" + string(rune('a'+position)) + ") "
}

// scanFragments collects every marker-prefixed fragment in a block body,
// lexicographically sorted, along with the alphabet that produced them.
// Sorting is deliberate: the original scorer sorts before matching, so with
// duplicate markers a later-sorted fragment wins. That quirk is part of the
// metric and is preserved.
func scanFragments(body string) ([]string, markerAlphabet) {
	fragments := letteredFragmentPattern.FindAllString(body, -1)
	alphabet := markersLettered
	if len(fragments) == 0 {
		fragments = numericFragmentPattern.FindAllString(body, -1)
		alphabet = markersNumeric
	}
	sort.Strings(fragments)
	return fragments, alphabet
}

// ParseCounts extracts the per-subcategory error counts, or the
// matched-findings total, for one category of a critique.
//
// A missing section yields BlockAbsent; callers that treat absence as zero can
// use the zero-valued Total and Sub directly. A body opening with "No" (an
// explicit no-errors statement) yields BlockEmpty. Malformed or missing
// numeric tokens silently default to zero.
func ParseCounts(text string, category Category) (ParsedBlock, error) {
	body, found, err := locateBlock(text, category)
	if err != nil {
		return ParsedBlock{}, err
	}
	if !found {
		return ParsedBlock{State: BlockAbsent}, nil
	}
	if strings.HasPrefix(body, "No") {
		return ParsedBlock{State: BlockEmpty}, nil
	}

	block := ParsedBlock{State: BlockCounted}
	if category == CategoryMatched {
		if m := leadingIntPattern.FindStringSubmatch(body); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				block.Total = n
			}
		}
		return block, nil
	}

	fragments, alphabet := scanFragments(body)
	for position := 0; position < NumSubCategories; position++ {
		prefix := alphabet.prefix(position)
		// Fragments arrive in arbitrary order, so every one is checked. No
		// early break: a duplicate marker with a parsable count overwrites,
		// one without a count leaves the previous assignment alone.
		for _, fragment := range fragments {
			if !strings.HasPrefix(fragment, prefix) {
				continue
			}
			if m := fragmentCountPattern.FindStringSubmatch(fragment); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					block.Sub[position] = n
				}
			}
		}
	}
	block.Total = block.SubSum()
	return block, nil
}

// ErrorCounts returns the seven-column count record for one critique: the six
// significant-error subcategory counts followed by the matched-findings total.
// Absent blocks coerce to zero counts.
func ErrorCounts(text string) ([NumSubCategories]int, int, error) {
	significant, err := ParseCounts(text, CategorySignificant)
	if err != nil {
		return [NumSubCategories]int{}, 0, err
	}
	matched, err := ParseCounts(text, CategoryMatched)
	if err != nil {
		return [NumSubCategories]int{}, 0, err
	}
	return significant.Sub, matched.Total, nil
}
