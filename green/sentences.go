package green

import (
	"errors"
	"strings"
)

// ErrNotKeyedBySubCategory is returned when per-subcategory extraction is
// requested for the matched-findings section, which is a flat list.
var ErrNotKeyedBySubCategory = errors.New("matched findings are not keyed by subcategory")

// ExtractSentences pulls the literal offending sentences per subcategory from
// one error category of a critique. Absent or empty blocks map every
// subcategory to an empty list. Matched findings are not keyed by subcategory;
// use ExtractMatchedSentences for that section.
func ExtractSentences(text string, category Category) (SentenceMap, error) {
	sentences := make(SentenceMap, NumSubCategories)
	for _, sub := range SubCategories {
		sentences[sub] = nil
	}
	if category == CategoryMatched {
		return nil, ErrNotKeyedBySubCategory
	}

	body, found, err := locateBlock(text, category)
	if err != nil {
		return nil, err
	}
	if !found || strings.HasPrefix(body, "No") {
		return sentences, nil
	}

	fragments, alphabet := scanFragments(body)
	for position := 0; position < NumSubCategories; position++ {
		prefix := alphabet.prefix(position)
		for _, fragment := range fragments {
			if !strings.HasPrefix(fragment, prefix) {
				continue
			}
			// Sentences follow the fragment's last colon and first period:
			// "(a) <type>: <count>. <s1>; <s2>".
			rest := afterLastColon(fragment)
			rest = afterFirstPeriod(rest)
			sentences[SubCategory(position)] = strings.Split(rest, ";")
		}
	}
	return sentences, nil
}

// ExtractMatchedSentences returns the flat list of matched findings from a
// critique. Absent or empty blocks yield nil.
func ExtractMatchedSentences(text string) ([]string, error) {
	body, found, err := locateBlock(text, CategoryMatched)
	if err != nil {
		return nil, err
	}
	if !found || strings.HasPrefix(body, "No") {
		return nil, nil
	}
	// The findings follow the block's last colon and last period.
	rest := afterLastColon(body)
	rest = afterLastPeriod(rest)
	return strings.Split(rest, ";"), nil
}

func afterLastColon(s string) string {
	if i := strings.LastIndex(s, ":"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func afterFirstPeriod(s string) string {
	if i := strings.Index(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

func afterLastPeriod(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}
