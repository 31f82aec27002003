package green

import "strconv"

// Category identifies a top-level critique section. The string value is the
// exact label the generation model emits between square brackets.
type Category string

const (
	// CategorySignificant covers errors that would change patient management.
	CategorySignificant Category = "Clinically Significant Errors"
	// CategoryInsignificant covers errors without clinical consequence.
	CategoryInsignificant Category = "Clinically Insignificant Errors"
	// CategoryMatched counts findings the candidate reproduces correctly.
	CategoryMatched Category = "Matched Findings"
)

// Categories lists every recognized critique section.
var Categories = []Category{CategorySignificant, CategoryInsignificant, CategoryMatched}

// NumSubCategories is the number of fine-grained error types.
const NumSubCategories = 6

// SubCategory indexes one of the six fixed error types, (a) through (f).
type SubCategory int

const (
	SubFalseReport SubCategory = iota
	SubMissingFinding
	SubWrongLocation
	SubWrongSeverity
	SubExtraComparison
	SubOmittedComparison
)

var subCategoryDescriptions = [NumSubCategories]string{
	"False report of a finding in the candidate",
	"Missing a finding present in the reference",
	"Misidentification of a finding's anatomic location/position",
	"Misassessment of the severity of a finding",
	"Mentioning a comparison that isn't in the reference",
	"Omitting a comparison detailing a change from a prior study",
}

// SubCategories lists the six error types in canonical order.
var SubCategories = []SubCategory{
	SubFalseReport,
	SubMissingFinding,
	SubWrongLocation,
	SubWrongSeverity,
	SubExtraComparison,
	SubOmittedComparison,
}

// Marker returns the lettered marker used in critique text, e.g. "(a)".
func (s SubCategory) Marker() string {
	return "(" + string(rune('a'+int(s))) + ")"
}

// Description returns the canonical textual description of the error type.
func (s SubCategory) Description() string {
	if s < 0 || int(s) >= NumSubCategories {
		return ""
	}
	return subCategoryDescriptions[s]
}

// String renders the marker and description, matching the critique template.
func (s SubCategory) String() string {
	return s.Marker() + " " + s.Description()
}

// BlockState records how a category block resolved within a critique.
type BlockState int

const (
	// BlockAbsent means the category label was not found in the text.
	BlockAbsent BlockState = iota
	// BlockEmpty means the block exists but states that nothing applies.
	BlockEmpty
	// BlockCounted means numeric counts were scanned from the block body.
	BlockCounted
)

// ParsedBlock is the result of locating and counting one category block.
// Total and Sub are zero unless State is BlockCounted.
type ParsedBlock struct {
	State BlockState
	Total int
	Sub   [NumSubCategories]int
}

// SubSum returns the sum of the per-subcategory counts.
func (b ParsedBlock) SubSum() int {
	sum := 0
	for _, n := range b.Sub {
		sum += n
	}
	return sum
}

// Score is the normalized consistency metric in [0,1], or an explicit
// undefined sentinel when the critique cannot support the formula.
type Score struct {
	value   float64
	defined bool
}

// DefinedScore wraps a numeric score value.
func DefinedScore(v float64) Score {
	return Score{value: v, defined: true}
}

// UndefinedScore returns the sentinel for an uncomputable score.
func UndefinedScore() Score {
	return Score{}
}

// Defined reports whether the score carries a numeric value.
func (s Score) Defined() bool { return s.defined }

// Value returns the numeric score and whether it is defined.
func (s Score) Value() (float64, bool) { return s.value, s.defined }

// String renders the score for tables; undefined scores render empty.
func (s Score) String() string {
	if !s.defined {
		return ""
	}
	return strconv.FormatFloat(s.value, 'g', -1, 64)
}

// SentenceMap holds the extracted sentences per error type.
type SentenceMap map[SubCategory][]string

// ResultRow is one line of the evaluation table, aligned with the input pair
// at the same index.
type ResultRow struct {
	Reference  string
	Prediction string
	Critique   string
	Score      Score
	Sub        [NumSubCategories]int
	Matched    int
}

// Summary aggregates a whole dataset of critiques.
type Summary struct {
	Mean      float64
	Std       float64
	Scored    int
	Undefined int
	// Accuracy is the fraction of critiques with a zero count for the
	// subcategory within the significant-error block.
	Accuracy map[SubCategory]float64
	// Representative holds one sentence from the largest near-duplicate
	// cluster of extracted error sentences per subcategory.
	Representative map[SubCategory]string
}
