package green

// ComputeScore derives the consistency score for one critique.
//
// The score is matched / (matched + significant errors). Two sentinels apply:
// a critique with zero matched findings scores 0 regardless of its error
// content, and a critique whose significant-error or matched-findings section
// cannot be located at all yields an undefined score that callers must carry
// through, never coerce.
func ComputeScore(text string) (Score, error) {
	significant, err := ParseCounts(text, CategorySignificant)
	if err != nil {
		return Score{}, err
	}
	matched, err := ParseCounts(text, CategoryMatched)
	if err != nil {
		return Score{}, err
	}

	// No verified finding overlap means zero credit, independent of errors.
	if matched.State != BlockAbsent && matched.Total == 0 {
		return DefinedScore(0), nil
	}
	if significant.State == BlockAbsent || matched.State == BlockAbsent {
		return UndefinedScore(), nil
	}
	return DefinedScore(float64(matched.Total) / float64(matched.Total+significant.SubSum())), nil
}
