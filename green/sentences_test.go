package green

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSentencesSignificant(t *testing.T) {
	sentences, err := ExtractSentences(sampleCritique, CategorySignificant)
	require.NoError(t, err)

	assert.Equal(t, []string{" Reported a pneumothorax not present in the reference."},
		sentences[SubFalseReport])
	assert.Equal(t, []string{" Missed the pleural effusion", " Missed the cardiomegaly."},
		sentences[SubMissingFinding])
	// A zero-count fragment still matches; splitting its empty tail yields one
	// blank entry, which aggregation drops when pooling.
	assert.Equal(t, []string{""}, sentences[SubExtraComparison])
	assert.Equal(t, []string{""}, sentences[SubWrongLocation])
}

func TestExtractSentencesUnmatchedSlotStaysEmpty(t *testing.T) {
	critique := `[Clinically Significant Errors]:
(a) False report of a finding in the candidate: 1. Reported free air.`

	sentences, err := ExtractSentences(critique, CategorySignificant)
	require.NoError(t, err)
	assert.Equal(t, []string{" Reported free air."}, sentences[SubFalseReport])
	for _, sub := range SubCategories[1:] {
		assert.Empty(t, sentences[sub])
	}
}

func TestExtractSentencesAbsentBlock(t *testing.T) {
	sentences, err := ExtractSentences("no critique sections here", CategorySignificant)
	require.NoError(t, err)
	require.Len(t, sentences, NumSubCategories)
	for _, sub := range SubCategories {
		assert.Empty(t, sentences[sub])
	}
}

func TestExtractSentencesEmptyBlock(t *testing.T) {
	sentences, err := ExtractSentences(sampleCritique, CategoryInsignificant)
	require.NoError(t, err)
	for _, sub := range SubCategories {
		assert.Empty(t, sentences[sub])
	}
}

func TestExtractSentencesNumericMarkers(t *testing.T) {
	critique := `[Clinically Significant Errors]:
(2) Missing a finding present in the reference: 1. Missed the nodule; Missed the effusion`

	sentences, err := ExtractSentences(critique, CategorySignificant)
	require.NoError(t, err)
	assert.Equal(t, []string{" Missed the nodule", " Missed the effusion"},
		sentences[SubMissingFinding])
}

func TestExtractSentencesRejectsMatched(t *testing.T) {
	_, err := ExtractSentences(sampleCritique, CategoryMatched)
	assert.ErrorIs(t, err, ErrNotKeyedBySubCategory)
}

func TestExtractSentencesUnknownCategory(t *testing.T) {
	_, err := ExtractSentences(sampleCritique, Category("Bogus"))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestExtractMatchedSentences(t *testing.T) {
	critique := `[Matched Findings]: 2. Clear lungs; No effusion`

	sentences, err := ExtractMatchedSentences(critique)
	require.NoError(t, err)
	assert.Equal(t, []string{" Clear lungs", " No effusion"}, sentences)
}

func TestExtractMatchedSentencesAbsent(t *testing.T) {
	sentences, err := ExtractMatchedSentences("nothing")
	require.NoError(t, err)
	assert.Nil(t, sentences)
}
