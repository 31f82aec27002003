package green

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScoreBalancesMatchedAgainstSignificant(t *testing.T) {
	score, err := ComputeScore(sampleCritique)
	require.NoError(t, err)
	v, ok := score.Value()
	require.True(t, ok)
	// 3 matched findings against 3 significant errors.
	assert.InDelta(t, 0.5, v, 1e-9)
}

func TestComputeScoreZeroMatchedMeansZero(t *testing.T) {
	critique := `[Clinically Significant Errors]:
(a) False report of a finding in the candidate: 4. Fabricated findings everywhere.

[Matched Findings]: 0. No findings matched.`

	score, err := ComputeScore(critique)
	require.NoError(t, err)
	v, ok := score.Value()
	require.True(t, ok)
	assert.Zero(t, v)
}

func TestComputeScoreUndefinedWhenSignificantBlockMissing(t *testing.T) {
	critique := `[Matched Findings]: 5. A; B; C; D; E`

	score, err := ComputeScore(critique)
	require.NoError(t, err)
	assert.False(t, score.Defined(), "missing significant block must not coerce to a number")
	assert.Equal(t, "", score.String())
}

func TestComputeScoreUndefinedWhenMatchedBlockMissing(t *testing.T) {
	critique := `[Clinically Significant Errors]:
(a) False report of a finding in the candidate: 1. Something.`

	score, err := ComputeScore(critique)
	require.NoError(t, err)
	assert.False(t, score.Defined())
}

func TestComputeScorePerfectCritique(t *testing.T) {
	critique := "[Matched Findings]: 1. All findings matched.\n\n" +
		"[Clinically Significant Errors]: No clinically significant errors.\n\n" +
		"[Clinically Insignificant Errors]: No clinically insignificant errors."

	sub, matched, err := ErrorCounts(critique)
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
	assert.Equal(t, [NumSubCategories]int{}, sub)

	score, err := ComputeScore(critique)
	require.NoError(t, err)
	v, ok := score.Value()
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)
}

func TestComputeScoreEmptySignificantBlockIsZeroErrors(t *testing.T) {
	critique := `[Clinically Significant Errors]:
No clinically significant errors.

[Matched Findings]: 4. A; B; C; D`

	score, err := ComputeScore(critique)
	require.NoError(t, err)
	v, ok := score.Value()
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 1e-9)
}
