package emb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanPoolMasksPaddingTokens(t *testing.T) {
	// Two tokens attended, one padded; dim 2.
	data := []float32{1, 0, 0, 1, 100, 100}
	mask := []int64{1, 1, 0}

	vec := meanPool(data, 3, 2, mask)
	require.Len(t, vec, 2)
	// Mean of (1,0) and (0,1) is (0.5,0.5), normalized to unit length.
	assert.InDelta(t, 1/math.Sqrt2, float64(vec[0]), 1e-6)
	assert.InDelta(t, 1/math.Sqrt2, float64(vec[1]), 1e-6)
}

func TestMeanPoolUnitNorm(t *testing.T) {
	data := []float32{3, 4}
	vec := meanPool(data, 1, 2, []int64{1})
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-6)
}

func TestMeanPoolAllMasked(t *testing.T) {
	vec := meanPool([]float32{1, 2}, 1, 2, []int64{0})
	assert.Equal(t, []float32{0, 0}, vec)
}

func TestInitRequiresPaths(t *testing.T) {
	var enc Encoder
	assert.Error(t, enc.Init(Config{}))
	assert.Error(t, enc.Init(Config{ModelPath: "model.onnx"}))
}
