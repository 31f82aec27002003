package green

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapEmbedder returns canned vectors per sentence.
type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectors[t]
	}
	return out, nil
}

func (m *mapEmbedder) Close() error    { return nil }
func (m *mapEmbedder) ModelID() string { return "map" }

func TestEmbeddingClustererFindsLargestGroup(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"missed effusion":         {1, 0},
		"missed pleural effusion": {0.98, 0.2},
		"wrong lobe":              {0, 1},
	}}
	clusterer := NewEmbeddingClusterer(embedder, 0.8)

	result, err := clusterer.Cluster(context.Background(),
		[]string{"missed effusion", "wrong lobe", "missed pleural effusion"})
	require.NoError(t, err)

	require.Len(t, result.Assignments, 3)
	assert.Equal(t, result.Assignments[0], result.Assignments[2], "near-duplicates share a cluster")
	assert.NotEqual(t, result.Assignments[0], result.Assignments[1])
	require.Len(t, result.Largest, 2)
	assert.ElementsMatch(t, []int{0, 2}, result.Largest)
}

func TestEmbeddingClustererSingletons(t *testing.T) {
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {0, 1},
	}}
	clusterer := NewEmbeddingClusterer(embedder, 0.9)

	result, err := clusterer.Cluster(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	// Size tie resolves to the earlier-opened cluster.
	assert.Equal(t, []int{0}, result.Largest)
}

func TestEmbeddingClustererEmptyInput(t *testing.T) {
	clusterer := NewEmbeddingClusterer(&mapEmbedder{}, 0.8)
	result, err := clusterer.Cluster(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Assignments)
	assert.Empty(t, result.Largest)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, float64(cosineSimilarity([]float32{1, 0}, []float32{2, 0})), 1e-6)
	assert.InDelta(t, 0.0, float64(cosineSimilarity([]float32{1, 0}, []float32{0, 1})), 1e-6)
	assert.Zero(t, cosineSimilarity(nil, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
