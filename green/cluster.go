package green

import (
	"context"
	"fmt"
	"math"
)

// EmbeddingClusterer groups sentences by cosine similarity of their
// embeddings. Assignment is greedy: each sentence joins the first cluster
// whose anchor vector is within the threshold, otherwise it opens a new
// cluster. Given a fixed input order the partition is deterministic.
type EmbeddingClusterer struct {
	embedder  Embedder
	threshold float32
}

// NewEmbeddingClusterer builds a clusterer over the given embedder. A zero or
// negative threshold falls back to 0.8.
func NewEmbeddingClusterer(embedder Embedder, threshold float32) *EmbeddingClusterer {
	if threshold <= 0 {
		threshold = 0.8
	}
	return &EmbeddingClusterer{embedder: embedder, threshold: threshold}
}

type sentenceCluster struct {
	anchor  []float32
	members []int
}

// Cluster partitions the sentences and reports the largest group. The
// largest group's members are ordered representative first, where the
// representative is the member closest to the group centroid; remaining
// members keep input order. Size ties resolve to the earlier-opened cluster.
func (c *EmbeddingClusterer) Cluster(ctx context.Context, sentences []string) (ClusterResult, error) {
	if len(sentences) == 0 {
		return ClusterResult{}, nil
	}
	vecs, err := c.embedder.EmbedTexts(ctx, sentences)
	if err != nil {
		return ClusterResult{}, fmt.Errorf("embed sentences: %w", err)
	}

	var clusters []sentenceCluster
	assignments := make([]int, len(sentences))
	for i, vec := range vecs {
		assigned := -1
		for id := range clusters {
			if cosineSimilarity(vec, clusters[id].anchor) >= c.threshold {
				assigned = id
				break
			}
		}
		if assigned < 0 {
			clusters = append(clusters, sentenceCluster{anchor: vec})
			assigned = len(clusters) - 1
		}
		clusters[assigned].members = append(clusters[assigned].members, i)
		assignments[i] = assigned
	}

	largest := 0
	for id := range clusters {
		if len(clusters[id].members) > len(clusters[largest].members) {
			largest = id
		}
	}
	members := clusters[largest].members
	repr := representativeIndex(members, vecs)

	ordered := make([]int, 0, len(members))
	ordered = append(ordered, repr)
	for _, m := range members {
		if m != repr {
			ordered = append(ordered, m)
		}
	}
	return ClusterResult{Assignments: assignments, Largest: ordered}, nil
}

// representativeIndex picks the member whose vector is closest to the group
// centroid.
func representativeIndex(members []int, vecs [][]float32) int {
	if len(members) == 1 {
		return members[0]
	}
	dim := len(vecs[members[0]])
	centroid := make([]float32, dim)
	for _, m := range members {
		for d := 0; d < dim && d < len(vecs[m]); d++ {
			centroid[d] += vecs[m][d]
		}
	}
	for d := range centroid {
		centroid[d] /= float32(len(members))
	}
	best := members[0]
	bestSim := float32(math.Inf(-1))
	for _, m := range members {
		if sim := cosineSimilarity(vecs[m], centroid); sim > bestSim {
			bestSim = sim
			best = m
		}
	}
	return best
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
