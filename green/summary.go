package green

import (
	"context"
	"fmt"
	"strings"
)

// ClusterResult partitions a sentence list into near-duplicate groups.
type ClusterResult struct {
	// Assignments holds the cluster id for each input sentence.
	Assignments []int
	// Largest lists the input indices belonging to the largest cluster,
	// representative first.
	Largest []int
}

// Clusterer groups near-duplicate sentences. Implementations decide the
// similarity notion; the aggregator only consumes the partition and the
// largest-group membership.
type Clusterer interface {
	Cluster(ctx context.Context, sentences []string) (ClusterResult, error)
}

// Summarize reduces a dataset of critiques to mean/std score, per-subcategory
// zero-error accuracy, and one representative sentence per subcategory.
//
// Undefined scores are excluded from mean/std (see ScoreStats). A nil
// clusterer skips representative selection.
func Summarize(ctx context.Context, critiques []string, clusterer Clusterer) (Summary, error) {
	scores := make([]Score, len(critiques))
	for i, critique := range critiques {
		score, err := ComputeScore(critique)
		if err != nil {
			return Summary{}, fmt.Errorf("score critique %d: %w", i, err)
		}
		scores[i] = score
	}
	mean, std, scored, undefined := ScoreStats(scores)

	summary := Summary{
		Mean:           mean,
		Std:            std,
		Scored:         scored,
		Undefined:      undefined,
		Accuracy:       make(map[SubCategory]float64, NumSubCategories),
		Representative: make(map[SubCategory]string, NumSubCategories),
	}

	// Zero-error accuracy per subcategory over the significant-error block.
	// An absent block counts as zero errors, mirroring the count coercion.
	zero := make([]int, NumSubCategories)
	pooled := make(map[SubCategory][]string, NumSubCategories)
	for i, critique := range critiques {
		block, err := ParseCounts(critique, CategorySignificant)
		if err != nil {
			return Summary{}, fmt.Errorf("parse critique %d: %w", i, err)
		}
		for _, sub := range SubCategories {
			if block.Sub[sub] == 0 {
				zero[sub]++
			}
		}
		sentences, err := ExtractSentences(critique, CategorySignificant)
		if err != nil {
			return Summary{}, fmt.Errorf("extract critique %d: %w", i, err)
		}
		for _, sub := range SubCategories {
			for _, sentence := range sentences[sub] {
				if strings.TrimSpace(sentence) == "" {
					continue
				}
				pooled[sub] = append(pooled[sub], sentence)
			}
		}
	}
	for _, sub := range SubCategories {
		if len(critiques) > 0 {
			summary.Accuracy[sub] = float64(zero[sub]) / float64(len(critiques))
		} else {
			summary.Accuracy[sub] = 0
		}
	}

	if clusterer == nil {
		return summary, nil
	}
	for _, sub := range SubCategories {
		sentences := pooled[sub]
		if len(sentences) == 0 {
			continue
		}
		result, err := clusterer.Cluster(ctx, sentences)
		if err != nil {
			return Summary{}, fmt.Errorf("cluster %s sentences: %w", sub.Marker(), err)
		}
		if len(result.Largest) > 0 {
			summary.Representative[sub] = sentences[result.Largest[0]]
		}
	}
	return summary, nil
}

// FormatSummary renders the summary in the report layout used for console
// output: overall mean/std, then accuracy and representative sentence per
// subcategory.
func FormatSummary(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Summary]: Green average %g and standard variation %g", s.Mean, s.Std)
	if s.Undefined > 0 {
		fmt.Fprintf(&b, " (%d of %d critiques unscorable)", s.Undefined, s.Scored+s.Undefined)
	}
	b.WriteString("\n[Clinically Significant Errors Analyses]: <accuracy>. <representative error>\n")
	for _, sub := range SubCategories {
		fmt.Fprintf(&b, "\n%s: %g.\n%s\n", sub, s.Accuracy[sub], s.Representative[sub])
	}
	return b.String()
}
