package green

import "math"

// ScoreStats computes the mean and population standard deviation over the
// defined entries of a score list. Undefined scores are excluded from the
// statistic rather than poisoning it; the counts of scored and skipped
// entries are returned so the sentinel stays visible to callers.
func ScoreStats(scores []Score) (mean, std float64, scored, undefined int) {
	var sum float64
	for _, s := range scores {
		if v, ok := s.Value(); ok {
			sum += v
			scored++
		} else {
			undefined++
		}
	}
	if scored == 0 {
		return 0, 0, 0, undefined
	}
	mean = sum / float64(scored)
	var variance float64
	for _, s := range scores {
		if v, ok := s.Value(); ok {
			d := v - mean
			variance += d * d
		}
	}
	std = math.Sqrt(variance / float64(scored))
	return mean, std, scored, undefined
}
