package green

import (
	"errors"
	"fmt"
)

// ErrShardMismatch signals that merged completions and prompts disagree in
// length. Row alignment downstream is unreliable when this happens, so the
// condition is surfaced alongside the merged data instead of being dropped.
var ErrShardMismatch = errors.New("completions and prompts length mismatch after merge")

// MergeShards reassembles per-worker partial results into dataset order.
//
// Each worker processes a contiguous block of the dataset, so concatenating
// worker outputs in rank order, keeping in-shard order, reproduces the
// original input order. Completions and prompts must be co-sharded; both are
// merged with the same rule so index i corresponds between the two.
//
// The merged slices are always returned. A non-nil error means the post-merge
// length check failed; callers should warn and decide whether to proceed.
func MergeShards(completionsByRank, promptsByRank [][]string) ([]string, []string, error) {
	completions := concatShards(completionsByRank)
	prompts := concatShards(promptsByRank)
	if len(completions) != len(prompts) {
		return completions, prompts, fmt.Errorf("%w: %d completions, %d prompts",
			ErrShardMismatch, len(completions), len(prompts))
	}
	return completions, prompts, nil
}

func concatShards(shards [][]string) []string {
	total := 0
	for _, shard := range shards {
		total += len(shard)
	}
	out := make([]string, 0, total)
	for _, shard := range shards {
		out = append(out, shard...)
	}
	return out
}

// ShardBounds returns the half-open range [start, end) of the contiguous
// block assigned to a worker rank when n items are split across workers.
// Remainder items go to the lowest ranks, keeping shard sizes within one of
// each other.
func ShardBounds(n, workers, rank int) (int, int) {
	if workers <= 0 {
		workers = 1
	}
	size := n / workers
	extra := n % workers
	start := rank*size + min(rank, extra)
	end := start + size
	if rank < extra {
		end++
	}
	if end > n {
		end = n
	}
	return start, end
}
