package green

import "context"

// Engine produces one raw critique text per prompt. Implementations own model
// loading, templating, tokenization and truncation; the service only hands
// over prompt batches and consumes completions in the same order.
type Engine interface {
	Generate(ctx context.Context, prompts []string) ([]string, error)
	ModelID() string
}
