package green

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/schollz/progressbar/v2"
	"golang.org/x/sync/errgroup"
)

// Service orchestrates the full evaluation pipeline: prompt construction,
// sharded critique generation, the rank-ordered merge, per-row parsing and
// scoring, and the dataset summary.
type Service struct {
	engine    Engine
	clusterer Clusterer

	cfgMu sync.RWMutex
	cfg   Config

	logger *log.Logger
}

// Evaluation is the outcome of one dataset run.
type Evaluation struct {
	Rows    []ResultRow
	Summary Summary
	// Misaligned is set when completions and prompts disagreed in length
	// after the shard merge; row alignment is then unreliable.
	Misaligned bool
	// OutputPath is the written results CSV, empty when persistence was off.
	OutputPath string
}

// NewService constructs a service. The clusterer may be nil, in which case
// representative sentences are skipped in summaries.
func NewService(engine Engine, clusterer Clusterer, cfg Config, logger *log.Logger) (*Service, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}
	cfg.ApplyDefaults()
	return &Service{
		engine:    engine,
		clusterer: clusterer,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// Evaluate scores every candidate report against its reference. Row order in
// the result matches the input order exactly, including across shards.
func (s *Service) Evaluate(ctx context.Context, references, predictions []string) (*Evaluation, error) {
	if len(references) != len(predictions) {
		return nil, fmt.Errorf("references and predictions differ in length: %d vs %d",
			len(references), len(predictions))
	}
	if len(references) == 0 {
		return nil, errors.New("no report pairs to evaluate")
	}
	cfg := s.Config()

	references = NormalizeReports(references)
	predictions = NormalizeReports(predictions)
	if cfg.MaxReportWords > 0 {
		references = TruncateAllWords(references, cfg.MaxReportWords)
		predictions = TruncateAllWords(predictions, cfg.MaxReportWords)
	}

	s.logf("Processing data...making prompts")
	prompts := make([]string, len(references))
	for i := range references {
		prompts[i] = MakePrompt(references[i], predictions[i])
	}

	s.logf("==== Beginning Inference ====")
	completions, _, mergeErr := s.generateSharded(ctx, prompts, cfg)
	if mergeErr != nil && !errors.Is(mergeErr, ErrShardMismatch) {
		return nil, mergeErr
	}
	misaligned := errors.Is(mergeErr, ErrShardMismatch)
	if misaligned {
		s.logf("WARNING: %v", mergeErr)
	}
	s.logf("==== End Inference ====")

	for i, completion := range completions {
		completions[i] = CleanResponse(completion)
	}

	rows := make([]ResultRow, len(completions))
	for i, critique := range completions {
		sub, matched, err := ErrorCounts(critique)
		if err != nil {
			return nil, fmt.Errorf("count errors for row %d: %w", i, err)
		}
		score, err := ComputeScore(critique)
		if err != nil {
			return nil, fmt.Errorf("score row %d: %w", i, err)
		}
		row := ResultRow{Critique: critique, Score: score, Sub: sub, Matched: matched}
		if i < len(references) {
			row.Reference = references[i]
			row.Prediction = predictions[i]
		}
		rows[i] = row
	}

	eval := &Evaluation{Rows: rows, Misaligned: misaligned}

	if cfg.OutputDir != "" {
		path := ResultsPath(cfg.OutputDir, s.engine.ModelID())
		if err := WriteResults(path, rows); err != nil {
			return nil, err
		}
		s.logf("Saved results to %s", path)
		eval.OutputPath = path
	}

	s.logf("Computing summary ...")
	summary, err := Summarize(ctx, completions, s.clusterer)
	if err != nil {
		return nil, err
	}
	eval.Summary = summary
	s.logf("%s", FormatSummary(summary))
	return eval, nil
}

// generateSharded splits the prompts into contiguous blocks, one per worker,
// runs generation in parallel and gathers the shards back in rank order.
// Waiting on the group is the pipeline's single blocking synchronization
// point; callers bound it through ctx.
func (s *Service) generateSharded(ctx context.Context, prompts []string, cfg Config) ([]string, []string, error) {
	workers := cfg.Workers
	if workers > len(prompts) {
		workers = len(prompts)
	}

	completionsByRank := make([][]string, workers)
	promptsByRank := make([][]string, workers)

	totalBatches := 0
	for rank := 0; rank < workers; rank++ {
		start, end := ShardBounds(len(prompts), workers, rank)
		totalBatches += (end - start + cfg.BatchSize - 1) / cfg.BatchSize
	}
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	if cfg.Verbose {
		bar = progressbar.New(totalBatches)
	}

	group, ctx := errgroup.WithContext(ctx)
	for rank := 0; rank < workers; rank++ {
		rank := rank
		start, end := ShardBounds(len(prompts), workers, rank)
		shard := prompts[start:end]
		group.Go(func() error {
			local := make([]string, 0, len(shard))
			for offset := 0; offset < len(shard); offset += cfg.BatchSize {
				limit := offset + cfg.BatchSize
				if limit > len(shard) {
					limit = len(shard)
				}
				batch, err := s.engine.Generate(ctx, shard[offset:limit])
				if err != nil {
					return fmt.Errorf("shard %d: %w", rank, err)
				}
				local = append(local, batch...)
				if bar != nil {
					barMu.Lock()
					_ = bar.Add(1)
					barMu.Unlock()
				}
			}
			completionsByRank[rank] = local
			promptsByRank[rank] = shard
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return MergeShards(completionsByRank, promptsByRank)
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
