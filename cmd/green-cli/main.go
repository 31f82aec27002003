package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tedfytw1209/GREEN/green"
	"github.com/tedfytw1209/GREEN/infer"
)

type cliOptions struct {
	configPath string
	inputPath  string
	pairOpts   green.PairParseOptions
	model      string
	endpoint   string
	outputDir  string
	batchSize  int
	maxLength  int
	workers    int
	stdout     bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("green-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("green-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.inputPath, "input", "", "CSV/TSV file with reference and candidate report columns")
	flag.StringVar(&opts.pairOpts.ReferenceColumn, "reference-column", "", "Column name or #index for reference reports")
	flag.StringVar(&opts.pairOpts.PredictionColumn, "prediction-column", "", "Column name or #index for candidate reports")
	flag.StringVar(&opts.model, "model", "", "Judging model identifier (overrides config)")
	flag.StringVar(&opts.endpoint, "endpoint", "", "OpenAI-compatible completions endpoint (overrides config)")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Directory for the results CSV (overrides config)")
	flag.IntVar(&opts.batchSize, "batch-size", 0, "Prompts per generation batch (overrides config)")
	flag.IntVar(&opts.maxLength, "max-length", 0, "Maximum critique length in tokens (overrides config)")
	flag.IntVar(&opts.workers, "workers", 0, "Parallel inference shards (overrides config)")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print the dataset summary to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --input FILE --model NAME [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.inputPath = strings.TrimSpace(opts.inputPath)
	opts.model = strings.TrimSpace(opts.model)
	opts.endpoint = strings.TrimSpace(opts.endpoint)
	opts.outputDir = strings.TrimSpace(opts.outputDir)

	if opts.inputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --input file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := green.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)
	if cfg.Model == "" {
		return errors.New("no judging model configured; pass --model or set it in config.json")
	}

	engine := infer.NewOpenAI(cfg.Endpoint, os.Getenv("OPENAI_API_KEY"), cfg.Model, cfg.MaxLength)

	var clusterer green.Clusterer
	if cfg.Cluster.Embedder.ModelPath != "" {
		embedder, err := green.NewSentenceEmbedder(cfg.Cluster.Embedder)
		if err != nil {
			return fmt.Errorf("init sentence embedder: %w", err)
		}
		defer embedder.Close()
		clusterer = green.NewEmbeddingClusterer(embedder, cfg.Cluster.Threshold)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	service, err := green.NewService(engine, clusterer, cfg, logger)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	references, predictions, err := green.ReadReportPairs(opts.inputPath, opts.pairOpts)
	if err != nil {
		return fmt.Errorf("read report pairs: %w", err)
	}

	evaluation, err := service.Evaluate(context.Background(), references, predictions)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if evaluation.Misaligned {
		logger.Printf("WARNING: merged completions and prompts are misaligned; inspect the results table")
	}
	if evaluation.OutputPath != "" {
		fmt.Printf("Results written to %s\n", evaluation.OutputPath)
	}
	if opts.stdout {
		fmt.Println(green.FormatSummary(evaluation.Summary))
	}
	return nil
}

func applyOverrides(cfg *green.Config, opts cliOptions) {
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.endpoint != "" {
		cfg.Endpoint = opts.endpoint
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.batchSize > 0 {
		cfg.BatchSize = opts.batchSize
	}
	if opts.maxLength > 0 {
		cfg.MaxLength = opts.maxLength
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	cfg.Verbose = cfg.Verbose || opts.stdout
}
