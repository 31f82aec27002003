package green

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = "config.json"

// EmbedderConfig configures the ONNX sentence encoder used for clustering.
type EmbedderConfig struct {
	OrtDLL        string `json:"ortDll"`
	ModelPath     string `json:"modelPath"`
	TokenizerPath string `json:"tokenizerPath"`
	MaxSeqLen     int    `json:"maxSeqLen"`
	CacheDir      string `json:"cacheDir"`
	ModelID       string `json:"modelId"`
}

// ClusterConfig controls grouping of near-duplicate error sentences.
type ClusterConfig struct {
	Threshold float32        `json:"threshold"`
	Embedder  EmbedderConfig `json:"embedder"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	// Model is the identifier of the judging model; it also names the
	// results file.
	Model string `json:"model"`
	// Endpoint is the OpenAI-compatible completions server base URL.
	Endpoint string `json:"endpoint"`
	// BatchSize is the number of prompts per generation request batch.
	BatchSize int `json:"batchSize"`
	// MaxLength bounds generated critique length in tokens.
	MaxLength int `json:"maxLength"`
	// MaxReportWords truncates each report to a word budget before
	// prompting; zero disables truncation.
	MaxReportWords int `json:"maxReportWords"`
	// Workers is the number of parallel inference shards.
	Workers int `json:"workers"`
	// OutputDir receives the results CSV when non-empty.
	OutputDir string        `json:"outputDir"`
	Verbose   bool          `json:"verbose"`
	Cluster   ClusterConfig `json:"cluster"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 16
	}
	if c.MaxLength <= 0 {
		c.MaxLength = 2048
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Cluster.Threshold == 0 {
		c.Cluster.Threshold = 0.8
	}
	if c.Cluster.Embedder.MaxSeqLen == 0 {
		c.Cluster.Embedder.MaxSeqLen = 512
	}
	if c.Cluster.Embedder.ModelID == "" && c.Cluster.Embedder.ModelPath != "" {
		c.Cluster.Embedder.ModelID = filepath.Base(c.Cluster.Embedder.ModelPath)
	}
}

// LoadConfig loads configuration from the given path or the default
// config.json. A missing file yields defaults rather than an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if cfg.Cluster.Embedder.CacheDir != "" {
		if err := os.MkdirAll(cfg.Cluster.Embedder.CacheDir, 0o755); err != nil {
			return cfg, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
