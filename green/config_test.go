package green

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.BatchSize)
	assert.Equal(t, 2048, cfg.MaxLength)
	assert.Equal(t, 1, cfg.Workers)
	assert.InDelta(t, 0.8, float64(cfg.Cluster.Threshold), 1e-6)
	assert.Equal(t, 512, cfg.Cluster.Embedder.MaxSeqLen)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Config{
		Model:     "radllama",
		Endpoint:  "http://localhost:8000/v1",
		BatchSize: 4,
		Workers:   2,
		Cluster: ClusterConfig{
			Threshold: 0.75,
			Embedder:  EmbedderConfig{ModelPath: "models/minilm.onnx"},
		},
	}
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "radllama", loaded.Model)
	assert.Equal(t, 4, loaded.BatchSize)
	assert.Equal(t, 2, loaded.Workers)
	assert.InDelta(t, 0.75, float64(loaded.Cluster.Threshold), 1e-6)
	// ModelID is derived from the model path when unset.
	assert.Equal(t, "minilm.onnx", loaded.Cluster.Embedder.ModelID)
}

func TestConfigClone(t *testing.T) {
	cfg := Config{Model: "a", Cluster: ClusterConfig{Threshold: 0.5}}
	clone := cfg.Clone()
	clone.Model = "b"
	assert.Equal(t, "a", cfg.Model)
}
