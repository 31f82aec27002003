package green

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/tedfytw1209/GREEN/emb"
)

// Embedder exposes the minimal embedding surface the clusterer needs.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
	ModelID() string
}

// SentenceEmbedder wraps an emb.Encoder with an in-memory and on-disk vector
// cache. Pooled error sentences repeat heavily across a dataset, so caching
// keyed by model id and normalized text avoids most encoder calls.
type SentenceEmbedder struct {
	enc *emb.Encoder
	cfg EmbedderConfig

	mu    sync.RWMutex
	cache map[string][]float32
}

// NewSentenceEmbedder initializes the encoder and prepares cache directories.
func NewSentenceEmbedder(cfg EmbedderConfig) (*SentenceEmbedder, error) {
	if cfg.ModelID == "" && cfg.ModelPath != "" {
		cfg.ModelID = filepath.Base(cfg.ModelPath)
	}
	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	encoder := &emb.Encoder{}
	if err := encoder.Init(emb.Config{
		OrtDLL:        cfg.OrtDLL,
		ModelPath:     cfg.ModelPath,
		TokenizerPath: cfg.TokenizerPath,
		MaxSeqLen:     cfg.MaxSeqLen,
	}); err != nil {
		return nil, err
	}
	return &SentenceEmbedder{
		enc:   encoder,
		cfg:   cfg,
		cache: make(map[string][]float32),
	}, nil
}

// Close releases encoder resources.
func (e *SentenceEmbedder) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.enc != nil {
		e.enc.Close()
		e.enc = nil
	}
	e.cache = nil
	return nil
}

// ModelID returns the identifier used for cache keys.
func (e *SentenceEmbedder) ModelID() string { return e.cfg.ModelID }

// EmbedTexts embeds a slice of sentences, consulting the caches first.
func (e *SentenceEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := e.embedOne(text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *SentenceEmbedder) embedOne(text string) ([]float32, error) {
	if e == nil || e.enc == nil {
		return nil, errors.New("embedder is not initialized")
	}
	normalized := NormalizeReport(text)
	key := e.cacheKey(normalized)
	if vec := e.lookup(key); vec != nil {
		return vec, nil
	}
	if vec, err := e.loadFromDisk(key); err == nil {
		e.store(key, vec)
		return vec, nil
	}
	vec, err := e.enc.Encode(normalized)
	if err != nil {
		return nil, err
	}
	e.store(key, vec)
	_ = e.saveToDisk(key, vec)
	return vec, nil
}

func (e *SentenceEmbedder) cacheKey(text string) string {
	h := sha256.Sum256([]byte(e.cfg.ModelID + "|" + text))
	return hex.EncodeToString(h[:])
}

func (e *SentenceEmbedder) lookup(key string) []float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if vec, ok := e.cache[key]; ok {
		return cloneVector(vec)
	}
	return nil
}

func (e *SentenceEmbedder) store(key string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache != nil {
		e.cache[key] = cloneVector(vec)
	}
}

func (e *SentenceEmbedder) loadFromDisk(key string) ([]float32, error) {
	if e.cfg.CacheDir == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(filepath.Join(e.cfg.CacheDir, key+".bin"))
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("corrupt cache entry %s", key)
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}

func (e *SentenceEmbedder) saveToDisk(key string, vec []float32) error {
	if e.cfg.CacheDir == "" {
		return nil
	}
	var buf bytes.Buffer
	buf.Grow(len(vec) * 4)
	for _, v := range vec {
		var word [4]byte
		binary.LittleEndian.PutUint32(word[:], math.Float32bits(v))
		buf.Write(word[:])
	}
	path := filepath.Join(e.cfg.CacheDir, key+".bin")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
