// Package emb runs a sentence-embedding transformer through ONNX Runtime and
// pools its token states into fixed-size vectors.
package emb

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Config describes the encoder assets.
type Config struct {
	// OrtDLL points at the onnxruntime shared library; empty uses the
	// platform default search path.
	OrtDLL string
	// ModelPath is the exported ONNX encoder model.
	ModelPath string
	// TokenizerPath is the HuggingFace tokenizer.json next to the model.
	TokenizerPath string
	// MaxSeqLen caps tokenized input length.
	MaxSeqLen int
}

var (
	envMu sync.Mutex
	// The ORT environment is process-global; encoders share it and it is
	// intentionally never torn down while the process lives.
	envReady bool
)

func ensureEnvironment(dll string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envReady {
		return nil
	}
	if dll != "" {
		ort.SetSharedLibraryPath(dll)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime: %w", err)
	}
	envReady = true
	return nil
}

// Encoder embeds sentences with a masked mean pool over the encoder's last
// hidden state, L2-normalized.
type Encoder struct {
	session   *ort.DynamicAdvancedSession
	tk        *tokenizer.Tokenizer
	maxSeqLen int

	mu sync.Mutex
}

// Init loads the tokenizer and opens the ONNX session.
func (e *Encoder) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("model path is required")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("tokenizer path is required")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 512
	}
	if err := ensureEnvironment(cfg.OrtDLL); err != nil {
		return err
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"last_hidden_state"},
		nil)
	if err != nil {
		return fmt.Errorf("open onnx session: %w", err)
	}
	e.session = session
	e.tk = tk
	e.maxSeqLen = cfg.MaxSeqLen
	return nil
}

// Close releases the ONNX session. The shared environment stays up.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
}

// Encode embeds one sentence.
func (e *Encoder) Encode(text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil || e.tk == nil {
		return nil, errors.New("encoder is not initialized")
	}

	encoding, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	ids := encoding.Ids
	mask := encoding.AttentionMask
	if len(ids) == 0 {
		return nil, errors.New("empty tokenization")
	}
	if len(ids) > e.maxSeqLen {
		ids = ids[:e.maxSeqLen]
		mask = mask[:e.maxSeqLen]
	}

	seqLen := int64(len(ids))
	ids64 := make([]int64, len(ids))
	mask64 := make([]int64, len(mask))
	for i := range ids {
		ids64[i] = int64(ids[i])
		mask64[i] = int64(mask[i])
	}

	shape := ort.NewShape(1, seqLen)
	idTensor, err := ort.NewTensor(shape, ids64)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer idTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask64)
	if err != nil {
		return nil, fmt.Errorf("create mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{idTensor, maskTensor}, outputs); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.New("unexpected output tensor type")
	}
	defer hidden.Destroy()

	dims := hidden.GetShape()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected output rank %d", len(dims))
	}
	return meanPool(hidden.GetData(), int(dims[1]), int(dims[2]), mask64), nil
}

// meanPool averages token vectors where the attention mask is set and
// normalizes the result to unit length.
func meanPool(data []float32, seqLen, dim int, mask []int64) []float32 {
	pooled := make([]float32, dim)
	count := 0
	for t := 0; t < seqLen; t++ {
		if t < len(mask) && mask[t] == 0 {
			continue
		}
		base := t * dim
		for d := 0; d < dim; d++ {
			pooled[d] += data[base+d]
		}
		count++
	}
	if count == 0 {
		return pooled
	}
	var norm float64
	for d := range pooled {
		pooled[d] /= float32(count)
		norm += float64(pooled[d]) * float64(pooled[d])
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for d := range pooled {
			pooled[d] *= inv
		}
	}
	return pooled
}
