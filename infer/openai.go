// Package infer provides critique-generation engines. The OpenAI-compatible
// engine targets any chat-completions server, which is how judging models are
// typically deployed behind vLLM or similar.
package infer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.openai.com/v1"

// OpenAIEngine generates critiques via the chat-completions API.
type OpenAIEngine struct {
	Endpoint  string
	APIKey    string
	Model     string
	MaxTokens int

	httpc *http.Client
}

// NewOpenAI builds an engine against an OpenAI-compatible endpoint. An empty
// endpoint targets the public API.
func NewOpenAI(endpoint, apiKey, model string, maxTokens int) *OpenAIEngine {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &OpenAIEngine{
		Endpoint:  strings.TrimRight(endpoint, "/"),
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: maxTokens,
		httpc:     &http.Client{Timeout: 300 * time.Second},
	}
}

// ModelID returns the judging model identifier.
func (e *OpenAIEngine) ModelID() string { return e.Model }

// Generate produces one completion per prompt, in order. Generation is
// deterministic (temperature 0) so scores are reproducible across runs.
func (e *OpenAIEngine) Generate(ctx context.Context, prompts []string) ([]string, error) {
	out := make([]string, len(prompts))
	for i, prompt := range prompts {
		completion, err := e.complete(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("prompt %d: %w", i, err)
		}
		out[i] = completion
	}
	return out, nil
}

func (e *OpenAIEngine) complete(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model": e.Model,
		"messages": []any{
			map[string]any{"role": "user", "content": prompt},
		},
		"temperature": 0,
	}
	if e.MaxTokens > 0 {
		body["max_tokens"] = e.MaxTokens
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.Endpoint+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.APIKey)
	}

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return raw.Choices[0].Message.Content, nil
}
