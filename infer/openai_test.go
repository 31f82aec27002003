package infer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGenerateReturnsCompletionsInOrder(t *testing.T) {
	var requests []map[string]any
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body)

		messages := body["messages"].([]any)
		content := messages[0].(map[string]any)["content"].(string)
		fmt.Fprintf(w, `{"choices":[{"message":{"content":"critique for %s"}}]}`, content)
	})

	engine := NewOpenAI(server.URL+"/v1", "test-key", "radllama", 2048)
	out, err := engine.Generate(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"critique for p1", "critique for p2"}, out)

	require.Len(t, requests, 2)
	assert.Equal(t, "radllama", requests[0]["model"])
	assert.EqualValues(t, 0, requests[0]["temperature"])
	assert.EqualValues(t, 2048, requests[0]["max_tokens"])
}

func TestGenerateSendsAuthorizationHeader(t *testing.T) {
	var auth string
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	})

	engine := NewOpenAI(server.URL+"/v1", "secret", "m", 0)
	_, err := engine.Generate(context.Background(), []string{"p"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
}

func TestGenerateSurfacesServerError(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	})

	engine := NewOpenAI(server.URL+"/v1", "", "m", 0)
	_, err := engine.Generate(context.Background(), []string{"p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestGenerateRejectsEmptyChoices(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})

	engine := NewOpenAI(server.URL+"/v1", "", "m", 0)
	_, err := engine.Generate(context.Background(), []string{"p"})
	assert.Error(t, err)
}

func TestNewOpenAIDefaultsEndpoint(t *testing.T) {
	engine := NewOpenAI("", "", "m", 0)
	assert.Equal(t, "https://api.openai.com/v1", engine.Endpoint)
}
