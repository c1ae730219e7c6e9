package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOpenAIProvider(Options{
		APIKey:             "test-key",
		BaseURL:            server.URL,
		InputMaxCharacters: 1024,
		MaxOutputTokens:    1000,
		Temperature:        0.2,
	})
}

func TestOpenAIEmbedText(t *testing.T) {
	provider := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "text-embedding-3-small", payload["model"])

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	})
	provider.SetEmbeddingModel("text-embedding-3-small", 3)

	vector, err := provider.EmbedText(context.Background(), "hello", port.DocumentTypeDocument)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestOpenAIEmbedTextSizeMismatch(t *testing.T) {
	provider := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2}}},
		})
	})
	provider.SetEmbeddingModel("text-embedding-3-small", 3)

	_, err := provider.EmbedText(context.Background(), "hello", port.DocumentTypeDocument)
	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrEmbeddingSizeMismatch)
}

func TestOpenAIEmbedTextModelNotSet(t *testing.T) {
	provider := NewOpenAIProvider(Options{})

	_, err := provider.EmbedText(context.Background(), "hello", port.DocumentTypeDocument)
	assert.ErrorIs(t, err, port.ErrModelNotSet)
}

func TestOpenAIEmbedTextEmptyResponse(t *testing.T) {
	provider := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	})
	provider.SetEmbeddingModel("text-embedding-3-small", 3)

	_, err := provider.EmbedText(context.Background(), "hello", port.DocumentTypeDocument)
	assert.ErrorIs(t, err, port.ErrNoEmbedding)
}

func TestOpenAIGenerateText(t *testing.T) {
	provider := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var payload struct {
			Model       string  `json:"model"`
			MaxTokens   int     `json:"max_tokens"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gpt-4o-mini", payload.Model)
		assert.Equal(t, 1000, payload.MaxTokens, "zero override resolves to configured default")
		assert.InDelta(t, 0.2, payload.Temperature, 1e-9)
		require.Len(t, payload.Messages, 2)
		assert.Equal(t, port.RoleSystem, payload.Messages[0].Role)
		assert.Equal(t, port.RoleUser, payload.Messages[1].Role)
		assert.Equal(t, "the prompt", payload.Messages[1].Content)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "the answer"}},
			},
		})
	})
	provider.SetGenerationModel("gpt-4o-mini")

	history := []domain.ChatMessage{provider.ConstructPrompt("system prompt", port.RoleSystem)}
	got, err := provider.GenerateText(context.Background(), "the prompt", history, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "the answer", got)
}

func TestOpenAIGenerateTextAPIError(t *testing.T) {
	provider := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})
	provider.SetGenerationModel("gpt-4o-mini")

	_, err := provider.GenerateText(context.Background(), "prompt", nil, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestProcessTextTruncatesAndTrims(t *testing.T) {
	provider := NewOpenAIProvider(Options{InputMaxCharacters: 5})

	assert.Equal(t, "abcde", provider.ProcessText("abcdefgh"))
	assert.Equal(t, "abc", provider.ProcessText("  abc  "))
}

func TestProcessTextTruncatesByRunes(t *testing.T) {
	provider := NewOpenAIProvider(Options{InputMaxCharacters: 5})

	got := provider.ProcessText(strings.Repeat("س", 8))
	assert.True(t, utf8.ValidString(got), "truncation must never split a multi-byte rune")
	assert.Equal(t, 5, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("س", 5), got)

	// under the limit, multi-byte text passes through untouched
	assert.Equal(t, "مرحبا", provider.ProcessText("مرحبا"))
}
