package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

// OllamaProvider implements port.LLMProvider using the Ollama REST API,
// either a local daemon or Ollama Cloud (Token set).
type OllamaProvider struct {
	settings
	httpClient *http.Client
}

// NewOllamaProvider creates an Ollama-backed provider.
func NewOllamaProvider(opts Options) *OllamaProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:11434"
	}
	return &OllamaProvider{
		settings:   settings{opts: opts},
		httpClient: &http.Client{},
	}
}

// EmbedText generates a vector embedding for the given text. Ollama does not
// differentiate document from query embeddings, so documentType only matters
// to providers that do.
func (o *OllamaProvider) EmbedText(ctx context.Context, text string, documentType port.DocumentType) ([]float32, error) {
	if o.embeddingModel == "" {
		return nil, fmt.Errorf("ollama embed: %w", port.ErrModelNotSet)
	}

	payload := map[string]any{
		"model": o.embeddingModel,
		"input": o.ProcessText(text),
	}
	body, err := o.post(ctx, "/api/embed", payload)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama embed decode: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama embed: %w", port.ErrNoEmbedding)
	}
	vector := resp.Embeddings[0]
	if len(vector) != o.embeddingSize {
		return nil, fmt.Errorf("ollama embed: expected %d dimensions, got %d: %w",
			o.embeddingSize, len(vector), port.ErrEmbeddingSizeMismatch)
	}
	return vector, nil
}

// GenerateText produces a chat completion for the prompt and history.
func (o *OllamaProvider) GenerateText(ctx context.Context, prompt string, chatHistory []domain.ChatMessage, maxOutputTokens int, temperature float64) (string, error) {
	if o.generationModel == "" {
		return "", fmt.Errorf("ollama generate: %w", port.ErrModelNotSet)
	}

	messages := make([]domain.ChatMessage, 0, len(chatHistory)+1)
	messages = append(messages, chatHistory...)
	messages = append(messages, o.ConstructPrompt(prompt, port.RoleUser))

	payload := map[string]any{
		"model":    o.generationModel,
		"messages": messages,
		"stream":   false,
		"options": map[string]any{
			"num_predict": o.maxTokensOrDefault(maxOutputTokens),
			"temperature": o.temperatureOrDefault(temperature),
		},
	}
	body, err := o.post(ctx, "/api/chat", payload)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("ollama generate decode: %w", err)
	}
	if resp.Message.Content == "" {
		return "", fmt.Errorf("ollama generate: %w", port.ErrNoContent)
	}
	return resp.Message.Content, nil
}

func (o *OllamaProvider) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.opts.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+o.opts.Token)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}
