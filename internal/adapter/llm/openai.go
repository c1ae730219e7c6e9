package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

// OpenAIProvider implements port.LLMProvider using the OpenAI REST API.
// It also covers OpenAI-compatible servers via the BaseURL option.
type OpenAIProvider struct {
	settings
	httpClient *http.Client
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(opts Options) *OpenAIProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	return &OpenAIProvider{
		settings:   settings{opts: opts},
		httpClient: &http.Client{},
	}
}

// EmbedText generates a vector embedding for the given text.
func (o *OpenAIProvider) EmbedText(ctx context.Context, text string, documentType port.DocumentType) ([]float32, error) {
	if o.embeddingModel == "" {
		return nil, fmt.Errorf("openai embed: %w", port.ErrModelNotSet)
	}

	payload := map[string]any{
		"model": o.embeddingModel,
		"input": o.ProcessText(text),
	}
	body, err := o.post(ctx, "/embeddings", payload)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	var resp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai embed decode: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embed: %w", port.ErrNoEmbedding)
	}
	vector := resp.Data[0].Embedding
	if len(vector) != o.embeddingSize {
		return nil, fmt.Errorf("openai embed: expected %d dimensions, got %d: %w",
			o.embeddingSize, len(vector), port.ErrEmbeddingSizeMismatch)
	}
	return vector, nil
}

// GenerateText produces a chat completion for the prompt and history.
func (o *OpenAIProvider) GenerateText(ctx context.Context, prompt string, chatHistory []domain.ChatMessage, maxOutputTokens int, temperature float64) (string, error) {
	if o.generationModel == "" {
		return "", fmt.Errorf("openai generate: %w", port.ErrModelNotSet)
	}

	messages := make([]domain.ChatMessage, 0, len(chatHistory)+1)
	messages = append(messages, chatHistory...)
	messages = append(messages, o.ConstructPrompt(prompt, port.RoleUser))

	payload := map[string]any{
		"model":       o.generationModel,
		"messages":    messages,
		"max_tokens":  o.maxTokensOrDefault(maxOutputTokens),
		"temperature": o.temperatureOrDefault(temperature),
	}
	body, err := o.post(ctx, "/chat/completions", payload)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("openai generate decode: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai generate: %w", port.ErrNoContent)
	}
	slog.Debug("openai generation complete", "model", o.generationModel)
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.opts.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.opts.APIKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai API error (%d): %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}
