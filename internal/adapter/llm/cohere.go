package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

// Cohere distinguishes document embeddings from query embeddings through the
// input_type request field.
const (
	cohereInputDocument = "search_document"
	cohereInputQuery    = "search_query"
)

// CohereProvider implements port.LLMProvider using the Cohere v1 REST API.
type CohereProvider struct {
	settings
	httpClient *http.Client
}

// NewCohereProvider creates a Cohere-backed provider.
func NewCohereProvider(opts Options) *CohereProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.cohere.com"
	}
	return &CohereProvider{
		settings:   settings{opts: opts},
		httpClient: &http.Client{},
	}
}

// EmbedText generates a vector embedding, tagging the input as a document or
// a query so Cohere can apply the matching indexing hints.
func (c *CohereProvider) EmbedText(ctx context.Context, text string, documentType port.DocumentType) ([]float32, error) {
	if c.embeddingModel == "" {
		return nil, fmt.Errorf("cohere embed: %w", port.ErrModelNotSet)
	}

	inputType := cohereInputDocument
	if documentType == port.DocumentTypeQuery {
		inputType = cohereInputQuery
	}

	payload := map[string]any{
		"model":           c.embeddingModel,
		"texts":           []string{c.ProcessText(text)},
		"input_type":      inputType,
		"embedding_types": []string{"float"},
	}
	body, err := c.post(ctx, "/v1/embed", payload)
	if err != nil {
		return nil, fmt.Errorf("cohere embed: %w", err)
	}

	var resp struct {
		Embeddings struct {
			Float [][]float32 `json:"float"`
		} `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("cohere embed decode: %w", err)
	}
	if len(resp.Embeddings.Float) == 0 || len(resp.Embeddings.Float[0]) == 0 {
		return nil, fmt.Errorf("cohere embed: %w", port.ErrNoEmbedding)
	}
	vector := resp.Embeddings.Float[0]
	if len(vector) != c.embeddingSize {
		return nil, fmt.Errorf("cohere embed: expected %d dimensions, got %d: %w",
			c.embeddingSize, len(vector), port.ErrEmbeddingSizeMismatch)
	}
	return vector, nil
}

// GenerateText produces a chat reply for the prompt and history.
func (c *CohereProvider) GenerateText(ctx context.Context, prompt string, chatHistory []domain.ChatMessage, maxOutputTokens int, temperature float64) (string, error) {
	if c.generationModel == "" {
		return "", fmt.Errorf("cohere generate: %w", port.ErrModelNotSet)
	}

	history := make([]map[string]string, 0, len(chatHistory))
	for _, m := range chatHistory {
		history = append(history, map[string]string{
			"role":    cohereRole(m.Role),
			"message": m.Content,
		})
	}

	payload := map[string]any{
		"model":        c.generationModel,
		"chat_history": history,
		"message":      c.ProcessText(prompt),
		"max_tokens":   c.maxTokensOrDefault(maxOutputTokens),
		"temperature":  c.temperatureOrDefault(temperature),
	}
	body, err := c.post(ctx, "/v1/chat", payload)
	if err != nil {
		return "", fmt.Errorf("cohere generate: %w", err)
	}

	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("cohere generate decode: %w", err)
	}
	if resp.Text == "" {
		return "", fmt.Errorf("cohere generate: %w", port.ErrNoContent)
	}
	return strings.TrimSpace(resp.Text), nil
}

// cohereRole maps the shared chat roles onto Cohere's naming.
func cohereRole(role string) string {
	switch role {
	case port.RoleSystem:
		return "SYSTEM"
	case port.RoleAssistant:
		return "CHATBOT"
	default:
		return "USER"
	}
}

func (c *CohereProvider) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cohere API error (%d): %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}
