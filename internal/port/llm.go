package port

import (
	"context"

	"github.com/doclens/doclens/internal/domain"
)

// Chat roles shared by all providers. Adapters translate them into whatever
// the vendor API expects.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DocumentType tells providers that differentiate indexing from querying
// which side of the search an embedding is for.
type DocumentType string

const (
	DocumentTypeDocument DocumentType = "document"
	DocumentTypeQuery    DocumentType = "query"
)

// LLMProvider abstracts a generation/embedding backend (OpenAI, Cohere,
// Ollama, ...) behind one capability set. Model configuration happens once at
// startup; after that the provider must be safe for concurrent use.
type LLMProvider interface {
	// SetGenerationModel selects the model used by GenerateText.
	SetGenerationModel(modelID string)

	// SetEmbeddingModel selects the model used by EmbedText and declares the
	// vector size every returned embedding must have.
	SetEmbeddingModel(modelID string, embeddingSize int)

	// EmbeddingSize returns the declared embedding vector size.
	EmbeddingSize() int

	// ProcessText truncates text to the configured maximum input length and
	// trims surrounding whitespace. Applied to every prompt and embedding
	// input before it is sent to the provider.
	ProcessText(text string) string

	// EmbedText converts text into a vector. Fails when no embedding model is
	// configured, when the provider returns no embedding, or when the vector
	// length does not match the declared embedding size.
	EmbedText(ctx context.Context, text string, documentType DocumentType) ([]float32, error)

	// GenerateText produces a completion for prompt given the chat history.
	// maxOutputTokens <= 0 and temperature <= 0 fall back to the configured
	// defaults.
	GenerateText(ctx context.Context, prompt string, chatHistory []domain.ChatMessage, maxOutputTokens int, temperature float64) (string, error)

	// ConstructPrompt pairs processed text with a chat role.
	ConstructPrompt(text, role string) domain.ChatMessage
}
