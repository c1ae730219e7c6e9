// Package llm contains REST adapters implementing port.LLMProvider for the
// supported generation/embedding vendors.
package llm

import (
	"strings"
	"unicode/utf8"

	"github.com/doclens/doclens/internal/domain"
)

// Options configures a provider adapter. Credentials and endpoint come from
// the environment; the limits are applied to every request.
type Options struct {
	APIKey             string
	BaseURL            string
	Token              string
	InputMaxCharacters int
	MaxOutputTokens    int
	Temperature        float64
}

// settings holds the per-provider model configuration and the shared text
// processing helpers. Model setters are called once at startup, before any
// embed/generate call.
type settings struct {
	opts            Options
	generationModel string
	embeddingModel  string
	embeddingSize   int
}

func (s *settings) SetGenerationModel(modelID string) {
	s.generationModel = modelID
}

func (s *settings) SetEmbeddingModel(modelID string, embeddingSize int) {
	s.embeddingModel = modelID
	s.embeddingSize = embeddingSize
}

func (s *settings) EmbeddingSize() int { return s.embeddingSize }

// ProcessText truncates text to the configured maximum input character count
// and trims surrounding whitespace. The limit counts runes, not bytes, so a
// cut never lands inside a multi-byte sequence.
func (s *settings) ProcessText(text string) string {
	if s.opts.InputMaxCharacters > 0 && utf8.RuneCountInString(text) > s.opts.InputMaxCharacters {
		runes := []rune(text)
		text = string(runes[:s.opts.InputMaxCharacters])
	}
	return strings.TrimSpace(text)
}

// ConstructPrompt pairs processed text with a chat role.
func (s *settings) ConstructPrompt(text, role string) domain.ChatMessage {
	return domain.ChatMessage{Role: role, Content: s.ProcessText(text)}
}

// maxTokensOrDefault resolves a per-call token limit override.
func (s *settings) maxTokensOrDefault(maxOutputTokens int) int {
	if maxOutputTokens > 0 {
		return maxOutputTokens
	}
	return s.opts.MaxOutputTokens
}

// temperatureOrDefault resolves a per-call temperature override.
func (s *settings) temperatureOrDefault(temperature float64) float64 {
	if temperature > 0 {
		return temperature
	}
	return s.opts.Temperature
}
