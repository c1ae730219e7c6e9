package llm

import (
	"fmt"

	"github.com/doclens/doclens/internal/port"
	"github.com/doclens/doclens/pkg/config"
)

// New constructs the generation/embedding provider named by the
// configuration. The returned provider still needs its models configured via
// SetGenerationModel/SetEmbeddingModel before use.
func New(cfg *config.Config) (port.LLMProvider, error) {
	opts := Options{
		InputMaxCharacters: cfg.InputMaxCharacters,
		MaxOutputTokens:    cfg.GenerationMaxTokens,
		Temperature:        cfg.GenerationTemperature,
	}

	switch cfg.LLMBackend {
	case "openai":
		opts.APIKey = cfg.OpenAIAPIKey
		opts.BaseURL = cfg.OpenAIAPIURL
		return NewOpenAIProvider(opts), nil
	case "cohere":
		opts.APIKey = cfg.CohereAPIKey
		opts.BaseURL = cfg.CohereAPIURL
		return NewCohereProvider(opts), nil
	case "ollama":
		opts.BaseURL = cfg.OllamaBaseURL
		opts.Token = cfg.OllamaToken
		return NewOllamaProvider(opts), nil
	default:
		return nil, fmt.Errorf("unsupported llm backend: %q", cfg.LLMBackend)
	}
}
