package vectordb

import (
	"fmt"

	"github.com/doclens/doclens/internal/port"
	"github.com/doclens/doclens/pkg/config"
)

// New constructs the vector store backend named by the configuration.
func New(cfg *config.Config) (port.VectorDB, error) {
	switch cfg.VectorDBBackend {
	case "qdrant":
		return NewQdrantDB(QdrantConfig{
			URL:      cfg.QdrantURL,
			APIKey:   cfg.QdrantAPIKey,
			Distance: cfg.DistanceMethod,
		}), nil
	case "memory":
		return NewMemoryDB(), nil
	default:
		return nil, fmt.Errorf("unsupported vector db backend: %q", cfg.VectorDBBackend)
	}
}
