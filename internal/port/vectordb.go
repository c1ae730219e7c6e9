package port

import (
	"context"

	"github.com/doclens/doclens/internal/domain"
)

// VectorDB abstracts a vector store behind collection-scoped operations.
// Implementations must be safe for concurrent use across requests.
type VectorDB interface {
	// Connect initializes the connection; Disconnect releases it.
	Connect(ctx context.Context) error
	Disconnect() error

	// CollectionExists reports whether the named collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// CollectionInfo returns provider-agnostic metadata about a collection.
	CollectionInfo(ctx context.Context, name string) (*domain.CollectionInfo, error)

	// DeleteCollection removes a collection. Deleting a collection that does
	// not exist is a no-op, not an error.
	DeleteCollection(ctx context.Context, name string) error

	// CreateCollection creates the named collection with the given embedding
	// size. When reset is true any existing collection of that name is
	// deleted first. Returns true when a collection was created and false
	// when it already existed (idempotent no-op).
	CreateCollection(ctx context.Context, name string, embeddingSize int, reset bool) (bool, error)

	// InsertOne inserts a single record. Fails with ErrCollectionNotFound if
	// the collection does not exist; collections are never auto-created.
	InsertOne(ctx context.Context, name, text string, vector []float32, metadata map[string]any, recordID string) error

	// InsertMany inserts records in fixed-size batches. texts, vectors and,
	// when provided, metadata and recordIDs must have equal lengths
	// (ErrLengthMismatch otherwise). Omitted recordIDs become ordinal string
	// identifiers starting at zero, scoped to this call only — callers
	// spanning multiple calls must supply their own unique identifiers.
	// A failing batch aborts the operation; batches already written stay
	// (at-least-once semantics, no rollback).
	InsertMany(ctx context.Context, name string, texts []string, vectors [][]float32, metadata []map[string]any, recordIDs []string, batchSize int) error

	// SearchByVector returns up to limit documents ordered by descending
	// relevance. An absent collection or an empty match set yields an empty
	// result, not an error.
	SearchByVector(ctx context.Context, name string, vector []float32, limit int) ([]domain.RetrievedDocument, error)
}
