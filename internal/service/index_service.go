package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

// IndexService drives indexing runs: it pages persisted chunks out of the
// data store, embeds them and inserts the vectors into the project's
// collection. Runs on the same project are not coordinated here; keeping at
// most one in-flight indexing run per project is the caller's responsibility.
type IndexService struct {
	store     port.DataStore
	vectorDB  port.VectorDB
	llm       port.LLMProvider
	pageSize  int
	batchSize int
}

// NewIndexService creates an indexing service.
func NewIndexService(store port.DataStore, vectorDB port.VectorDB, llm port.LLMProvider, pageSize, batchSize int) *IndexService {
	if pageSize <= 0 {
		pageSize = 50
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &IndexService{
		store:     store,
		vectorDB:  vectorDB,
		llm:       llm,
		pageSize:  pageSize,
		batchSize: batchSize,
	}
}

// IndexProject embeds and inserts all persisted chunks of a project into its
// vector collection, page by page, and returns the inserted count.
//
// Record identifiers are drawn from a counter spanning the whole run so that
// later pages never reuse (and silently overwrite) earlier pages' IDs. When
// reset is requested the collection is recreated on the first page only;
// reapplying it on later pages would erase earlier pages' work. A failing
// batch aborts the run; batches already acknowledged stay in the store
// (at-least-once write semantics).
func (s *IndexService) IndexProject(ctx context.Context, projectID string, reset bool) (int, error) {
	project, err := s.store.GetOrCreateProject(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("resolve project %q: %w", projectID, err)
	}
	collectionName := domain.CollectionName(project.ProjectID)
	slog.Info("starting indexing run", "project_id", projectID, "collection", collectionName, "reset", reset)

	pageNo := 1
	inserted := 0
	recordIdx := 0

	for {
		chunks, err := s.store.GetChunksPage(ctx, project.ID, pageNo, s.pageSize)
		if err != nil {
			return inserted, fmt.Errorf("fetch chunks page %d: %w", pageNo, err)
		}
		if len(chunks) == 0 {
			break
		}

		texts := make([]string, len(chunks))
		metadata := make([]map[string]any, len(chunks))
		vectors := make([][]float32, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
			metadata[i] = c.Metadata
			vector, err := s.llm.EmbedText(ctx, c.Text, port.DocumentTypeDocument)
			if err != nil {
				return inserted, fmt.Errorf("embed chunk order %d: %w", c.Order, err)
			}
			vectors[i] = vector
		}

		// reset only applies to the very first page of the run
		if _, err := s.vectorDB.CreateCollection(ctx, collectionName, s.llm.EmbeddingSize(), reset && pageNo == 1); err != nil {
			return inserted, fmt.Errorf("create collection %q: %w", collectionName, err)
		}

		recordIDs := make([]string, len(chunks))
		for i := range chunks {
			recordIDs[i] = strconv.Itoa(recordIdx + i)
		}
		recordIdx += len(chunks)

		if err := s.vectorDB.InsertMany(ctx, collectionName, texts, vectors, metadata, recordIDs, s.batchSize); err != nil {
			return inserted, fmt.Errorf("insert page %d into %q: %w", pageNo, collectionName, err)
		}

		inserted += len(chunks)
		slog.Info("indexed chunk page", "project_id", projectID, "page", pageNo, "chunks", len(chunks), "total", inserted)
		pageNo++
	}

	slog.Info("indexing run complete", "project_id", projectID, "inserted", inserted)
	return inserted, nil
}

// CollectionInfo returns provider-agnostic metadata about a project's vector
// collection.
func (s *IndexService) CollectionInfo(ctx context.Context, projectID string) (*domain.CollectionInfo, error) {
	project, err := s.store.GetOrCreateProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("resolve project %q: %w", projectID, err)
	}
	return s.vectorDB.CollectionInfo(ctx, domain.CollectionName(project.ProjectID))
}

// ResetCollection deletes a project's vector collection outright. Persisted
// chunks are untouched; re-indexing rebuilds the collection from them.
func (s *IndexService) ResetCollection(ctx context.Context, projectID string) error {
	project, err := s.store.GetOrCreateProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("resolve project %q: %w", projectID, err)
	}
	name := domain.CollectionName(project.ProjectID)
	slog.Info("resetting vector collection", "project_id", projectID, "collection", name)
	return s.vectorDB.DeleteCollection(ctx, name)
}
