package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

// ProcessService turns uploaded files into persisted, ordered chunks ready
// for indexing.
type ProcessService struct {
	store     port.DataStore
	basePath  string
	batchSize int
}

// NewProcessService creates a processing service reading uploads from
// basePath.
func NewProcessService(store port.DataStore, basePath string, batchSize int) *ProcessService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ProcessService{store: store, basePath: basePath, batchSize: batchSize}
}

// ProcessAsset reads an uploaded file, splits it into overlapping chunks and
// persists them with monotonically increasing order numbers. With reset, all
// of the project's existing chunks are deleted first. Returns the number of
// chunks written.
func (s *ProcessService) ProcessAsset(ctx context.Context, projectID, fileID string, chunkSize, overlapSize int, reset bool) (int, error) {
	project, err := s.store.GetOrCreateProject(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("resolve project %q: %w", projectID, err)
	}

	asset, err := s.store.GetAsset(ctx, project.ID, fileID)
	if err != nil {
		return 0, err
	}

	content, err := os.ReadFile(filepath.Join(s.basePath, project.ProjectID, fileID))
	if err != nil {
		return 0, fmt.Errorf("read asset %q: %w", fileID, err)
	}

	pieces := SplitText(string(content), chunkSize, overlapSize)
	if len(pieces) == 0 {
		slog.Warn("no content to chunk", "project_id", projectID, "file_id", fileID)
		return 0, nil
	}

	if reset {
		deleted, err := s.store.DeleteChunksByProject(ctx, project.ID)
		if err != nil {
			return 0, fmt.Errorf("delete existing chunks: %w", err)
		}
		slog.Info("deleted existing chunks", "project_id", projectID, "count", deleted)
	}

	maxOrder, err := s.store.MaxChunkOrder(ctx, project.ID)
	if err != nil {
		return 0, err
	}

	chunks := make([]domain.Chunk, len(pieces))
	for i, text := range pieces {
		chunks[i] = domain.Chunk{
			ProjectID: project.ID,
			AssetID:   asset.ID,
			Order:     maxOrder + i + 1,
			Text:      text,
			Metadata: map[string]any{
				"source":      fileID,
				"chunk_index": i,
			},
		}
	}

	inserted, err := s.store.InsertChunks(ctx, chunks, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("persist chunks: %w", err)
	}
	slog.Info("processed asset", "project_id", projectID, "file_id", fileID, "chunks", inserted)
	return inserted, nil
}

// SplitText splits content into chunks of roughly chunkSize words, carrying
// overlapSize words of context between consecutive chunks.
func SplitText(content string, chunkSize, overlapSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	if overlapSize < 0 || overlapSize >= chunkSize {
		overlapSize = 0
	}

	words := strings.Fields(content)
	if len(words) == 0 {
		return nil
	}

	step := chunkSize - overlapSize
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
