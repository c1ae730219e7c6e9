package port

import (
	"context"

	"github.com/doclens/doclens/internal/domain"
)

// DataStore is the persistent storage collaborator for projects, assets and
// chunks. The indexing pipeline only reads chunk pages from it; writes happen
// on the upload/process path.
type DataStore interface {
	// GetOrCreateProject returns the project with the given external
	// identifier, creating it on first reference.
	GetOrCreateProject(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects returns one page of projects and the total page count.
	ListProjects(ctx context.Context, page, pageSize int) ([]domain.Project, int, error)

	// CreateAsset registers an uploaded file under a project.
	CreateAsset(ctx context.Context, a *domain.Asset) (*domain.Asset, error)

	// GetAsset returns an asset by project and asset name.
	GetAsset(ctx context.Context, projectID, assetName string) (*domain.Asset, error)

	// InsertChunks persists chunks in batches and returns how many were
	// written.
	InsertChunks(ctx context.Context, chunks []domain.Chunk, batchSize int) (int, error)

	// GetChunksPage returns one page of a project's chunks ordered by chunk
	// order number. An empty page signals the end of pagination.
	GetChunksPage(ctx context.Context, projectID string, pageNo, pageSize int) ([]domain.Chunk, error)

	// MaxChunkOrder returns the highest chunk order number assigned in a
	// project, or zero when the project has no chunks.
	MaxChunkOrder(ctx context.Context, projectID string) (int, error)

	// DeleteChunksByProject removes all persisted chunks of a project and
	// returns the deleted count.
	DeleteChunksByProject(ctx context.Context, projectID string) (int64, error)
}
