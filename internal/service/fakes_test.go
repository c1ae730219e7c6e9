package service

import (
	"context"
	"strings"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

// fakeStore is an in-memory port.DataStore.
type fakeStore struct {
	chunks      []domain.Chunk
	assets      map[string]*domain.Asset
	pageFetches int
}

func newFakeStore(chunks ...domain.Chunk) *fakeStore {
	return &fakeStore{chunks: chunks, assets: map[string]*domain.Asset{}}
}

func (f *fakeStore) GetOrCreateProject(ctx context.Context, projectID string) (*domain.Project, error) {
	if projectID == "" {
		return nil, port.ErrInvalidProjectID
	}
	return &domain.Project{ID: "internal-" + projectID, ProjectID: projectID}, nil
}

func (f *fakeStore) ListProjects(ctx context.Context, page, pageSize int) ([]domain.Project, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) CreateAsset(ctx context.Context, a *domain.Asset) (*domain.Asset, error) {
	asset := *a
	asset.ID = "asset-" + a.Name
	f.assets[a.ProjectID+"/"+a.Name] = &asset
	return &asset, nil
}

func (f *fakeStore) GetAsset(ctx context.Context, projectID, assetName string) (*domain.Asset, error) {
	if a, ok := f.assets[projectID+"/"+assetName]; ok {
		return a, nil
	}
	return nil, port.ErrAssetNotFound
}

func (f *fakeStore) InsertChunks(ctx context.Context, chunks []domain.Chunk, batchSize int) (int, error) {
	f.chunks = append(f.chunks, chunks...)
	return len(chunks), nil
}

func (f *fakeStore) GetChunksPage(ctx context.Context, projectID string, pageNo, pageSize int) ([]domain.Chunk, error) {
	f.pageFetches++
	start := (pageNo - 1) * pageSize
	if start >= len(f.chunks) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(f.chunks) {
		end = len(f.chunks)
	}
	return f.chunks[start:end], nil
}

func (f *fakeStore) MaxChunkOrder(ctx context.Context, projectID string) (int, error) {
	max := 0
	for _, c := range f.chunks {
		if c.Order > max {
			max = c.Order
		}
	}
	return max, nil
}

func (f *fakeStore) DeleteChunksByProject(ctx context.Context, projectID string) (int64, error) {
	n := int64(len(f.chunks))
	f.chunks = nil
	return n, nil
}

// fakeLLM is a deterministic port.LLMProvider.
type fakeLLM struct {
	embeddingSize int
	embedErr      error
	embedCalls    int
	generateText  string
	generateErr   error
	generateCalls int
	maxInputChars int
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{embeddingSize: 3, generateText: "generated answer", maxInputChars: 1024}
}

func (f *fakeLLM) SetGenerationModel(modelID string)          {}
func (f *fakeLLM) SetEmbeddingModel(modelID string, size int) { f.embeddingSize = size }
func (f *fakeLLM) EmbeddingSize() int                         { return f.embeddingSize }

func (f *fakeLLM) ProcessText(text string) string {
	if runes := []rune(text); len(runes) > f.maxInputChars {
		text = string(runes[:f.maxInputChars])
	}
	return strings.TrimSpace(text)
}

func (f *fakeLLM) EmbedText(ctx context.Context, text string, documentType port.DocumentType) ([]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	vector := make([]float32, f.embeddingSize)
	for i := range vector {
		vector[i] = float32(len(text)%7+i) + 0.5
	}
	return vector, nil
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string, chatHistory []domain.ChatMessage, maxOutputTokens int, temperature float64) (string, error) {
	f.generateCalls++
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.generateText, nil
}

func (f *fakeLLM) ConstructPrompt(text, role string) domain.ChatMessage {
	return domain.ChatMessage{Role: role, Content: f.ProcessText(text)}
}

// recordingDB wraps a port.VectorDB and records create/insert calls.
type recordingDB struct {
	port.VectorDB
	createResets []bool
	insertedIDs  [][]string
}

func newRecordingDB(inner port.VectorDB) *recordingDB {
	return &recordingDB{VectorDB: inner}
}

func (r *recordingDB) CreateCollection(ctx context.Context, name string, embeddingSize int, reset bool) (bool, error) {
	r.createResets = append(r.createResets, reset)
	return r.VectorDB.CreateCollection(ctx, name, embeddingSize, reset)
}

func (r *recordingDB) InsertMany(ctx context.Context, name string, texts []string, vectors [][]float32, metadata []map[string]any, recordIDs []string, batchSize int) error {
	ids := make([]string, len(recordIDs))
	copy(ids, recordIDs)
	r.insertedIDs = append(r.insertedIDs, ids)
	return r.VectorDB.InsertMany(ctx, name, texts, vectors, metadata, recordIDs, batchSize)
}
