package vectordb

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

// MemoryDB is an in-memory vector store using brute-force cosine similarity.
// It backs local development and tests; it implements the same port as the
// Qdrant adapter, including treating record IDs as keys (re-inserting an ID
// overwrites the earlier record).
type MemoryDB struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	size    int
	order   []string
	records map[string]memRecord
}

type memRecord struct {
	text     string
	vector   []float32
	metadata map[string]any
}

// NewMemoryDB creates an empty in-memory vector store.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{collections: map[string]*memCollection{}}
}

func (m *MemoryDB) Connect(ctx context.Context) error { return nil }

func (m *MemoryDB) Disconnect() error { return nil }

func (m *MemoryDB) CollectionExists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.collections[name]
	return ok, nil
}

func (m *MemoryDB) ListCollections(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryDB) CollectionInfo(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	col, ok := m.collections[name]
	if !ok {
		return nil, port.ErrCollectionNotFound
	}
	return &domain.CollectionInfo{
		Name:        name,
		VectorSize:  col.size,
		PointsCount: int64(len(col.records)),
		Status:      "green",
	}, nil
}

func (m *MemoryDB) DeleteCollection(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, name)
	return nil
}

func (m *MemoryDB) CreateCollection(ctx context.Context, name string, embeddingSize int, reset bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reset {
		delete(m.collections, name)
	}
	if _, ok := m.collections[name]; ok {
		return false, nil
	}
	m.collections[name] = &memCollection{size: embeddingSize, records: map[string]memRecord{}}
	return true, nil
}

func (m *MemoryDB) InsertOne(ctx context.Context, name, text string, vector []float32, metadata map[string]any, recordID string) error {
	return m.InsertMany(ctx, name, []string{text}, [][]float32{vector}, []map[string]any{metadata}, []string{recordID}, 1)
}

func (m *MemoryDB) InsertMany(ctx context.Context, name string, texts []string, vectors [][]float32, metadata []map[string]any, recordIDs []string, batchSize int) error {
	if len(texts) != len(vectors) {
		return port.ErrLengthMismatch
	}
	if metadata == nil {
		metadata = make([]map[string]any, len(texts))
	}
	if recordIDs == nil {
		recordIDs = make([]string, len(texts))
		for i := range recordIDs {
			recordIDs[i] = strconv.Itoa(i)
		}
	}
	if len(metadata) != len(texts) || len(recordIDs) != len(texts) {
		return port.ErrLengthMismatch
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.collections[name]
	if !ok {
		return port.ErrCollectionNotFound
	}
	for i := range texts {
		id := recordIDs[i]
		if _, exists := col.records[id]; !exists {
			col.order = append(col.order, id)
		} else {
			slog.Warn("overwriting vector record", "collection", name, "record_id", id)
		}
		col.records[id] = memRecord{text: texts[i], vector: vectors[i], metadata: metadata[i]}
	}
	return nil
}

func (m *MemoryDB) SearchByVector(ctx context.Context, name string, vector []float32, limit int) ([]domain.RetrievedDocument, error) {
	if limit <= 0 {
		limit = 5
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	col, ok := m.collections[name]
	if !ok {
		return nil, nil
	}

	type scored struct {
		text  string
		score float64
	}
	hits := make([]scored, 0, len(col.records))
	for _, id := range col.order {
		rec := col.records[id]
		hits = append(hits, scored{text: rec.text, score: cosine(vector, rec.vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if limit > len(hits) {
		limit = len(hits)
	}
	results := make([]domain.RetrievedDocument, 0, limit)
	for _, h := range hits[:limit] {
		results = append(results, domain.RetrievedDocument{Text: h.text, Score: h.score})
	}
	return results, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
