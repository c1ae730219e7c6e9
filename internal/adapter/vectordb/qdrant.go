package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

// QdrantDB is a REST client to a Qdrant server implementing port.VectorDB.
type QdrantDB struct {
	url      string
	apiKey   string
	distance string
	client   *http.Client
}

// QdrantConfig holds connection details for a Qdrant server.
type QdrantConfig struct {
	URL      string
	APIKey   string
	Distance string // cosine | dot
	Timeout  time.Duration
}

// NewQdrantDB creates a Qdrant-backed vector store.
func NewQdrantDB(cfg QdrantConfig) *QdrantDB {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	distance := "Cosine"
	if cfg.Distance == "dot" {
		distance = "Dot"
	}
	return &QdrantDB{
		url:      cfg.URL,
		apiKey:   cfg.APIKey,
		distance: distance,
		client:   &http.Client{Timeout: timeout},
	}
}

// Connect verifies the server is reachable.
func (q *QdrantDB) Connect(ctx context.Context) error {
	_, err := q.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("connect qdrant: %w", err)
	}
	return nil
}

func (q *QdrantDB) Disconnect() error {
	q.client.CloseIdleConnections()
	return nil
}

func (q *QdrantDB) CollectionExists(ctx context.Context, name string) (bool, error) {
	status, _, err := q.do(ctx, http.MethodGet, "/collections/"+name, nil)
	if err != nil {
		return false, err
	}
	if status == http.StatusNotFound {
		return false, nil
	}
	if status >= 300 {
		return false, fmt.Errorf("qdrant collection check %q: status %d", name, status)
	}
	return true, nil
}

func (q *QdrantDB) ListCollections(ctx context.Context) ([]string, error) {
	var resp struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := q.doJSON(ctx, http.MethodGet, "/collections", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Result.Collections))
	for _, c := range resp.Result.Collections {
		names = append(names, c.Name)
	}
	return names, nil
}

func (q *QdrantDB) CollectionInfo(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	status, body, err := q.do(ctx, http.MethodGet, "/collections/"+name, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, port.ErrCollectionNotFound
	}
	if status >= 300 {
		return nil, fmt.Errorf("qdrant collection info %q: status %d", name, status)
	}

	var resp struct {
		Result struct {
			Status      string `json:"status"`
			PointsCount int64  `json:"points_count"`
			Config      struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode collection info: %w", err)
	}
	return &domain.CollectionInfo{
		Name:        name,
		VectorSize:  resp.Result.Config.Params.Vectors.Size,
		PointsCount: resp.Result.PointsCount,
		Status:      resp.Result.Status,
	}, nil
}

func (q *QdrantDB) DeleteCollection(ctx context.Context, name string) error {
	status, _, err := q.do(ctx, http.MethodDelete, "/collections/"+name, nil)
	if err != nil {
		return err
	}
	// 404 means there was nothing to delete
	if status >= 300 && status != http.StatusNotFound {
		return fmt.Errorf("qdrant delete collection %q: status %d", name, status)
	}
	return nil
}

func (q *QdrantDB) CreateCollection(ctx context.Context, name string, embeddingSize int, reset bool) (bool, error) {
	if reset {
		if err := q.DeleteCollection(ctx, name); err != nil {
			return false, err
		}
	}
	exists, err := q.CollectionExists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		slog.Info("collection already exists, skipping creation", "collection", name)
		return false, nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     embeddingSize,
			"distance": q.distance,
		},
	}
	if err := q.doJSON(ctx, http.MethodPut, "/collections/"+name, body, nil); err != nil {
		return false, fmt.Errorf("qdrant create collection %q: %w", name, err)
	}
	slog.Info("created vector collection", "collection", name, "embedding_size", embeddingSize)
	return true, nil
}

func (q *QdrantDB) InsertOne(ctx context.Context, name, text string, vector []float32, metadata map[string]any, recordID string) error {
	return q.InsertMany(ctx, name, []string{text}, [][]float32{vector}, []map[string]any{metadata}, []string{recordID}, 1)
}

func (q *QdrantDB) InsertMany(ctx context.Context, name string, texts []string, vectors [][]float32, metadata []map[string]any, recordIDs []string, batchSize int) error {
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
	if batchSize <= 0 {
		batchSize = 50
	}

	exists, err := q.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return port.ErrCollectionNotFound
	}

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		points := make([]map[string]any, 0, end-start)
		for i := start; i < end; i++ {
			points = append(points, map[string]any{
				"id":     pointID(recordIDs[i]),
				"vector": vectors[i],
				"payload": map[string]any{
					"text":     texts[i],
					"metadata": metadata[i],
				},
			})
		}
		if err := q.doJSON(ctx, http.MethodPut, "/collections/"+name+"/points?wait=true", map[string]any{"points": points}, nil); err != nil {
			return fmt.Errorf("qdrant insert batch %d into %q: %w", start/batchSize+1, name, err)
		}
		slog.Info("inserted vector batch", "collection", name, "batch", start/batchSize+1, "records", end-start)
	}
	return nil
}

func (q *QdrantDB) SearchByVector(ctx context.Context, name string, vector []float32, limit int) ([]domain.RetrievedDocument, error) {
	if limit <= 0 {
		limit = 5
	}
	exists, err := q.CollectionExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := q.doJSON(ctx, http.MethodPost, "/collections/"+name+"/points/search", req, &resp); err != nil {
		return nil, fmt.Errorf("qdrant search %q: %w", name, err)
	}
	results := make([]domain.RetrievedDocument, 0, len(resp.Result))
	for _, r := range resp.Result {
		text, _ := r.Payload["text"].(string)
		results = append(results, domain.RetrievedDocument{Text: text, Score: r.Score})
	}
	return results, nil
}

// pointID maps a record identifier to a Qdrant point ID. Qdrant only accepts
// unsigned integers or UUID strings, so numeric identifiers are sent as
// numbers and everything else is passed through as a string.
func pointID(recordID string) any {
	if n, err := strconv.ParseUint(recordID, 10, 64); err == nil {
		return n
	}
	return recordID
}

func (q *QdrantDB) doJSON(ctx context.Context, method, path string, body any, out any) error {
	status, data, err := q.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("qdrant %s %s: status %d: %s", method, path, status, string(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode qdrant response: %w", err)
		}
	}
	return nil
}

func (q *QdrantDB) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, q.url+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
	resp, err := q.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}
