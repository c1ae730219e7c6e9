package domain

// Chunk is a bounded slice of an uploaded document's text, persisted with its
// positional order inside the project. Chunks are immutable once created.
type Chunk struct {
	ID        string         `json:"id"       db:"id"`
	ProjectID string         `json:"project_id" db:"project_id"`
	AssetID   string         `json:"asset_id" db:"asset_id"`
	Order     int            `json:"order"    db:"chunk_order"`
	Text      string         `json:"text"     db:"chunk_text"`
	Metadata  map[string]any `json:"metadata" db:"chunk_metadata"`
}

// RetrievedDocument is an ephemeral similarity-search hit: the stored text
// plus the relevance score reported by the vector store.
type RetrievedDocument struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// CollectionInfo is a provider-agnostic snapshot of a vector collection.
type CollectionInfo struct {
	Name        string `json:"name"`
	VectorSize  int    `json:"vector_size"`
	PointsCount int64  `json:"points_count"`
	Status      string `json:"status"`
}
