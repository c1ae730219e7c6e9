package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
)

// PostgresStore handles all relational database operations: projects, assets
// and persisted chunks.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, bootstraps the schema and returns a
// store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS assets (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		asset_type TEXT NOT NULL,
		asset_name TEXT NOT NULL,
		asset_size BIGINT NOT NULL DEFAULT 0,
		pushed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (project_id, asset_name)
	);
	CREATE TABLE IF NOT EXISTS chunks (
		id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id     UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		asset_id       UUID NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
		chunk_order    INT NOT NULL CHECK (chunk_order > 0),
		chunk_text     TEXT NOT NULL,
		chunk_metadata JSONB
	);
	CREATE INDEX IF NOT EXISTS chunks_project_order_idx ON chunks (project_id, chunk_order);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// --- Projects ---

// GetOrCreateProject returns the project with the given external identifier,
// creating it on first reference.
func (s *PostgresStore) GetOrCreateProject(ctx context.Context, projectID string) (*domain.Project, error) {
	if projectID == "" {
		return nil, port.ErrInvalidProjectID
	}

	query := `
		INSERT INTO projects (project_id) VALUES ($1)
		ON CONFLICT (project_id) DO UPDATE SET project_id = EXCLUDED.project_id
		RETURNING id, project_id, created_at`

	var p domain.Project
	err := s.db.QueryRowContext(ctx, query, projectID).Scan(&p.ID, &p.ProjectID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create project: %w", err)
	}
	return &p, nil
}

// ListProjects returns one page of projects plus the total page count.
func (s *PostgresStore) ListProjects(ctx context.Context, page, pageSize int) ([]domain.Project, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := `SELECT id, project_id, created_at FROM projects
	          ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	totalPages := (total + pageSize - 1) / pageSize
	return projects, totalPages, rows.Err()
}

// --- Assets ---

// CreateAsset registers an uploaded file under a project.
func (s *PostgresStore) CreateAsset(ctx context.Context, a *domain.Asset) (*domain.Asset, error) {
	query := `INSERT INTO assets (project_id, asset_type, asset_name, asset_size)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, project_id, asset_type, asset_name, asset_size, pushed_at`

	var asset domain.Asset
	err := s.db.QueryRowContext(ctx, query, a.ProjectID, a.Type, a.Name, a.Size).Scan(
		&asset.ID, &asset.ProjectID, &asset.Type, &asset.Name, &asset.Size, &asset.PushedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return &asset, nil
}

// GetAsset returns an asset by project and asset name.
func (s *PostgresStore) GetAsset(ctx context.Context, projectID, assetName string) (*domain.Asset, error) {
	query := `SELECT id, project_id, asset_type, asset_name, asset_size, pushed_at
	          FROM assets WHERE project_id = $1 AND asset_name = $2`

	var a domain.Asset
	err := s.db.QueryRowContext(ctx, query, projectID, assetName).Scan(
		&a.ID, &a.ProjectID, &a.Type, &a.Name, &a.Size, &a.PushedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return &a, nil
}

// --- Chunks ---

// InsertChunks persists chunks in batches inside a transaction and returns
// the number written.
func (s *PostgresStore) InsertChunks(ctx context.Context, chunks []domain.Chunk, batchSize int) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (project_id, asset_id, chunk_order, chunk_text, chunk_metadata)
		 VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		for _, c := range chunks[start:end] {
			metadata, err := json.Marshal(c.Metadata)
			if err != nil {
				return 0, fmt.Errorf("marshal chunk metadata: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, c.ProjectID, c.AssetID, c.Order, c.Text, metadata); err != nil {
				return 0, fmt.Errorf("insert chunk: %w", err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit chunks: %w", err)
	}
	return inserted, nil
}

// GetChunksPage returns one page of a project's chunks ordered by chunk
// order. An empty page signals the end of pagination.
func (s *PostgresStore) GetChunksPage(ctx context.Context, projectID string, pageNo, pageSize int) ([]domain.Chunk, error) {
	if pageNo < 1 {
		pageNo = 1
	}
	query := `SELECT id, project_id, asset_id, chunk_order, chunk_text, chunk_metadata
	          FROM chunks WHERE project_id = $1
	          ORDER BY chunk_order ASC LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, projectID, pageSize, (pageNo-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("get chunks page: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var (
			c        domain.Chunk
			metadata []byte
		)
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.AssetID, &c.Order, &c.Text, &metadata); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &c.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal chunk metadata: %w", err)
			}
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// MaxChunkOrder returns the highest chunk order assigned in a project.
func (s *PostgresStore) MaxChunkOrder(ctx context.Context, projectID string) (int, error) {
	var max int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(chunk_order), 0) FROM chunks WHERE project_id = $1`, projectID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max chunk order: %w", err)
	}
	return max, nil
}

// DeleteChunksByProject removes all chunks of a project and returns the count.
func (s *PostgresStore) DeleteChunksByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE project_id = $1`, projectID)
	if err != nil {
		return 0, fmt.Errorf("delete chunks: %w", err)
	}
	return res.RowsAffected()
}
