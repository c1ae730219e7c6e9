package domain

import (
	"strings"
	"time"
)

// Project groups uploaded assets and their chunks under one external identifier.
type Project struct {
	ID        string    `json:"id"         db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Asset is a single uploaded file registered under a project.
type Asset struct {
	ID        string    `json:"id"         db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Type      string    `json:"type"       db:"asset_type"`
	Name      string    `json:"name"       db:"asset_name"`
	Size      int64     `json:"size"       db:"asset_size"`
	PushedAt  time.Time `json:"pushed_at"  db:"pushed_at"`
}

// CollectionName derives the vector collection name for a project.
// It is a pure function of the project identifier: distinct identifiers
// map to distinct collections, and repeated calls always agree.
func CollectionName(projectID string) string {
	return strings.TrimSpace("collection_" + strings.TrimSpace(projectID))
}
