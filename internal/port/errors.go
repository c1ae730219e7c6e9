package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrInvalidProjectID      = errors.New("invalid project identifier")
	ErrProjectNotFound       = errors.New("project not found")
	ErrAssetNotFound         = errors.New("asset not found")
	ErrCollectionNotFound    = errors.New("vector collection not found")
	ErrLengthMismatch        = errors.New("texts, vectors, metadata and record ids must have the same length")
	ErrModelNotSet           = errors.New("model is not configured")
	ErrNoEmbedding           = errors.New("provider returned no embedding")
	ErrEmbeddingSizeMismatch = errors.New("embedding size mismatch")
	ErrNoContent             = errors.New("provider returned no content")
	ErrTemplateNotFound      = errors.New("template not found")
)
