package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Upload validation failures, caller-fixable.
var (
	ErrFileTypeNotSupported = errors.New("file type not supported")
	ErrFileSizeExceeded     = errors.New("file size exceeds the configured limit")
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// DataService validates uploads and assigns them unique on-disk paths under
// the project directory.
type DataService struct {
	basePath     string
	maxSizeBytes int64
	allowedTypes []string
}

// NewDataService creates an upload service. maxSizeMB bounds accepted file
// sizes; allowedTypes lists accepted MIME types.
func NewDataService(basePath string, maxSizeMB int64, allowedTypes []string) *DataService {
	return &DataService{
		basePath:     basePath,
		maxSizeBytes: maxSizeMB * 1024 * 1024,
		allowedTypes: allowedTypes,
	}
}

// ValidateFile checks an upload's MIME type and size against the configured
// limits.
func (s *DataService) ValidateFile(contentType string, size int64) error {
	allowed := false
	for _, t := range s.allowedTypes {
		if strings.EqualFold(t, contentType) {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrFileTypeNotSupported, contentType)
	}
	if size > s.maxSizeBytes {
		return fmt.Errorf("%w: %d bytes", ErrFileSizeExceeded, size)
	}
	return nil
}

// GenerateUniqueFilepath returns a free on-disk path for the upload plus the
// file identifier (the final file name), creating the project directory as
// needed. The original name is sanitized and prefixed with a random key.
func (s *DataService) GenerateUniqueFilepath(origFileName, projectID string) (string, string, error) {
	projectDir := filepath.Join(s.basePath, projectID)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create project directory: %w", err)
	}

	cleaned := CleanFileName(origFileName)
	for {
		fileID := randomKey(12) + "_" + cleaned
		path := filepath.Join(projectDir, fileID)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, fileID, nil
		}
	}
}

// ProjectPath returns the on-disk directory holding a project's uploads.
func (s *DataService) ProjectPath(projectID string) string {
	return filepath.Join(s.basePath, projectID)
}

// CleanFileName strips characters unsafe for file names.
func CleanFileName(name string) string {
	return unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
}

func randomKey(length int) string {
	key := strings.ReplaceAll(uuid.NewString(), "-", "")
	if length < len(key) {
		key = key[:length]
	}
	return key
}
