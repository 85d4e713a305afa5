package sharestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// FileStore keeps share-set documents as files under a base directory.
type FileStore struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileStore creates a file-backed store rooted at baseDir, creating the
// directory if needed.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileStore{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// FetchSet reads the named document. Returns ErrSetNotFound if no file
// exists for the name.
func (s *FileStore) FetchSet(ctx context.Context, name interfaces.SetName) ([]byte, error) {
	path := s.setPath(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrSetNotFound
		}
		return nil, fmt.Errorf("failed to read share set file: %w", err)
	}

	s.log.Debug("Fetched share set from file",
		slog.String("path", path),
		slog.Int("size", len(data)))

	return data, nil
}

// StoreSet writes the named document, replacing any previous version.
func (s *FileStore) StoreSet(ctx context.Context, name interfaces.SetName, data []byte) error {
	path := s.setPath(name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write share set file: %w", err)
	}

	s.log.Debug("Stored share set in file",
		slog.String("path", path),
		slog.Int("size", len(data)))

	return nil
}

// Available checks that the base directory still exists.
func (s *FileStore) Available(ctx context.Context) bool {
	_, err := os.Stat(s.baseDir)
	if err != nil {
		s.log.Debug("File store unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this store.
func (s *FileStore) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(s.baseDir))
}

// LocationURI returns the URI this store was created from.
func (s *FileStore) LocationURI() string {
	return s.locationURI
}

func (s *FileStore) setPath(name interfaces.SetName) string {
	return filepath.Join(s.baseDir, name.String()+".json")
}
