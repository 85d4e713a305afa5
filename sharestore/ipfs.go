package sharestore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// IPFSStore reads share-set documents from an IPFS directory object. The
// directory CID pins the full set of documents, so a store location doubles
// as an integrity commitment to the share material it serves.
//
// The store is read-only: publishing a new document means adding a new
// directory and distributing its CID.
type IPFSStore struct {
	shell       *shell.Shell
	dirCID      string
	log         *slog.Logger
	locationURI string
}

// NewIPFSStore creates a read-only IPFS store that resolves documents as
// <dirCID>/<name>.json through the node's API at apiAddr (host:port).
func NewIPFSStore(apiAddr, dirCID string, log *slog.Logger) (*IPFSStore, error) {
	if dirCID == "" {
		return nil, fmt.Errorf("ipfs store requires a directory CID")
	}

	return &IPFSStore{
		shell:       shell.NewShell(apiAddr),
		dirCID:      dirCID,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s/%s", apiAddr, dirCID),
	}, nil
}

// FetchSet retrieves the named document from the pinned directory.
// Returns ErrSetNotFound when the directory has no entry for the name and
// ErrStoreUnavailable when the IPFS node cannot be reached.
func (s *IPFSStore) FetchSet(ctx context.Context, name interfaces.SetName) ([]byte, error) {
	start := time.Now()
	path := fmt.Sprintf("%s/%s.json", s.dirCID, name)

	if !s.shell.IsUp() {
		s.log.Warn("IPFS node unavailable", slog.String("uri", s.locationURI))
		return nil, interfaces.ErrStoreUnavailable
	}

	reader, err := s.shell.Cat(path)
	if err != nil {
		if strings.Contains(err.Error(), "no link named") {
			s.log.Debug("Share set not found in IPFS",
				slog.String("path", path),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrSetNotFound
		}
		return nil, fmt.Errorf("failed to fetch share set from IPFS: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read share set from IPFS: %w", err)
	}

	s.log.Debug("Fetched share set from IPFS",
		slog.String("path", path),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return data, nil
}

// StoreSet is not implemented for this read-only store.
func (s *IPFSStore) StoreSet(ctx context.Context, name interfaces.SetName, data []byte) error {
	return fmt.Errorf("IPFS store is read-only")
}

// Available checks whether the IPFS node answers.
func (s *IPFSStore) Available(ctx context.Context) bool {
	return s.shell.IsUp()
}

// Name returns a unique identifier for this store.
func (s *IPFSStore) Name() string {
	return fmt.Sprintf("ipfs-%s", s.dirCID)
}

// LocationURI returns the URI this store was created from.
func (s *IPFSStore) LocationURI() string {
	return s.locationURI
}
