package sharestore

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// StoreFactory creates share stores from URI strings and aggregates them
// into multi-backend configurations. It implements
// interfaces.ShareStoreFactory.
type StoreFactory struct {
	log *slog.Logger
}

// NewStoreFactory creates a factory instance.
func NewStoreFactory(log *slog.Logger) *StoreFactory {
	return &StoreFactory{log: log}
}

// StoreFor creates a share store from a location URI.
//
// Supported schemes:
//   - file:// — local filesystem directory
//   - s3:// — Amazon S3 or compatible object storage
//   - vault:// — HashiCorp Vault KV v2
//   - ipfs:// — read-only IPFS directory
//
// Returns an error wrapping ErrInvalidStoreURI for unparseable URIs or
// unsupported schemes.
func (f *StoreFactory) StoreFor(locationURI string) (interfaces.ShareStore, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidStoreURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return f.createFileStore(u)
	case "s3":
		return f.createS3Store(u)
	case "vault":
		return f.createVaultStore(u)
	case "ipfs":
		return f.createIPFSStore(u)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidStoreURI, u.Scheme)
	}
}

// CreateMultiStore creates a multi-store from a list of location URIs,
// skipping URIs that fail to produce a backend. Returns an error if no
// backend could be created at all.
func (f *StoreFactory) CreateMultiStore(locationURIs []string) (interfaces.ShareStore, error) {
	stores := make([]interfaces.ShareStore, 0, len(locationURIs))

	for _, uri := range locationURIs {
		store, err := f.StoreFor(uri)
		if err != nil {
			f.log.Warn("Failed to create share store",
				"err", err,
				slog.String("locationURI", uri))
			continue
		}
		stores = append(stores, store)
	}

	if len(stores) == 0 {
		return nil, fmt.Errorf("no valid share stores created")
	}

	return NewMultiStore(stores, f.log), nil
}

// createFileStore builds a filesystem store.
// URI format: file:///var/lib/recovery/sets
func (f *StoreFactory) createFileStore(u *url.URL) (interfaces.ShareStore, error) {
	f.log.Debug("Creating file store", slog.String("uri", u.String()))

	baseDir := u.Path
	if u.Host != "" {
		// Relative form file://dir/path keeps the host as first segment.
		baseDir = u.Host + u.Path
	}
	if baseDir == "" {
		return nil, fmt.Errorf("%w: file URI has no path", interfaces.ErrInvalidStoreURI)
	}

	return NewFileStore(baseDir, f.log)
}

// createS3Store builds an S3 store.
// URI format: s3://[access:secret@]bucket/prefix?region=us-east-1[&endpoint=host:port]
func (f *StoreFactory) createS3Store(u *url.URL) (interfaces.ShareStore, error) {
	f.log.Debug("Creating S3 store", slog.String("bucket", u.Host))

	if u.Host == "" {
		return nil, fmt.Errorf("%w: s3 URI has no bucket", interfaces.ErrInvalidStoreURI)
	}

	query := u.Query()
	region := query.Get("region")
	if region == "" {
		region = "us-east-1"
	}

	var accessKey, secretKey string
	if u.User != nil {
		accessKey = u.User.Username()
		secretKey, _ = u.User.Password()
	}

	return NewS3Store(u.Host, strings.TrimPrefix(u.Path, "/"), region, query.Get("endpoint"), accessKey, secretKey, f.log)
}

// createVaultStore builds a Vault store.
// URI format: vault://host:port/mount/data/path?token=...&scheme=http
func (f *StoreFactory) createVaultStore(u *url.URL) (interfaces.ShareStore, error) {
	f.log.Debug("Creating Vault store", slog.String("host", u.Host))

	if u.Host == "" {
		return nil, fmt.Errorf("%w: vault URI has no host", interfaces.ErrInvalidStoreURI)
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: vault URI path must be /mount/data-path", interfaces.ErrInvalidStoreURI)
	}

	query := u.Query()
	scheme := query.Get("scheme")
	if scheme == "" {
		scheme = "https"
	}
	address := fmt.Sprintf("%s://%s", scheme, u.Host)

	return NewVaultStore(address, parts[0], parts[1], query.Get("token"), f.log)
}

// createIPFSStore builds a read-only IPFS store.
// URI format: ipfs://host:port/<directory-cid>
func (f *StoreFactory) createIPFSStore(u *url.URL) (interfaces.ShareStore, error) {
	f.log.Debug("Creating IPFS store", slog.String("uri", u.String()))

	if u.Host == "" {
		return nil, fmt.Errorf("%w: ipfs URI has no node address", interfaces.ErrInvalidStoreURI)
	}
	dirCID := strings.Trim(u.Path, "/")
	if dirCID == "" {
		return nil, fmt.Errorf("%w: ipfs URI has no directory CID", interfaces.ErrInvalidStoreURI)
	}

	return NewIPFSStore(u.Host, dirCID, f.log)
}
