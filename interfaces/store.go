package interfaces

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Share store error kinds.
var (
	// ErrSetNotFound indicates the requested share set does not exist in the
	// backend.
	ErrSetNotFound = errors.New("share set not found")

	// ErrStoreUnavailable indicates the backend could not be reached.
	ErrStoreUnavailable = errors.New("share store unavailable")

	// ErrInvalidSetName indicates a set name that does not match SetName
	// constraints.
	ErrInvalidSetName = errors.New("invalid share set name")

	// ErrInvalidStoreURI indicates a store location URI that could not be
	// parsed or uses an unsupported scheme.
	ErrInvalidStoreURI = errors.New("invalid share store URI")
)

var setNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// SetName identifies a share-set document within a store. Names are
// restricted to a filesystem- and object-key-safe alphabet so the same name
// is valid across all backends.
type SetName string

// NewSetName validates a raw name.
func NewSetName(raw string) (SetName, error) {
	if !setNameRe.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSetName, raw)
	}
	return SetName(raw), nil
}

// String returns the raw name.
func (n SetName) String() string {
	return string(n)
}

// ShareStore provides access to share-set documents kept in a storage
// backend. Documents are opaque bytes at this layer; decoding them into a
// ShareSet is the share parser's concern.
type ShareStore interface {
	// FetchSet retrieves the named document. Returns ErrSetNotFound if the
	// backend has no document under that name.
	FetchSet(ctx context.Context, name SetName) ([]byte, error)

	// StoreSet saves the named document, overwriting any previous version.
	StoreSet(ctx context.Context, name SetName, data []byte) error

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool

	// Name returns a short identifier for logging.
	Name() string

	// LocationURI returns the URI this backend was created from.
	LocationURI() string
}

// ShareStoreFactory creates share stores from location URIs.
type ShareStoreFactory interface {
	// StoreFor creates a single backend from a URI such as
	// file:///var/lib/recovery or s3://bucket/prefix?region=us-east-1.
	StoreFor(locationURI string) (ShareStore, error)

	// CreateMultiStore aggregates several backends behind one ShareStore
	// with first-hit fetch and store-to-all semantics.
	CreateMultiStore(locationURIs []string) (ShareStore, error)
}
