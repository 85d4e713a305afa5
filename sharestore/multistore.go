package sharestore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// MultiStore aggregates several share stores behind one interface, fetching
// from the first backend that has the document and storing to all available
// backends.
type MultiStore struct {
	stores []interfaces.ShareStore
	log    *slog.Logger
}

// NewMultiStore creates a multi-store over the given backends.
func NewMultiStore(stores []interfaces.ShareStore, log *slog.Logger) *MultiStore {
	if log == nil {
		log = slog.Default()
	}
	return &MultiStore{stores: stores, log: log}
}

// FetchSet tries each backend in order and returns the first hit.
// Returns ErrSetNotFound only when every available backend misses.
func (m *MultiStore) FetchSet(ctx context.Context, name interfaces.SetName) ([]byte, error) {
	start := time.Now()
	var errs []error

	for _, store := range m.stores {
		if !store.Available(ctx) {
			m.log.Debug("Share store unavailable",
				slog.String("store", store.Name()),
				slog.String("set", name.String()))
			continue
		}

		data, err := store.FetchSet(ctx, name)
		if err == nil {
			m.log.Info("Fetched share set",
				slog.String("store", store.Name()),
				slog.String("set", name.String()),
				slog.Duration("duration", time.Since(start)))
			return data, nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
		m.log.Debug("Failed to fetch share set from store",
			slog.String("store", store.Name()),
			slog.String("set", name.String()),
			"err", err)
	}

	m.log.Error("All share stores failed to fetch set",
		slog.String("set", name.String()),
		slog.Int("failed_stores", len(errs)),
		slog.Duration("duration", time.Since(start)))

	return nil, fmt.Errorf("%w: %s (%v)", interfaces.ErrSetNotFound, name, errs)
}

// StoreSet writes to every available backend; it succeeds if at least one
// backend accepted the document.
func (m *MultiStore) StoreSet(ctx context.Context, name interfaces.SetName, data []byte) error {
	start := time.Now()
	var success bool
	var errs []error

	for _, store := range m.stores {
		if !store.Available(ctx) {
			m.log.Debug("Share store unavailable", slog.String("store", store.Name()))
			continue
		}

		if err := store.StoreSet(ctx, name, data); err == nil {
			success = true
			m.log.Info("Stored share set",
				slog.String("store", store.Name()),
				slog.String("set", name.String()),
				slog.Duration("duration", time.Since(start)))
		} else {
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
			m.log.Debug("Failed to store share set",
				slog.String("store", store.Name()),
				slog.String("set", name.String()),
				"err", err)
		}
	}

	if !success {
		m.log.Error("All share stores failed to store set",
			slog.String("set", name.String()),
			slog.Int("failed_stores", len(errs)),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("all share stores failed to store %s: %v", name, errs)
	}

	return nil
}

// Available reports whether any backend is reachable.
func (m *MultiStore) Available(ctx context.Context) bool {
	for _, store := range m.stores {
		if store.Available(ctx) {
			return true
		}
	}
	return false
}

// Name returns the name of this store.
func (m *MultiStore) Name() string {
	return "multi-store"
}

// LocationURI returns the combined URI of all backends.
func (m *MultiStore) LocationURI() string {
	var locations []string
	for _, store := range m.stores {
		locations = append(locations, store.LocationURI())
	}
	return "multi:[" + strings.Join(locations, ",") + "]"
}
