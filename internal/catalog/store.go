package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/homegrid/intentd/internal/domain"
)

// Store holds the immutable in-memory catalog. The snapshot is loaded on
// first use and shared by all callers; after load it is read-only and safe
// for unbounded concurrent readers.
type Store struct {
	source Source
	logger *zap.Logger

	once    sync.Once
	entries []domain.CatalogEntry
	version string
	loadErr error
}

// NewStore creates a catalog store over the given snapshot source.
func NewStore(source Source, logger *zap.Logger) *Store {
	return &Store{source: source, logger: logger}
}

// Load returns the catalog entries, reading the snapshot exactly once.
// Concurrent first callers share a single load; a failed load is sticky and
// the process cannot serve resolution requests.
func (s *Store) Load(ctx context.Context) ([]domain.CatalogEntry, error) {
	s.once.Do(func() {
		data, err := s.source.Read(ctx)
		if err != nil {
			s.loadErr = fmt.Errorf("%w: %w", domain.ErrCatalogInvalid, err)
			return
		}

		entries, version, err := parseSnapshot(data)
		if err != nil {
			s.loadErr = err
			return
		}

		s.entries = entries
		s.version = version
		s.logger.Info("Catalog snapshot loaded",
			zap.String("version", version),
			zap.Int("entries", len(entries)),
			zap.Int("dimensions", len(entries[0].Embedding)),
		)
	})
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.entries, nil
}

// Version returns the loaded snapshot version, empty before a successful load.
func (s *Store) Version() string {
	return s.version
}

// HealthCheck reports whether the catalog is loadable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if _, err := s.Load(ctx); err != nil {
		return fmt.Errorf("catalog health check: %w", err)
	}
	return nil
}
