package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/homegrid/intentd/internal/domain"
)

// snapshot is the on-disk shape of a catalog snapshot. Snapshots are written
// by an offline batch process and replaced wholesale on redeploy.
type snapshot struct {
	Version    string          `json:"version"`
	Model      string          `json:"model"`
	Dimensions int             `json:"dimensions"`
	Entries    []snapshotEntry `json:"entries"`
}

type snapshotEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Embedding []float32 `json:"embedding"`
}

// parseSnapshot decodes and validates a snapshot. Every embedding must have
// the declared dimensionality and every id must be unique and non-empty;
// violations are load-time errors, never tolerated silently.
func parseSnapshot(data []byte) ([]domain.CatalogEntry, string, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, "", fmt.Errorf("%w: parse: %w", domain.ErrCatalogInvalid, err)
	}

	if len(snap.Entries) == 0 {
		return nil, "", fmt.Errorf("%w: snapshot has no entries", domain.ErrCatalogInvalid)
	}

	dims := snap.Dimensions
	if dims <= 0 {
		dims = len(snap.Entries[0].Embedding)
	}

	entries := make([]domain.CatalogEntry, 0, len(snap.Entries))
	seen := make(map[string]struct{}, len(snap.Entries))
	for i, e := range snap.Entries {
		if e.ID == "" {
			return nil, "", fmt.Errorf("%w: entry %d has empty id", domain.ErrCatalogInvalid, i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, "", fmt.Errorf("%w: duplicate id %q", domain.ErrCatalogInvalid, e.ID)
		}
		seen[e.ID] = struct{}{}
		if len(e.Embedding) != dims {
			return nil, "", fmt.Errorf(
				"%w: entry %q embedding length %d, want %d",
				domain.ErrCatalogInvalid, e.ID, len(e.Embedding), dims,
			)
		}
		entries = append(entries, domain.CatalogEntry{
			ID:        e.ID,
			Title:     e.Title,
			Embedding: e.Embedding,
		})
	}

	return entries, snap.Version, nil
}
