package resolve

import (
	"context"

	"github.com/homegrid/intentd/internal/domain"
	"github.com/homegrid/intentd/internal/usecase/extract"
)

// Catalog provides the read-only catalog entries.
type Catalog interface {
	Load(ctx context.Context) ([]domain.CatalogEntry, error)
}

// Ranker orders catalog entries by relevance to a query vector. The brute
// force implementation lives in usecase/rank; an ANN index can replace it
// behind this interface.
type Ranker interface {
	Rank(query []float32, entries []domain.CatalogEntry, k int) []domain.Candidate
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Extractor runs the whitelist-constrained extraction.
type Extractor interface {
	Extract(
		ctx context.Context, variant extract.Variant, input string, candidates []domain.Candidate,
	) (domain.ResolutionResult, error)
}

// Describer summarizes an image into query text (multimodal path).
type Describer interface {
	DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error)
}
