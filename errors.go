package intentd

import "github.com/homegrid/intentd/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput            = domain.ErrInvalidInput
	ErrCatalogInvalid          = domain.ErrCatalogInvalid
	ErrEmbeddingProviderError  = domain.ErrEmbeddingProviderError
	ErrGenerationProviderError = domain.ErrGenerationProviderError
	ErrRateLimited             = domain.ErrRateLimited
)
