package domain

import "errors"

var (
	// ErrInvalidInput signals an empty or unusable query input. Callers can
	// fix the request; retrying as-is will not help.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCatalogInvalid signals a missing, empty, or inconsistent catalog snapshot.
	ErrCatalogInvalid = errors.New("invalid catalog snapshot")
	// ErrEmbeddingProviderError signals an embedding provider failure (retriable).
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generation provider failure (retriable).
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)
