package health

import "context"

// CatalogChecker verifies the catalog snapshot is loadable.
type CatalogChecker interface {
	HealthCheck(ctx context.Context) error
}

// ProviderChecker checks an external model provider's availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks the embedding cache backend.
type CachePinger interface {
	Ping(ctx context.Context) error
}
