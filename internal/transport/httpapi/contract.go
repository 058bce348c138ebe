package httpapi

import (
	"context"

	"github.com/homegrid/intentd/internal/domain"
	healthuc "github.com/homegrid/intentd/internal/usecase/health"
)

// Resolver runs intent resolution for the three entry points.
type Resolver interface {
	ResolveFromText(ctx context.Context, text string) (domain.ResolutionResult, error)
	ResolveFromImage(ctx context.Context, image []byte, mimeType string) (domain.ResolutionResult, error)
	ResolveFromDocumentText(ctx context.Context, text string) (domain.ResolutionResult, error)
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
