package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; resolution still works with
	// reduced quality or higher latency.
	Degraded Status = "degraded"
	// Unhealthy indicates the engine cannot resolve at all.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks. The catalog is load-bearing: without it
// no request can be answered, so its failure is Unhealthy rather than
// Degraded.
type Service struct {
	catalog    CatalogChecker
	embedding  ProviderChecker
	generation ProviderChecker
	cache      CachePinger
}

// New creates a Service. embedding, generation, and cache can be nil.
func New(catalog CatalogChecker, embedding, generation ProviderChecker, cache CachePinger) *Service {
	return &Service{
		catalog:    catalog,
		embedding:  embedding,
		generation: generation,
		cache:      cache,
	}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.catalog.HealthCheck(ctx); err != nil {
		checks["catalog"] = CheckError
		status = Unhealthy
	} else {
		checks["catalog"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	if s.generation != nil {
		if err := s.generation.HealthCheck(ctx); err != nil {
			checks["generation"] = CheckError
		} else {
			checks["generation"] = CheckOK
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if status == Healthy {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}
