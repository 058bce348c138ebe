package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/homegrid/intentd/internal/domain"
	"github.com/homegrid/intentd/internal/metrics"
)

// Service turns raw input plus a ranked candidate set into a validated
// ResolutionResult. The generative model only ever sees the candidate
// whitelist, and anything it returns outside that whitelist is dropped.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// New creates an extraction service.
func New(gen Generator, logger *zap.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

// Extract runs the constrained extraction protocol.
// A generation API failure is returned as an error (the resolver decides the
// fallback). Malformed model output is not an error: it degrades to an empty
// result, with the raw text kept for diagnostics only.
func (s *Service) Extract(
	ctx context.Context, variant Variant, input string, candidates []domain.Candidate,
) (domain.ResolutionResult, error) {
	prompt := buildPrompt(variant, input, candidates)

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return domain.ResolutionResult{}, fmt.Errorf("generate: %w", err)
	}

	resp, ok := parseResponse(raw)
	if !ok {
		metrics.ExtractionOutcomesTotal.WithLabelValues(string(variant), "unparsable").Inc()
		s.logger.Debug("Unparsable extraction output",
			zap.String("variant", string(variant)),
			zap.String("raw", raw),
		)
		return domain.EmptyResult(""), nil
	}

	result := s.filterToWhitelist(variant, resp, candidates)
	metrics.ExtractionOutcomesTotal.WithLabelValues(string(variant), "ok").Inc()
	return result, nil
}

// filterToWhitelist drops every returned item whose id is not in the
// candidate set of this call. This post-filter is the correctness guarantee
// of the component: the model cannot introduce catalog entries the ranker
// never proved relevant.
func (s *Service) filterToWhitelist(
	variant Variant, resp modelResponse, candidates []domain.Candidate,
) domain.ResolutionResult {
	allowed := make(map[string]string, len(candidates))
	for _, c := range candidates {
		allowed[c.ID] = c.Title
	}

	items := make([]domain.ResolvedItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		title, ok := allowed[it.ID]
		if !ok {
			metrics.ExtractionWhitelistDropsTotal.WithLabelValues(string(variant)).Inc()
			s.logger.Warn("Dropping item outside candidate whitelist",
				zap.String("variant", string(variant)),
				zap.String("id", it.ID),
			)
			continue
		}
		if it.Title == "" {
			it.Title = title
		}
		items = append(items, domain.ResolvedItem{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Quantity:    it.quantity(),
		})
	}

	return domain.ResolutionResult{
		Items:   items,
		Summary: resp.Summary,
		Notes:   resp.Notes,
	}
}
