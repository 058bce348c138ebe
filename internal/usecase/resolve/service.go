package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/homegrid/intentd/internal/domain"
	"github.com/homegrid/intentd/internal/metrics"
	"github.com/homegrid/intentd/internal/usecase/extract"
)

// Candidate set sizes per entry point. Document text covers more ground
// than a single request, so it gets a wider net.
const (
	DefaultTextTopK     = 20
	DefaultImageTopK    = 15
	DefaultDocumentTopK = 40
)

// Default timeouts for the two suspension points of a resolution call.
const (
	DefaultEmbedTimeout    = 10 * time.Second
	DefaultGenerateTimeout = 30 * time.Second
)

// Service orchestrates a resolution call: embed the query, rank the catalog,
// run constrained extraction. It owns no mutable state; calls are
// independent and safe to run concurrently.
//
// Failure policy: invalid input and embedding failures return an error
// (the caller decides whether to retry); extraction failures degrade to an
// empty result. Either way the returned result is structurally valid.
type Service struct {
	catalog   Catalog
	ranker    Ranker
	embedder  Embedder
	extractor Extractor
	describer Describer
	logger    *zap.Logger

	textTopK     int
	imageTopK    int
	documentTopK int

	embedTimeout    time.Duration
	generateTimeout time.Duration
}

// New creates a resolution service with default candidate sizes and timeouts.
func New(
	catalog Catalog, ranker Ranker, embedder Embedder,
	extractor Extractor, describer Describer, logger *zap.Logger,
) *Service {
	return &Service{
		catalog:         catalog,
		ranker:          ranker,
		embedder:        embedder,
		extractor:       extractor,
		describer:       describer,
		logger:          logger,
		textTopK:        DefaultTextTopK,
		imageTopK:       DefaultImageTopK,
		documentTopK:    DefaultDocumentTopK,
		embedTimeout:    DefaultEmbedTimeout,
		generateTimeout: DefaultGenerateTimeout,
	}
}

// WithTopK overrides the per-entry-point candidate set sizes (<=0 keeps the default).
func (s *Service) WithTopK(text, image, document int) *Service {
	if text > 0 {
		s.textTopK = text
	}
	if image > 0 {
		s.imageTopK = image
	}
	if document > 0 {
		s.documentTopK = document
	}
	return s
}

// WithTimeouts overrides the external-call timeouts (<=0 keeps the default).
func (s *Service) WithTimeouts(embed, generate time.Duration) *Service {
	if embed > 0 {
		s.embedTimeout = embed
	}
	if generate > 0 {
		s.generateTimeout = generate
	}
	return s
}

// ResolveFromText resolves a free-text service request.
func (s *Service) ResolveFromText(ctx context.Context, text string) (domain.ResolutionResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.ResolutionsTotal.WithLabelValues("text", "error").Inc()
		return domain.EmptyResult(""), fmt.Errorf("%w: empty query text", domain.ErrInvalidInput)
	}
	return s.resolve(ctx, "text", extract.TextIntent, text, s.textTopK)
}

// ResolveFromImage resolves intent from a photo. The image is first
// summarized to text by the multimodal model; the description then follows
// the same candidate-whitelist pipeline as text.
func (s *Service) ResolveFromImage(
	ctx context.Context, image []byte, mimeType string,
) (domain.ResolutionResult, error) {
	if len(image) == 0 {
		metrics.ResolutionsTotal.WithLabelValues("image", "error").Inc()
		return domain.EmptyResult(""), fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		metrics.ResolutionsTotal.WithLabelValues("image", "error").Inc()
		return domain.EmptyResult(""), fmt.Errorf("%w: unsupported mime type %q", domain.ErrInvalidInput, mimeType)
	}

	describeCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	description, err := s.describer.DescribeImage(describeCtx, image, mimeType)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("image", "error").Inc()
		return domain.EmptyResult(""), fmt.Errorf("describe image: %w", err)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		metrics.ResolutionsTotal.WithLabelValues("image", "empty").Inc()
		return domain.EmptyResult(domain.NoMatchSummary), nil
	}

	return s.resolve(ctx, "image", extract.ImageIntent, description, s.imageTopK)
}

// ResolveFromDocumentText resolves intent from concatenated document text.
func (s *Service) ResolveFromDocumentText(
	ctx context.Context, text string,
) (domain.ResolutionResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.ResolutionsTotal.WithLabelValues("document", "error").Inc()
		return domain.EmptyResult(""), fmt.Errorf("%w: empty document text", domain.ErrInvalidInput)
	}
	return s.resolve(ctx, "document", extract.DocumentIntent, text, s.documentTopK)
}

// resolve runs the shared pipeline: embed, rank, extract.
func (s *Service) resolve(
	ctx context.Context, kind string, variant extract.Variant, input string, topK int,
) (domain.ResolutionResult, error) {
	entries, err := s.catalog.Load(ctx)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues(kind, "error").Inc()
		return domain.EmptyResult(""), fmt.Errorf("load catalog: %w", err)
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	embResult, err := s.embedder.Embed(embedCtx, input)
	cancel()
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues(kind, "error").Inc()
		return domain.EmptyResult(""), fmt.Errorf("embed query: %w", err)
	}

	candidates := s.ranker.Rank(embResult.Embedding, entries, topK)
	if len(candidates) == 0 {
		metrics.ResolutionsTotal.WithLabelValues(kind, "empty").Inc()
		return domain.EmptyResult(domain.NoMatchSummary), nil
	}

	extractCtx, cancel := context.WithTimeout(ctx, s.generateTimeout)
	defer cancel()

	result, err := s.extractor.Extract(extractCtx, variant, input, candidates)
	if err != nil {
		// Availability over completeness: a failed extraction never fails
		// the resolution.
		s.logger.Warn("Extraction failed, degrading to empty result",
			zap.String("kind", kind),
			zap.Error(err),
		)
		metrics.ResolutionsTotal.WithLabelValues(kind, "degraded").Inc()
		return domain.EmptyResult(""), nil
	}

	metrics.ResolutionsTotal.WithLabelValues(kind, "ok").Inc()
	return result, nil
}
