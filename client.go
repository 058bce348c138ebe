package intentd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/homegrid/intentd/internal/catalog"
	"github.com/homegrid/intentd/internal/db"
	dbMemory "github.com/homegrid/intentd/internal/db/memory"
	dbRedis "github.com/homegrid/intentd/internal/db/redis"
	"github.com/homegrid/intentd/internal/domain"
	"github.com/homegrid/intentd/internal/metrics"
	"github.com/homegrid/intentd/internal/repository/embcache"
	openaiT "github.com/homegrid/intentd/internal/transport/openai"
	"github.com/homegrid/intentd/internal/usecase/extract"
	generationuc "github.com/homegrid/intentd/internal/usecase/generation"
	healthuc "github.com/homegrid/intentd/internal/usecase/health"
	"github.com/homegrid/intentd/internal/usecase/rank"
	"github.com/homegrid/intentd/internal/usecase/resolve"
)

const defaultReadinessTimeout = 10 * time.Second

// Default model names for the embedded client.
const (
	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultGenerationModel = "gpt-4o-mini"
)

// Internal interfaces, swappable in tests.
type resolverUseCase interface {
	ResolveFromText(ctx context.Context, text string) (domain.ResolutionResult, error)
	ResolveFromImage(ctx context.Context, image []byte, mimeType string) (domain.ResolutionResult, error)
	ResolveFromDocumentText(ctx context.Context, text string) (domain.ResolutionResult, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the embedded intentd entry point. It owns the catalog store,
// the provider clients, and the embedding cache.
type Client struct {
	store     db.Store
	resolver  resolverUseCase
	healthSvc healthUseCase
}

// New creates an embedded Client. The catalog snapshot is loaded lazily on
// the first resolution call and reused afterwards.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		embedModel: DefaultEmbeddingModel,
		genModel:   DefaultGenerationModel,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.snapshotPath == "" {
		return nil, errors.New("intentd: snapshot path is required (use WithSnapshot)")
	}
	if cfg.apiKey == "" && (cfg.embedder == nil || cfg.generator == nil) {
		return nil, errors.New("intentd: an API key (WithOpenAI) or custom providers (WithEmbedder, WithGenerator) are required")
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := buildCacheStore(cfg)
	if err != nil {
		return nil, err
	}

	catalogStore := catalog.NewStore(catalog.NewFileSource(cfg.snapshotPath), logger)

	embedder, embedderHealth := buildClientEmbedder(cfg, store, logger)
	generator, generatorHealth := buildClientGenerator(cfg, logger)

	resolver := resolve.New(
		catalogStore, rank.New(), embedder,
		extract.New(generator, logger), generator, logger,
	).WithTopK(cfg.textTopK, cfg.imageTopK, cfg.documentTopK)

	return &Client{
		store:     store,
		resolver:  resolver,
		healthSvc: healthuc.New(catalogStore, embedderHealth, generatorHealth, store),
	}, nil
}

// ResolveText resolves a free-text service request.
func (c *Client) ResolveText(ctx context.Context, text string) (Result, error) {
	res, err := c.resolver.ResolveFromText(ctx, text)
	return resultFromDomain(res), err
}

// ResolveImage resolves a photo of the problem. The image is described by a
// multimodal model and the description goes through the text pipeline.
func (c *Client) ResolveImage(ctx context.Context, image []byte, mimeType string) (Result, error) {
	res, err := c.resolver.ResolveFromImage(ctx, image, mimeType)
	return resultFromDomain(res), err
}

// ResolveDocument resolves extracted document text, e.g. a renovation scope
// or an estimate. Larger candidate sets than plain text queries.
func (c *Client) ResolveDocument(ctx context.Context, text string) (Result, error) {
	res, err := c.resolver.ResolveFromDocumentText(ctx, text)
	return resultFromDomain(res), err
}

// Close releases the cache connection. The client must not be used after Close.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

func buildCacheStore(cfg *clientConfig) (db.Store, error) {
	if len(cfg.cacheAddrs) == 0 {
		return dbMemory.NewStore(), nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("intentd: connect cache: %w", err)
	}
	if err := store.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("intentd: cache not ready: %w", err)
	}
	return store, nil
}

func buildClientEmbedder(
	cfg *clientConfig, store db.Store, logger *zap.Logger,
) (domain.Embedder, domain.HealthChecker) {
	var base domain.Embedder
	var health domain.HealthChecker

	if cfg.embedder != nil {
		base = embedderAdapter{inner: cfg.embedder}
	} else {
		provider := openaiT.NewEmbedder(&openaiT.Config{
			APIKey:     cfg.apiKey,
			BaseURL:    cfg.baseURL,
			Model:      cfg.embedModel,
			Dimensions: cfg.dimensions,
			Provider:   "openai",
			Logger:     logger,
		})
		base = provider
		health = provider
	}

	var embedder domain.Embedder = embcache.New(
		base, store,
		cfg.embedModel,
		time.Duration(cfg.cacheTTLHours)*time.Hour,
		metrics.EmbeddingCacheTotal,
		logger,
	)

	if cfg.queryInstruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, cfg.queryInstruction)
	}

	return embedder, health
}

func buildClientGenerator(
	cfg *clientConfig, logger *zap.Logger,
) (domain.Generator, domain.HealthChecker) {
	if cfg.generator != nil {
		return generatorAdapter{inner: cfg.generator}, nil
	}

	base := openaiT.NewGenerator(&openaiT.GeneratorConfig{
		APIKey:   cfg.apiKey,
		BaseURL:  cfg.baseURL,
		Model:    cfg.genModel,
		Provider: "openai",
		Logger:   logger,
	})
	return generationuc.NewBreakerGenerator(base, generationuc.DefaultBreakerConfig(), logger), base
}
