package intentd

import (
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	snapshotPath string

	apiKey  string
	baseURL string

	embedModel       string
	genModel         string
	dimensions       int
	queryInstruction string

	embedder  Embedder
	generator Generator

	cacheAddrs    []string
	cachePassword string
	cacheTTLHours int

	textTopK     int
	imageTopK    int
	documentTopK int

	logger *zap.Logger
}

// WithSnapshot sets the catalog snapshot file path. Required.
func WithSnapshot(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.snapshotPath = path
	})
}

// WithOpenAI configures the OpenAI API key used for both embedding and
// generation. Required unless custom providers are supplied via
// WithEmbedder and WithGenerator.
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
	})
}

// WithBaseURL points the OpenAI client at a compatible gateway.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithModels sets the embedding and generation model names.
// Defaults: text-embedding-3-small and gpt-4o-mini.
func WithModels(embedModel, genModel string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedModel = embedModel
		c.genModel = genModel
	})
}

// WithDimensions requests truncated embeddings of the given width.
// Must match the snapshot's dimensionality.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithQueryInstruction prepends an instruction prefix to every query before
// embedding. Some models expect a task prefix on queries but not documents.
func WithQueryInstruction(instruction string) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryInstruction = instruction
	})
}

// WithEmbedder replaces the OpenAI embedding provider with a custom one.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithGenerator replaces the OpenAI generative provider with a custom one.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithRedisCache stores query embeddings in Redis instead of process memory.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithCacheTTL sets the embedding cache entry lifetime in hours. Zero keeps
// entries until eviction.
func WithCacheTTL(hours int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTLHours = hours
	})
}

// WithTopK overrides the candidate set sizes per entry point (<=0 keeps the default).
func WithTopK(text, image, document int) Option {
	return optionFunc(func(c *clientConfig) {
		c.textTopK = text
		c.imageTopK = image
		c.documentTopK = document
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
