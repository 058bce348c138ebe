package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/homegrid/intentd/internal/db"
	"github.com/homegrid/intentd/internal/domain"
)

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		setCalled = true
		return nil
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10, got %d", result.TotalTokens)
	}
	if !setCalled {
		t.Fatal("expected SET to be called for cache put")
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	cached := vectorToCacheBytes([]float32{0.4, 0.5, 0.6})

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.4 {
		t.Fatalf("expected cached vector, got: %v", result.Embedding)
	}
	if result.TotalTokens != 0 {
		t.Fatalf("expected TotalTokens=0 on cache hit, got %d", result.TotalTokens)
	}
	if inner.calls != 0 {
		t.Errorf("expected 0 inner calls on hit, got %d", inner.calls)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("provider down")}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := ce.Embed(ctx, "test text")
	if err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestEmbed_CorruptCacheEntryFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.7},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)

	// 3 bytes is not a valid float32 payload.
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}

	result, err := ce.Embed(context.Background(), "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embedding[0] != 0.7 {
		t.Errorf("expected inner result after corrupt cache entry, got %v", result.Embedding)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestEmbed_TTLUsedWhenConfigured(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1}}}
	ms := &mockKVStore{}
	ce := New(inner, ms, "test-model", time.Hour, nil, zap.NewNop())

	var gotTTL time.Duration
	ms.setTTLFn = func(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
		gotTTL = ttl
		return nil
	}

	if _, err := ce.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTTL != time.Hour {
		t.Errorf("ttl = %v, want 1h", gotTTL)
	}
}

func TestCacheKey_DependsOnModel(t *testing.T) {
	inner := &mockEmbedder{}
	ms := &mockKVStore{}
	a := New(inner, ms, "model-a", 0, nil, zap.NewNop())
	b := New(inner, ms, "model-b", 0, nil, zap.NewNop())

	if a.cacheKey("same text") == b.cacheKey("same text") {
		t.Fatal("different models must produce different cache keys")
	}
}

func TestEmbed_StoreFailureIsNonFatal(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.2}}}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("backend unreachable")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		return errors.New("backend unreachable")
	}

	result, err := ce.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("cache failures must not fail the embed: %v", err)
	}
	if result.Embedding[0] != 0.2 {
		t.Errorf("unexpected vector: %v", result.Embedding)
	}
}
