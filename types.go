package intentd

import (
	"context"

	"github.com/homegrid/intentd/internal/domain"
)

// Embedder vectorizes query text. Implement to plug in a custom provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator is a generative-model provider. Implement to plug in a custom one.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Item is one catalog service the engine decided the user needs.
// ID always references a real catalog entry.
type Item struct {
	ID          string
	Title       string
	Description string
	Quantity    float64
}

// Result is the structured answer of a resolution call. A degraded
// resolution is an empty but well-formed result, never a nil.
type Result struct {
	Items   []Item
	Summary string
	Notes   string
}

func resultFromDomain(r domain.ResolutionResult) Result {
	items := make([]Item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, Item{
			ID:          it.ID,
			Title:       it.Title,
			Description: it.Description,
			Quantity:    it.Quantity,
		})
	}
	return Result{Items: items, Summary: r.Summary, Notes: r.Notes}
}

// embedderAdapter lifts a public Embedder into the domain contract.
type embedderAdapter struct {
	inner Embedder
}

func (a embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// generatorAdapter lifts a public Generator into the domain contract.
type generatorAdapter struct {
	inner Generator
}

func (a generatorAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	return a.inner.Generate(ctx, prompt)
}

func (a generatorAdapter) DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	return a.inner.DescribeImage(ctx, image, mimeType)
}
