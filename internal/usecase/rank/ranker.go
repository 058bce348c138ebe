package rank

import (
	"math"
	"sort"

	"github.com/homegrid/intentd/internal/domain"
)

// MinScore is the score assigned when cosine similarity is undefined
// (a zero-norm vector on either side). It is the minimum of the cosine
// range, so degenerate embeddings sort last instead of producing NaN.
const MinScore = -1.0

// Ranker scores catalog entries against a query vector by brute force.
// The catalog is in the low thousands, so O(N*D) per query is fine; the
// resolver depends on an interface, so an ANN index can replace this later.
type Ranker struct{}

// New creates a Ranker.
func New() *Ranker {
	return &Ranker{}
}

// Rank returns up to k candidates ordered by descending cosine similarity.
// Ties keep catalog insertion order, so identical inputs always produce
// identical output.
func (r *Ranker) Rank(query []float32, entries []domain.CatalogEntry, k int) []domain.Candidate {
	if len(entries) == 0 || k <= 0 {
		return nil
	}

	candidates := make([]domain.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, domain.Candidate{
			ID:    e.ID,
			Title: e.Title,
			Score: CosineSimilarity(query, e.Embedding),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// CosineSimilarity computes dot(a,b) / (|a| * |b|).
// Returns MinScore when either norm is zero or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return MinScore
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return MinScore
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
