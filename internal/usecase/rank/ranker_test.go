package rank

import (
	"math"
	"testing"

	"github.com/homegrid/intentd/internal/domain"
)

func entry(id string, vec ...float32) domain.CatalogEntry {
	return domain.CatalogEntry{ID: id, Title: id, Embedding: vec}
}

func TestCosineSimilarity_SelfIsMaximal(t *testing.T) {
	vecs := [][]float32{
		{3, 4},
		{1, 0, 0},
		{0.5, -0.25, 2},
	}
	for _, v := range vecs {
		got := CosineSimilarity(v, v)
		if math.Abs(got-1.0) > 1e-9 {
			t.Errorf("CosineSimilarity(v, v) = %v, want 1.0", got)
		}
	}
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	v := []float32{3, 4}
	neg := []float32{-3, -4}
	got := CosineSimilarity(v, neg)
	if math.Abs(got-(-1.0)) > 1e-9 {
		t.Errorf("CosineSimilarity(v, -v) = %v, want -1.0", got)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	got := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	if math.Abs(got) > 1e-9 {
		t.Errorf("orthogonal similarity = %v, want 0", got)
	}
}

func TestCosineSimilarity_ZeroNorm_NeverNaN(t *testing.T) {
	cases := [][2][]float32{
		{{0, 0, 0}, {1, 2, 3}},
		{{1, 2, 3}, {0, 0, 0}},
		{{0, 0, 0}, {0, 0, 0}},
	}
	for _, c := range cases {
		got := CosineSimilarity(c[0], c[1])
		if math.IsNaN(got) {
			t.Fatalf("CosineSimilarity(%v, %v) is NaN", c[0], c[1])
		}
		if got != MinScore {
			t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", c[0], c[1], got, MinScore)
		}
	}
}

func TestCosineSimilarity_LengthMismatch(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1}); got != MinScore {
		t.Errorf("length mismatch score = %v, want %v", got, MinScore)
	}
}

func TestRank_ExactMatchFirst(t *testing.T) {
	entries := []domain.CatalogEntry{
		entry("tile-bathroom-floor", 0, 1, 0),
		entry("paint-interior-wall", 1, 0, 0),
		entry("install-ceiling-lamp", 0, 0, 1),
	}
	r := New()

	got := r.Rank([]float32{1, 0, 0}, entries, 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	if got[0].ID != "paint-interior-wall" {
		t.Errorf("top candidate = %q, want paint-interior-wall", got[0].ID)
	}
	if got[0].Score != 1.0 {
		t.Errorf("top score = %v, want 1.0", got[0].Score)
	}
}

func TestRank_TopKCutoff(t *testing.T) {
	entries := []domain.CatalogEntry{
		entry("a", 1, 0),
		entry("b", 0.9, 0.1),
		entry("c", 0, 1),
	}
	got := New().Rank([]float32{1, 0}, entries, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("order = [%s %s], want [a b]", got[0].ID, got[1].ID)
	}
}

func TestRank_TiesKeepInsertionOrder(t *testing.T) {
	// All entries identical to the query: scores tie, catalog order wins.
	entries := []domain.CatalogEntry{
		entry("first", 1, 0),
		entry("second", 1, 0),
		entry("third", 1, 0),
	}
	got := New().Rank([]float32{1, 0}, entries, 3)
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	entries := []domain.CatalogEntry{
		entry("a", 0.2, 0.8),
		entry("b", 0.5, 0.5),
		entry("c", 0.8, 0.2),
	}
	query := []float32{0.6, 0.4}
	r := New()

	first := r.Rank(query, entries, 3)
	for run := 0; run < 10; run++ {
		again := r.Rank(query, entries, 3)
		for i := range first {
			if again[i].ID != first[i].ID || again[i].Score != first[i].Score {
				t.Fatalf("run %d: non-deterministic output at %d: %+v vs %+v",
					run, i, again[i], first[i])
			}
		}
	}
}

func TestRank_EmptyCatalog(t *testing.T) {
	if got := New().Rank([]float32{1, 0}, nil, 10); got != nil {
		t.Errorf("expected nil for empty catalog, got %v", got)
	}
}

func TestRank_ZeroNormEntrySortsLast(t *testing.T) {
	entries := []domain.CatalogEntry{
		entry("degenerate", 0, 0),
		entry("good", 1, 0),
	}
	got := New().Rank([]float32{1, 0}, entries, 2)
	if got[0].ID != "good" {
		t.Errorf("top = %q, want good", got[0].ID)
	}
	if got[1].Score != MinScore {
		t.Errorf("degenerate score = %v, want %v", got[1].Score, MinScore)
	}
}
