package domain

// CatalogEntry is one service offering from the immutable catalog snapshot.
// Entries are loaded once at startup and never mutated afterwards.
type CatalogEntry struct {
	ID        string
	Title     string
	Embedding []float32
}
