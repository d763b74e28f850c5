package driven

import "context"

// VectorIndex stores unit-normalized embeddings keyed by chunk id and
// provides exact top-K cosine search. The backend is pluggable: the
// default keeps a dense in-process matrix, an alternative delegates to
// an external approximate-nearest-neighbour service. Both enforce the
// same invariants:
//
//   - Embeddings are normalized to unit length at insert time.
//   - A zero-length embedding is domain.ErrZeroVector, never stored.
//   - Dimension is fixed by the first successful insert; later inserts
//     of a different dimension are domain.ErrDimensionMismatch.
//   - Search ties are broken by original insertion order (stable).
type VectorIndex interface {
	// Upsert inserts or replaces vectors for the given items.
	Upsert(ctx context.Context, items []VectorItem) error

	// Delete removes ids from the index and compacts storage.
	// Unknown ids are ignored.
	Delete(ctx context.Context, ids []string) error

	// Search returns up to limit hits ordered by descending cosine
	// similarity to the query vector.
	Search(ctx context.Context, query []float32, limit int) ([]VectorHit, error)

	// Count reports the number of live entries.
	Count(ctx context.Context) (int, error)

	// GetEmbeddings returns the stored (normalized) embeddings for the
	// given ids. Missing ids are omitted from the result.
	GetEmbeddings(ctx context.Context, ids []string) (map[string][]float32, error)

	// Close releases resources.
	Close() error
}

// VectorItem is the payload for index updates.
type VectorItem struct {
	// ID is the chunk id the vector belongs to.
	ID string

	// Embedding is the vector; normalized by the index on insert.
	Embedding []float32

	// Metadata carries small sidecar attributes persisted with the id.
	Metadata map[string]string
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the cosine similarity (dot product of unit vectors).
	Score float64
}
