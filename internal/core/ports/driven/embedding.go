package driven

import "context"

// StoredVector identifies an embedding stored by the provider.
type StoredVector struct {
	// VectorID is the provider-assigned vector identifier.
	VectorID string

	// Dimensions is the embedding vector size (e.g. 768).
	Dimensions int
}

// VectorHit is a nearest-neighbor search result.
type VectorHit struct {
	// VectorID is the matched vector.
	VectorID string

	// Similarity is the cosine similarity in [0, 1].
	Similarity float64

	// Metadata is the metadata stored alongside the vector. It can be
	// stale relative to row edits; consumers re-resolve the row.
	Metadata map[string]any
}

// EmbeddingStore generates, stores and searches text embeddings in a
// remote provider.
//
// Implementations may include:
//   - ZeroDB embeddings API (BAAI/bge-base-en-v1.5, 768 dimensions)
//   - An in-memory fake for tests
type EmbeddingStore interface {
	// EmbedAndStore embeds text and stores the vector with metadata
	// under the namespace in one call.
	EmbedAndStore(ctx context.Context, text, namespace string, metadata map[string]any) (*StoredVector, error)

	// Search embeds the query text and returns the nearest stored
	// vectors in the namespace whose metadata matches the filter and
	// whose similarity is at least threshold.
	Search(ctx context.Context, query, namespace string, filter map[string]any, limit int, threshold float64) ([]VectorHit, error)

	// Delete removes a stored vector.
	Delete(ctx context.Context, vectorID string) error

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the embedding model in use.
	ModelName() string

	// Ping validates the provider is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
