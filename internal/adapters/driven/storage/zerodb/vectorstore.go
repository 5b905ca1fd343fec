package zerodb

import (
	"context"
	"fmt"
	"time"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/logger"
)

// Ensure VectorStore implements the interface.
var _ driven.EmbeddingStore = (*VectorStore)(nil)

// VectorStore implements the embedding store port over the ZeroDB
// embeddings API. Embedding generation and vector storage happen
// server-side in one call; this adapter never sees raw vectors.
type VectorStore struct {
	client     *Client
	dimensions int
}

// NewVectorStore creates a vector store on a shared client. Unknown
// models fall back to 768 dimensions.
func NewVectorStore(client *Client) *VectorStore {
	dims, ok := modelDimensions[client.model]
	if !ok {
		dims = 768
	}
	return &VectorStore{client: client, dimensions: dims}
}

type embedAndStoreRequest struct {
	Texts     []string         `json:"texts"`
	Model     string           `json:"model"`
	Namespace string           `json:"namespace"`
	Metadata  []map[string]any `json:"metadata,omitempty"`
}

type embedAndStoreResponse struct {
	VectorIDs     []string `json:"vector_ids"`
	VectorsStored int      `json:"vectors_stored"`
	Dimensions    int      `json:"dimensions"`
}

type vectorSearchRequest struct {
	Query          string         `json:"query"`
	Model          string         `json:"model"`
	Namespace      string         `json:"namespace"`
	Limit          int            `json:"limit"`
	Threshold      float64        `json:"threshold"`
	FilterMetadata map[string]any `json:"filter_metadata,omitempty"`
}

type vectorSearchResponse struct {
	Results []struct {
		VectorID   string         `json:"vector_id"`
		Similarity float64        `json:"similarity"`
		Score      float64        `json:"score"`
		Metadata   map[string]any `json:"metadata"`
	} `json:"results"`
}

// EmbedAndStore embeds one text and stores the vector with its
// metadata.
func (s *VectorStore) EmbedAndStore(ctx context.Context, text, namespace string, metadata map[string]any) (*driven.StoredVector, error) {
	var resp embedAndStoreResponse
	path := fmt.Sprintf("/v1/%s/embeddings/embed-and-store", s.client.projectID)

	req := embedAndStoreRequest{
		Texts:     []string{text},
		Model:     s.client.model,
		Namespace: namespace,
	}
	if metadata != nil {
		req.Metadata = []map[string]any{metadata}
	}

	if err := s.client.post(ctx, path, req, &resp); err != nil {
		return nil, fmt.Errorf("embed and store: %w", err)
	}
	if len(resp.VectorIDs) == 0 {
		return nil, fmt.Errorf("zerodb: embed and store returned no vector id")
	}

	dims := resp.Dimensions
	if dims == 0 {
		dims = s.dimensions
	}
	return &driven.StoredVector{VectorID: resp.VectorIDs[0], Dimensions: dims}, nil
}

// Search runs a similarity search within a namespace. The similarity
// field is preferred; some deployments report it as score. A transient
// failure is retried once before surfacing.
func (s *VectorStore) Search(ctx context.Context, query, namespace string, filter map[string]any, limit int, threshold float64) ([]driven.VectorHit, error) {
	path := fmt.Sprintf("/v1/%s/embeddings/search", s.client.projectID)
	req := vectorSearchRequest{
		Query:          query,
		Model:          s.client.model,
		Namespace:      namespace,
		Limit:          limit,
		Threshold:      threshold,
		FilterMetadata: filter,
	}

	var resp vectorSearchResponse
	err := s.client.post(ctx, path, req, &resp)
	if retryable(err) {
		logger.Debug("Retrying vector search after transient failure: %v", err)
		time.Sleep(100 * time.Millisecond)
		resp = vectorSearchResponse{}
		err = s.client.post(ctx, path, req, &resp)
	}
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		similarity := r.Similarity
		if similarity == 0 {
			similarity = r.Score
		}
		hits = append(hits, driven.VectorHit{
			VectorID:   r.VectorID,
			Similarity: similarity,
			Metadata:   r.Metadata,
		})
	}
	return hits, nil
}

// Delete removes a stored vector.
func (s *VectorStore) Delete(ctx context.Context, vectorID string) error {
	path := fmt.Sprintf("/v1/%s/embeddings/vectors/%s", s.client.projectID, vectorID)
	if err := s.client.delete(ctx, path); err != nil {
		return fmt.Errorf("delete vector %s: %w", vectorID, err)
	}
	return nil
}

// Dimensions reports the vector size of the configured model.
func (s *VectorStore) Dimensions() int { return s.dimensions }

// ModelName reports the configured embedding model.
func (s *VectorStore) ModelName() string { return s.client.model }

// Ping verifies the embeddings API answers for the project, probing
// the configured namespace.
func (s *VectorStore) Ping(ctx context.Context) error {
	_, err := s.Search(ctx, "ping", s.client.namespace, nil, 1, 0.99)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *VectorStore) Close() error { return nil }
