package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.EmbeddingStore = (*VectorStore)(nil)

// VectorStore is an in-memory embedding store. Instead of real
// embeddings it scores by token overlap between the stored text and
// the query, which is deterministic and good enough for tests and
// local development. SearchErr and EmbedErr inject failures.
type VectorStore struct {
	mu      sync.RWMutex
	entries map[string]vectorEntry

	// SearchErr, when set, is returned by every Search call.
	SearchErr error

	// EmbedErr, when set, is returned by every EmbedAndStore call.
	EmbedErr error
}

type vectorEntry struct {
	text      string
	namespace string
	metadata  map[string]any
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{entries: make(map[string]vectorEntry)}
}

// EmbedAndStore records the text and returns a generated vector id.
func (s *VectorStore) EmbedAndStore(_ context.Context, text, namespace string, metadata map[string]any) (*driven.StoredVector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.EmbedErr != nil {
		return nil, s.EmbedErr
	}

	vectorID := uuid.NewString()
	meta := make(map[string]any, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	s.entries[vectorID] = vectorEntry{text: text, namespace: namespace, metadata: meta}

	return &driven.StoredVector{VectorID: vectorID, Dimensions: s.Dimensions()}, nil
}

// Search scores stored texts by token overlap with the query and
// returns hits at or above the threshold, best first.
func (s *VectorStore) Search(_ context.Context, query, namespace string, filter map[string]any, limit int, threshold float64) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.SearchErr != nil {
		return nil, s.SearchErr
	}

	queryTokens := tokenize(query)
	hits := make([]driven.VectorHit, 0)

	for vectorID, entry := range s.entries {
		if entry.namespace != namespace {
			continue
		}
		if !metadataMatches(entry.metadata, filter) {
			continue
		}
		score := overlap(queryTokens, tokenize(entry.text))
		if score < threshold {
			continue
		}
		hits = append(hits, driven.VectorHit{
			VectorID:   vectorID,
			Similarity: score,
			Metadata:   entry.metadata,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].VectorID < hits[j].VectorID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Delete removes a stored vector.
func (s *VectorStore) Delete(_ context.Context, vectorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[vectorID]; !ok {
		return fmt.Errorf("%w: vector %s", domain.ErrNotFound, vectorID)
	}
	delete(s.entries, vectorID)
	return nil
}

// Dimensions reports a fixed dimensionality matching the default
// production model.
func (s *VectorStore) Dimensions() int { return 768 }

// ModelName identifies the fake backend.
func (s *VectorStore) ModelName() string { return "memory/token-overlap" }

// Ping always succeeds.
func (s *VectorStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *VectorStore) Close() error { return nil }

// Len returns the number of stored vectors; test helper.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func metadataMatches(meta, filter map[string]any) bool {
	for k, want := range filter {
		if fmt.Sprintf("%v", meta[k]) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ".,;:!?\"'()[]")
		if f != "" {
			tokens[f] = true
		}
	}
	return tokens
}

// overlap is the fraction of query tokens present in the text.
func overlap(query, text map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	shared := 0
	for t := range query {
		if text[t] {
			shared++
		}
	}
	return float64(shared) / float64(len(query))
}
