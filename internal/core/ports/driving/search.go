package driving

import (
	"context"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
)

// SearchService provides hybrid search over content blocks.
type SearchService interface {
	// Search runs one ranked, deduplicated, paginated search. Hybrid
	// searches degrade to metadata-only results, flagged on the page,
	// when the embedding provider is unavailable; a row store failure
	// fails the call.
	Search(ctx context.Context, orgID, query string, opts domain.SearchOptions) (*domain.SearchPage, error)
}
