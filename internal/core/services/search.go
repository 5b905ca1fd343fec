package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driven"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// candidate holds an intermediate hit before enrichment.
type candidate struct {
	blockID      string
	score        float64
	vectorOrigin bool
	block        *domain.Block // pre-resolved row for metadata hits
}

// SearchService produces ranked, deduplicated, paginated pages that
// merge vector-similarity hits with metadata-filtered hits. Each call
// runs the same stateless pipeline: plan, fetch, enrich, filter, rank,
// dedup, paginate.
type SearchService struct {
	rows      driven.RowStore
	vectors   driven.EmbeddingStore
	namespace string
}

// NewSearchService creates a search service. An empty namespace uses
// DefaultVectorNamespace.
func NewSearchService(rows driven.RowStore, vectors driven.EmbeddingStore, namespace string) *SearchService {
	if namespace == "" {
		namespace = DefaultVectorNamespace
	}
	return &SearchService{rows: rows, vectors: vectors, namespace: namespace}
}

// Search runs one search call.
//
// Failure semantics: the row store is load-bearing. If it is
// unavailable the call fails, because no result can be trusted without
// row confirmation. The embedding provider is not: a hybrid search
// degrades to metadata-only results with the Degraded flag set, while
// a purely semantic search surfaces the dependency error.
func (s *SearchService) Search(ctx context.Context, orgID, query string, opts domain.SearchOptions) (*domain.SearchPage, error) {
	logger.Section("Search Execution")

	if orgID == "" {
		return nil, fmt.Errorf("%w: organization id is required", domain.ErrInvalidInput)
	}

	searchType, err := domain.ParseSearchType(string(opts.Type))
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" && searchType != domain.SearchMetadata {
		return nil, fmt.Errorf("%w: query text is required for %s search", domain.ErrInvalidInput, searchType)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = domain.DefaultSimilarityThreshold
	}

	// Over-fetch to absorb losses from enrichment, filtering and
	// deduplication before the final slice.
	fetchLimit := (limit + opts.Offset) * 2

	logger.Debug("Query: %q, type: %s, limit: %d, offset: %d, threshold: %.2f",
		query, searchType, limit, opts.Offset, threshold)

	wantVector := searchType == domain.SearchSemantic || searchType == domain.SearchHybrid
	wantMetadata := searchType == domain.SearchMetadata || searchType == domain.SearchHybrid

	// Fetch both sources concurrently.
	var (
		wg         sync.WaitGroup
		vectorHits []driven.VectorHit
		vectorErr  error
		metaRows   []driven.Row
		metaErr    error
	)

	if wantVector {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vectorHits, vectorErr = s.vectorFetch(ctx, orgID, query, fetchLimit, threshold)
		}()
	}
	if wantMetadata {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metaRows, metaErr = s.metadataFetch(ctx, orgID, opts, fetchLimit)
		}()
	}
	wg.Wait()

	if metaErr != nil {
		return nil, fmt.Errorf("metadata fetch: %w", metaErr)
	}

	degraded := false
	if vectorErr != nil {
		if searchType == domain.SearchSemantic {
			return nil, fmt.Errorf("vector fetch: %w", vectorErr)
		}
		logger.Warn("Vector fetch failed, degrading to metadata-only: %v", vectorErr)
		vectorHits = nil
		degraded = true
	}

	logger.Debug("Raw hits: %d vector, %d metadata", len(vectorHits), len(metaRows))

	// Merge the two origins, keeping the higher score per block.
	candidates := s.mergeCandidates(vectorHits, metaRows, threshold)

	// Enrich, filter, rank.
	results, err := s.resolveAndFilter(ctx, orgID, query, candidates, opts)
	if err != nil {
		return nil, err
	}

	// Stable ordering: score descending, block id ascending.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Block.ID < results[j].Block.ID
	})

	total := len(results)
	results = paginate(results, opts.Offset, limit)

	logger.Info("Search complete: %d of %d results (degraded=%t)", len(results), total, degraded)
	return &domain.SearchPage{Results: results, Total: total, Degraded: degraded}, nil
}

// vectorFetch queries the embedding provider. The organization id is
// always folded into the metadata filter; tenant scoping here is a
// correctness requirement.
func (s *SearchService) vectorFetch(ctx context.Context, orgID, query string, limit int, threshold float64) ([]driven.VectorHit, error) {
	return s.vectors.Search(ctx, query, s.namespace, map[string]any{
		"organization_id": orgID,
	}, limit, threshold)
}

// metadataFetch queries the row store for blocks matching the tenant
// plus caller filters, independent of the query text. In hybrid mode
// it is a supplementary source alongside vector hits, not an
// intersection.
func (s *SearchService) metadataFetch(ctx context.Context, orgID string, opts domain.SearchOptions, limit int) ([]driven.Row, error) {
	filter := driven.Filter{
		"organization_id": orgID,
		"is_archived":     false,
	}
	if opts.PageID != "" {
		filter["page_id"] = opts.PageID
	}
	if len(opts.Kinds) == 1 {
		// A single kind can be pushed down; multiple kinds are applied
		// uniformly in the filter stage.
		filter["block_type"] = string(opts.Kinds[0])
	}

	res, err := s.rows.Query(ctx, tableBlocks, filter, limit, 0)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// mergeCandidates deduplicates hits across origins. A block appearing
// in both sets keeps the higher of its two scores, in practice the
// similarity, since admitted similarities sit above the flat
// metadata score.
func (s *SearchService) mergeCandidates(vectorHits []driven.VectorHit, metaRows []driven.Row, threshold float64) map[string]*candidate {
	candidates := make(map[string]*candidate)

	for _, hit := range vectorHits {
		if hit.Similarity < threshold {
			continue
		}
		blockID, _ := hit.Metadata["block_id"].(string)
		if blockID == "" {
			continue
		}
		if existing, ok := candidates[blockID]; !ok || hit.Similarity > existing.score {
			candidates[blockID] = &candidate{
				blockID:      blockID,
				score:        hit.Similarity,
				vectorOrigin: true,
			}
		}
	}

	for _, row := range metaRows {
		block, err := domain.BlockFromDocument(row.Document)
		if err != nil {
			logger.Warn("Skipping undecodable block row %s: %v", row.ID, err)
			continue
		}
		if existing, ok := candidates[block.ID]; ok {
			// Vector origin at a higher score wins; keep the resolved
			// row so enrichment can skip the extra read.
			if existing.block == nil {
				existing.block = block
			}
			if domain.MetadataMatchScore > existing.score {
				existing.score = domain.MetadataMatchScore
			}
			continue
		}
		candidates[block.ID] = &candidate{
			blockID: block.ID,
			score:   domain.MetadataMatchScore,
			block:   block,
		}
	}

	return candidates
}

// resolveAndFilter enriches every candidate to its full current row
// and applies the caller filters uniformly to both origins. Vector
// metadata can go stale relative to row edits, so vector hits are
// always re-resolved; a hit whose row has been deleted since indexing
// is dropped, not errored.
func (s *SearchService) resolveAndFilter(
	ctx context.Context, orgID, query string, candidates map[string]*candidate, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	var allowedByTag map[string]bool
	if len(opts.TagIDs) > 0 {
		var err error
		allowedByTag, err = s.blocksWithTags(ctx, orgID, opts.TagIDs)
		if err != nil {
			return nil, err
		}
	}

	pageArchived := make(map[string]bool)
	results := make([]domain.SearchResult, 0, len(candidates))

	for _, cand := range candidates {
		block := cand.block
		if block == nil {
			_, resolved, err := getBlockRow(ctx, s.rows, orgID, cand.blockID)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			block = resolved
		}

		if block.Archived {
			continue
		}

		// Blocks of archived pages drop out of search without any
		// cascading write at archive time.
		archived, ok := pageArchived[block.PageID]
		if !ok {
			_, page, err := getPageRow(ctx, s.rows, orgID, block.PageID)
			if errors.Is(err, domain.ErrNotFound) {
				archived = true
			} else if err != nil {
				return nil, err
			} else {
				archived = page.Archived
			}
			pageArchived[block.PageID] = archived
		}
		if archived {
			continue
		}

		if !matchesFilters(block, opts, allowedByTag) {
			continue
		}

		results = append(results, domain.SearchResult{
			Block:      block,
			Score:      cand.score,
			Highlights: domain.Highlights(query, block.SearchableText()),
		})
	}

	return results, nil
}

// matchesFilters applies the hard caller filters. A semantically close
// hit that fails any of these never appears.
func matchesFilters(block *domain.Block, opts domain.SearchOptions, allowedByTag map[string]bool) bool {
	if len(opts.Kinds) > 0 {
		found := false
		for _, k := range opts.Kinds {
			if block.Kind == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if opts.PageID != "" && block.PageID != opts.PageID {
		return false
	}

	if allowedByTag != nil && !allowedByTag[block.ID] {
		return false
	}

	if !opts.From.IsZero() && block.UpdatedAt.Before(opts.From) {
		return false
	}
	if !opts.To.IsZero() && block.UpdatedAt.After(opts.To) {
		return false
	}

	return true
}

// blocksWithTags returns the set of block ids carrying at least one of
// the given tags.
func (s *SearchService) blocksWithTags(ctx context.Context, orgID string, tagIDs []string) (map[string]bool, error) {
	allowed := make(map[string]bool)
	for _, tagID := range tagIDs {
		res, err := s.rows.Query(ctx, tableTagAssignments, driven.Filter{
			"organization_id": orgID,
			"tag_id":          tagID,
		}, siblingQueryLimit, 0)
		if err != nil {
			return nil, fmt.Errorf("query tag assignments: %w", err)
		}
		for _, row := range res.Rows {
			if blockID, _ := row.Document["block_id"].(string); blockID != "" {
				allowed[blockID] = true
			}
		}
	}
	return allowed, nil
}

// paginate slices the ranked results by offset and limit.
func paginate(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset >= len(results) {
		return []domain.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
