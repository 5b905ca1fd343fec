package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// SearchType selects the search mode.
type SearchType string

const (
	// SearchSemantic uses vector similarity only.
	SearchSemantic SearchType = "semantic"

	// SearchMetadata uses metadata filters only, no embeddings.
	SearchMetadata SearchType = "metadata"

	// SearchHybrid merges vector similarity with metadata-filtered
	// results. This is the default.
	SearchHybrid SearchType = "hybrid"
)

// ParseSearchType validates a caller-supplied search type; an empty
// string defaults to hybrid.
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(s) {
	case "":
		return SearchHybrid, nil
	case SearchSemantic, SearchMetadata, SearchHybrid:
		return SearchType(s), nil
	}
	return "", fmt.Errorf("%w: search type must be semantic, metadata or hybrid, got %q", ErrInvalidInput, s)
}

// Default search parameters.
const (
	// DefaultSimilarityThreshold is the minimum similarity for a
	// vector hit to be admitted.
	DefaultSimilarityThreshold = 0.7

	// MetadataMatchScore is the flat score assigned to hits that
	// matched filters but carry no similarity signal. It sits below
	// the admission threshold so exact-filter matches always rank
	// under semantic matches.
	MetadataMatchScore = 0.5

	// DefaultSearchLimit caps a result page when the caller does not
	// specify one.
	DefaultSearchLimit = 20
)

// SearchOptions configures a search call.
type SearchOptions struct {
	// Type is the search mode, hybrid when empty.
	Type SearchType

	// Kinds restricts results to the given block kinds. A hit of the
	// wrong kind is excluded even when it is semantically closest.
	Kinds []BlockKind

	// PageID restricts results to a single page.
	PageID string

	// TagIDs restricts results to blocks carrying at least one of the
	// given tags.
	TagIDs []string

	// From and To bound the block update timestamp. Zero values mean
	// unbounded.
	From time.Time
	To   time.Time

	// Limit is the page size (default 20). Offset skips results.
	Limit  int
	Offset int

	// Threshold is the minimum similarity for vector hits
	// (default 0.7).
	Threshold float64
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	// Block is the matched block, resolved to its current row.
	Block *Block

	// Score is the similarity for vector hits, MetadataMatchScore for
	// metadata-only hits, and the higher of the two when a block
	// appeared in both sets.
	Score float64

	// Highlights contains query terms found in the block's text.
	Highlights []string
}

// SearchPage is one page of ranked, deduplicated results.
type SearchPage struct {
	// Results ordered by score descending, block id ascending.
	Results []SearchResult

	// Total counts results after filtering and deduplication, before
	// pagination.
	Total int

	// Degraded is set when the embedding provider was unavailable and
	// a hybrid search fell back to metadata-only results.
	Degraded bool
}

// Highlights extracts query terms of three or more characters found in
// the given text. Terms are lowercased and deduplicated.
func Highlights(query, text string) []string {
	textLower := strings.ToLower(text)
	seen := make(map[string]bool)
	var out []string
	for _, word := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(word) < 3 || seen[word] {
			continue
		}
		if strings.Contains(textLower, word) {
			seen[word] = true
			out = append(out, word)
		}
	}
	return out
}
