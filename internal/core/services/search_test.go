package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
)

func TestSearchHybridMergesAndDedups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	match := env.createTextBlock(t, page.ID, "quarterly planning")
	other := env.createTextBlock(t, page.ID, "unrelated notes")

	result, err := env.search.Search(ctx, testOrg, "quarterly planning", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.False(t, result.Degraded)

	// The semantic hit keeps its similarity; the metadata-only hit
	// carries the flat score below the admission threshold.
	assert.Equal(t, match.ID, result.Results[0].Block.ID)
	assert.InDelta(t, 1.0, result.Results[0].Score, 0.001)
	assert.Equal(t, other.ID, result.Results[1].Block.ID)
	assert.InDelta(t, domain.MetadataMatchScore, result.Results[1].Score, 0.001)
}

func TestSearchSemanticOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	match := env.createTextBlock(t, page.ID, "release checklist")
	env.createTextBlock(t, page.ID, "unrelated notes")

	result, err := env.search.Search(ctx, testOrg, "release checklist", domain.SearchOptions{
		Type: domain.SearchSemantic,
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, match.ID, result.Results[0].Block.ID)
}

func TestSearchMetadataNeedsNoQuery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	env.createTextBlock(t, page.ID, "anything")

	result, err := env.search.Search(ctx, testOrg, "", domain.SearchOptions{
		Type: domain.SearchMetadata,
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.InDelta(t, domain.MetadataMatchScore, result.Results[0].Score, 0.001)
}

func TestSearchSemanticRequiresQuery(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.search.Search(context.Background(), testOrg, "  ", domain.SearchOptions{
		Type: domain.SearchSemantic,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchHybridDegradesWhenProviderDown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	env.createTextBlock(t, page.ID, "survives degradation")

	env.vectors.SearchErr = errors.New("provider down")

	result, err := env.search.Search(ctx, testOrg, "survives", domain.SearchOptions{})
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	require.Len(t, result.Results, 1)
	assert.InDelta(t, domain.MetadataMatchScore, result.Results[0].Score, 0.001)
}

func TestSearchSemanticFailsWhenProviderDown(t *testing.T) {
	env := newTestEnv(t)

	page := env.createPage(t, "Page")
	env.createTextBlock(t, page.ID, "content")
	env.vectors.SearchErr = errors.New("provider down")

	_, err := env.search.Search(context.Background(), testOrg, "content", domain.SearchOptions{
		Type: domain.SearchSemantic,
	})
	assert.Error(t, err)
}

func TestSearchExcludesArchivedPageBlocks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	livePage := env.createPage(t, "Live")
	deadPage := env.createPage(t, "Dead")
	keep := env.createTextBlock(t, livePage.ID, "shared topic")
	env.createTextBlock(t, deadPage.ID, "shared topic")

	require.NoError(t, env.pages.Archive(ctx, testOrg, deadPage.ID))

	result, err := env.search.Search(ctx, testOrg, "shared topic", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, keep.ID, result.Results[0].Block.ID)
}

func TestSearchExcludesArchivedBlocks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	gone := env.createTextBlock(t, page.ID, "stale vector content")
	require.NoError(t, env.blocks.Archive(ctx, testOrg, gone.ID))

	result, err := env.search.Search(ctx, testOrg, "stale vector content", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Results, "archived block must not surface through its vector")
}

func TestSearchKindFilterAppliesToBothOrigins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	env.createTextBlock(t, page.ID, "matching text")

	result, err := env.search.Search(ctx, testOrg, "matching text", domain.SearchOptions{
		Kinds: []domain.BlockKind{domain.BlockTask},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Results, "semantically close hit of the wrong kind is excluded")
}

func TestSearchPageFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pageA := env.createPage(t, "A")
	pageB := env.createPage(t, "B")
	inA := env.createTextBlock(t, pageA.ID, "same words")
	env.createTextBlock(t, pageB.ID, "same words")

	result, err := env.search.Search(ctx, testOrg, "same words", domain.SearchOptions{
		PageID: pageA.ID,
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, inA.ID, result.Results[0].Block.ID)
}

func TestSearchTagFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	tagged := env.createTextBlock(t, page.ID, "common theme")
	env.createTextBlock(t, page.ID, "common theme")

	tag, err := env.tags.Create(ctx, testOrg, "picked", "", "")
	require.NoError(t, err)
	_, err = env.tags.Assign(ctx, testOrg, tag.ID, tagged.ID)
	require.NoError(t, err)

	result, err := env.search.Search(ctx, testOrg, "common theme", domain.SearchOptions{
		TagIDs: []string{tag.ID},
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, tagged.ID, result.Results[0].Block.ID)
}

func TestSearchPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	for i := 0; i < 5; i++ {
		env.createTextBlock(t, page.ID, "repeated filler")
	}

	all, err := env.search.Search(ctx, testOrg, "repeated filler", domain.SearchOptions{
		Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, all.Results, 5)
	assert.Equal(t, 5, all.Total)

	second, err := env.search.Search(ctx, testOrg, "repeated filler", domain.SearchOptions{
		Limit:  2,
		Offset: 2,
	})
	require.NoError(t, err)
	require.Len(t, second.Results, 2)
	// Ordering is deterministic, so the window matches the full list.
	assert.Equal(t, all.Results[2].Block.ID, second.Results[0].Block.ID)
	assert.Equal(t, all.Results[3].Block.ID, second.Results[1].Block.ID)

	tail, err := env.search.Search(ctx, testOrg, "repeated filler", domain.SearchOptions{
		Limit:  2,
		Offset: 4,
	})
	require.NoError(t, err)
	assert.Len(t, tail.Results, 1)
}

func TestSearchHighlights(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	env.createTextBlock(t, page.ID, "the migration plan for storage")

	result, err := env.search.Search(ctx, testOrg, "migration storage", domain.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)
	assert.ElementsMatch(t, []string{"migration", "storage"}, result.Results[0].Highlights)
}

func TestSearchTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	env.createTextBlock(t, page.ID, "private data")

	result, err := env.search.Search(ctx, "other-org", "private data", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Results)
}
