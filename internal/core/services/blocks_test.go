package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
)

func TestBlockCreateStoresEmbedding(t *testing.T) {
	env := newTestEnv(t)

	page := env.createPage(t, "Page")
	block := env.createTextBlock(t, page.ID, "semantic search notes")

	require.NotNil(t, block.VectorID)
	assert.Equal(t, 768, block.VectorDimensions)
	assert.Equal(t, 1, env.vectors.Len())
}

func TestBlockCreateEmbeddingFailureLeavesBlockUnindexed(t *testing.T) {
	env := newTestEnv(t)
	env.vectors.EmbedErr = errors.New("provider down")

	page := env.createPage(t, "Page")
	block := env.createTextBlock(t, page.ID, "still created")

	assert.Nil(t, block.VectorID, "embedding failure must not fail the write")

	reloaded, err := env.blocks.Get(context.Background(), testOrg, block.ID)
	require.NoError(t, err)
	assert.Equal(t, "still created", reloaded.SearchableText())
}

func TestBlockCreateValidatesContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")

	_, err := env.blocks.Create(ctx, testOrg, testUser, page.ID, driving.CreateBlockRequest{
		Kind:    domain.BlockHeading,
		Content: map[string]any{"text": "Deep", "level": 7},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.blocks.Create(ctx, testOrg, testUser, page.ID, driving.CreateBlockRequest{
		Kind:    domain.BlockLink,
		Content: map[string]any{"text": "no url"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlockCreateExplicitPositionShiftsSiblings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	first := env.createTextBlock(t, page.ID, "first")
	second := env.createTextBlock(t, page.ID, "second")

	pos := 0
	inserted, err := env.blocks.Create(ctx, testOrg, testUser, page.ID, driving.CreateBlockRequest{
		Kind:     domain.BlockText,
		Content:  map[string]any{"text": "newcomer"},
		Position: &pos,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted.Position)

	blocks, err := env.blocks.ListByPage(ctx, testOrg, page.ID, "", nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, inserted.ID, blocks[0].ID)
	assert.Equal(t, first.ID, blocks[1].ID)
	assert.Equal(t, second.ID, blocks[2].ID)
}

func TestBlockCreateRejectsArchivedPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	require.NoError(t, env.pages.Archive(ctx, testOrg, page.ID))

	_, err := env.blocks.Create(ctx, testOrg, testUser, page.ID, driving.CreateBlockRequest{
		Kind:    domain.BlockText,
		Content: map[string]any{"text": "x"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlockCreateBatchPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")

	items, err := env.blocks.CreateBatch(ctx, testOrg, testUser, page.ID, []driving.CreateBlockRequest{
		{Kind: domain.BlockText, Content: map[string]any{"text": "good"}},
		{Kind: domain.BlockHeading, Content: map[string]any{"level": 9}},
		{Kind: domain.BlockText, Content: map[string]any{"text": "also good"}},
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.NoError(t, items[0].Err)
	assert.ErrorIs(t, items[1].Err, domain.ErrInvalidInput)
	assert.NoError(t, items[2].Err)
	assert.Nil(t, items[1].Block)

	blocks, err := env.blocks.ListByPage(ctx, testOrg, page.ID, "", nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, blocks, 2, "failed item must not appear")
}

func TestBlockCreateBatchSizeLimit(t *testing.T) {
	env := newTestEnv(t)

	page := env.createPage(t, "Page")
	reqs := make([]driving.CreateBlockRequest, maxBatchSize+1)
	for i := range reqs {
		reqs[i] = driving.CreateBlockRequest{Kind: domain.BlockText, Content: map[string]any{"text": "x"}}
	}

	_, err := env.blocks.CreateBatch(context.Background(), testOrg, testUser, page.ID, reqs)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlockUpdateReplacesEmbedding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	block := env.createTextBlock(t, page.ID, "original wording")
	require.NotNil(t, block.VectorID)
	oldVector := *block.VectorID

	updated, err := env.blocks.Update(ctx, testOrg, block.ID, driving.UpdateBlockRequest{
		Content: map[string]any{"text": "rewritten wording"},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.VectorID)
	assert.NotEqual(t, oldVector, *updated.VectorID)
	assert.Equal(t, 1, env.vectors.Len(), "old vector must be deleted")
}

func TestBlockListByPageKindFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	env.createTextBlock(t, page.ID, "plain")
	_, err := env.blocks.Create(ctx, testOrg, testUser, page.ID, driving.CreateBlockRequest{
		Kind:    domain.BlockTask,
		Content: map[string]any{"text": "do it"},
	})
	require.NoError(t, err)

	tasks, err := env.blocks.ListByPage(ctx, testOrg, page.ID, domain.BlockTask, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.BlockTask, tasks[0].Kind)
}

func TestBlockListExcludesArchived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	keep := env.createTextBlock(t, page.ID, "keep")
	gone := env.createTextBlock(t, page.ID, "gone")
	require.NoError(t, env.blocks.Archive(ctx, testOrg, gone.ID))

	blocks, err := env.blocks.ListByPage(ctx, testOrg, page.ID, "", nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, keep.ID, blocks[0].ID)
}

func TestBlockMoveShiftsDestinationGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	a := env.createTextBlock(t, page.ID, "a")
	b := env.createTextBlock(t, page.ID, "b")
	c := env.createTextBlock(t, page.ID, "c")

	moved, err := env.blocks.Move(ctx, testOrg, c.ID, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Position)

	blocks, err := env.blocks.ListByPage(ctx, testOrg, page.ID, "", nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, c.ID, blocks[0].ID)
	assert.Equal(t, a.ID, blocks[1].ID)
	assert.Equal(t, b.ID, blocks[2].ID)
}

func TestBlockMoveRejectsDescendantParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	parent := env.createTextBlock(t, page.ID, "parent")

	child, err := env.blocks.Create(ctx, testOrg, testUser, page.ID, driving.CreateBlockRequest{
		Kind:          domain.BlockText,
		Content:       map[string]any{"text": "child"},
		ParentBlockID: &parent.ID,
	})
	require.NoError(t, err)

	_, err = env.blocks.Move(ctx, testOrg, parent.ID, &child.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descendant move is a validation failure")
	assert.NotErrorIs(t, err, domain.ErrCircularReference)

	_, err = env.blocks.Move(ctx, testOrg, parent.ID, &parent.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "self-move is a validation failure")
}

func TestBlockConvertPreservesText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	block := env.createTextBlock(t, page.ID, "line one\nline two")

	converted, err := env.blocks.Convert(ctx, testOrg, block.ID, domain.BlockList)
	require.NoError(t, err)
	assert.Equal(t, domain.BlockList, converted.Kind)

	list, ok := converted.Content.(domain.ListContent)
	require.True(t, ok)
	assert.Equal(t, []string{"line one", "line two"}, list.Items)
}

func TestBlockConvertToLinkRequiresExistingTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	block := env.createTextBlock(t, page.ID, "no url here")

	_, err := env.blocks.Convert(ctx, testOrg, block.ID, domain.BlockLink)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
