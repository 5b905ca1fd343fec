package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
)

func TestTagCreateRejectsDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tags.Create(ctx, testOrg, "research", "blue", "")
	require.NoError(t, err)

	_, err = env.tags.Create(ctx, testOrg, "research", "red", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// Another tenant can reuse the name.
	_, err = env.tags.Create(ctx, "other-org", "research", "blue", "")
	assert.NoError(t, err)
}

func TestTagAssignIncrementsUsageOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	block := env.createTextBlock(t, page.ID, "tagged")
	tag, err := env.tags.Create(ctx, testOrg, "urgent", "", "")
	require.NoError(t, err)

	_, err = env.tags.Assign(ctx, testOrg, tag.ID, block.ID)
	require.NoError(t, err)

	_, err = env.tags.Assign(ctx, testOrg, tag.ID, block.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	tags, err := env.tags.TagsForBlock(ctx, testOrg, block.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 1, tags[0].UsageCount, "duplicate assign must not double count")
}

func TestTagUnassignDecrementsWithFloor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	block := env.createTextBlock(t, page.ID, "tagged")
	tag, err := env.tags.Create(ctx, testOrg, "todo", "", "")
	require.NoError(t, err)

	_, err = env.tags.Assign(ctx, testOrg, tag.ID, block.ID)
	require.NoError(t, err)
	require.NoError(t, env.tags.Unassign(ctx, testOrg, tag.ID, block.ID))

	tags, err := env.tags.List(ctx, testOrg, driving.TagSortName, 10, 0)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, 0, tags[0].UsageCount)

	// Unassigning again reports the missing assignment.
	err = env.tags.Unassign(ctx, testOrg, tag.ID, block.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagListSorting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	block := env.createTextBlock(t, page.ID, "x")

	zebra, err := env.tags.Create(ctx, testOrg, "zebra", "", "")
	require.NoError(t, err)
	_, err = env.tags.Create(ctx, testOrg, "alpha", "", "")
	require.NoError(t, err)

	_, err = env.tags.Assign(ctx, testOrg, zebra.ID, block.ID)
	require.NoError(t, err)

	byName, err := env.tags.List(ctx, testOrg, driving.TagSortName, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "alpha", byName[0].Name)

	byUsage, err := env.tags.List(ctx, testOrg, driving.TagSortUsage, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "zebra", byUsage[0].Name)
}

func TestTagUpdateRenameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tags.Create(ctx, testOrg, "first", "", "")
	require.NoError(t, err)
	second, err := env.tags.Create(ctx, testOrg, "second", "", "")
	require.NoError(t, err)

	name := "first"
	_, err = env.tags.Update(ctx, testOrg, second.ID, driving.UpdateTagRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	name = "renamed"
	updated, err := env.tags.Update(ctx, testOrg, second.ID, driving.UpdateTagRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
}

func TestTagDeleteCascadesAssignments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	block := env.createTextBlock(t, page.ID, "x")
	tag, err := env.tags.Create(ctx, testOrg, "doomed", "", "")
	require.NoError(t, err)
	_, err = env.tags.Assign(ctx, testOrg, tag.ID, block.ID)
	require.NoError(t, err)

	require.NoError(t, env.tags.Delete(ctx, testOrg, tag.ID))

	assert.Equal(t, 0, env.rows.Count(tableTags))
	assert.Equal(t, 0, env.rows.Count(tableTagAssignments))

	tags, err := env.tags.TagsForBlock(ctx, testOrg, block.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
