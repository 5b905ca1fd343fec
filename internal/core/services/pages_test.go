package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
)

func TestPageCreateAppendsSiblings(t *testing.T) {
	env := newTestEnv(t)

	first := env.createPage(t, "First")
	second := env.createPage(t, "Second")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
}

func TestPageCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.pages.Create(ctx, testOrg, testUser, driving.CreatePageRequest{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := "no-such-page"
	_, err = env.pages.Create(ctx, testOrg, testUser, driving.CreatePageRequest{
		Title:    "Child",
		ParentID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPageCreateRejectsArchivedParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := env.createPage(t, "Parent")
	require.NoError(t, env.pages.Archive(ctx, testOrg, parent.ID))

	_, err := env.pages.Create(ctx, testOrg, testUser, driving.CreatePageRequest{
		Title:    "Child",
		ParentID: &parent.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPageChildrenScopeIndependently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := env.createPage(t, "Parent")
	child, err := env.pages.Create(ctx, testOrg, testUser, driving.CreatePageRequest{
		Title:    "Child",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)

	// First child of the parent starts at 0 despite root siblings.
	assert.Equal(t, 0, child.Position)
}

func TestPageListSiblingOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createPage(t, "A")
	env.createPage(t, "B")
	env.createPage(t, "C")

	var root *string
	pages, err := env.pages.List(ctx, testOrg, driving.PageFilters{ParentID: &root}, 10, 0)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "A", pages[0].Title)
	assert.Equal(t, "B", pages[1].Title)
	assert.Equal(t, "C", pages[2].Title)
}

func TestPageListExcludesArchivedByDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	keep := env.createPage(t, "Keep")
	gone := env.createPage(t, "Gone")
	require.NoError(t, env.pages.Archive(ctx, testOrg, gone.ID))

	pages, err := env.pages.List(ctx, testOrg, driving.PageFilters{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, keep.ID, pages[0].ID)

	pages, err = env.pages.List(ctx, testOrg, driving.PageFilters{IncludeArchived: true}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestPageListFavoriteFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createPage(t, "Plain")
	fav := env.createPage(t, "Starred")
	isFav := true
	_, err := env.pages.Update(ctx, testOrg, fav.ID, driving.UpdatePageRequest{Favorite: &isFav})
	require.NoError(t, err)

	pages, err := env.pages.List(ctx, testOrg, driving.PageFilters{Favorite: &isFav}, 10, 0)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, fav.ID, pages[0].ID)
}

func TestPageUpdateFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Original")

	title := "Renamed"
	icon := "🌊"
	updated, err := env.pages.Update(ctx, testOrg, page.ID, driving.UpdatePageRequest{
		Title: &title,
		Icon:  &icon,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "🌊", updated.Icon)

	reloaded, err := env.pages.Get(ctx, testOrg, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Title)
}

func TestPageMoveAppendsToNewParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := env.createPage(t, "Parent")
	_, err := env.pages.Create(ctx, testOrg, testUser, driving.CreatePageRequest{
		Title:    "Existing child",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)

	mover := env.createPage(t, "Mover")
	moved, err := env.pages.Move(ctx, testOrg, mover.ID, &parent.ID)
	require.NoError(t, err)

	assert.Equal(t, &parent.ID, moved.ParentID)
	assert.Equal(t, 1, moved.Position, "moved page appends after existing children")
}

func TestPageMoveRejectsCycles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	grandparent := env.createPage(t, "Grandparent")
	parent, err := env.pages.Create(ctx, testOrg, testUser, driving.CreatePageRequest{
		Title:    "Parent",
		ParentID: &grandparent.ID,
	})
	require.NoError(t, err)

	_, err = env.pages.Move(ctx, testOrg, grandparent.ID, &grandparent.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "self-move is a validation failure")

	_, err = env.pages.Move(ctx, testOrg, grandparent.ID, &parent.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descendant move is a validation failure")
	assert.NotErrorIs(t, err, domain.ErrCircularReference)
}

func TestPageMoveToRoot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := env.createPage(t, "Parent")
	child, err := env.pages.Create(ctx, testOrg, testUser, driving.CreatePageRequest{
		Title:    "Child",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)

	moved, err := env.pages.Move(ctx, testOrg, child.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
	assert.Equal(t, 1, moved.Position, "appended after the root sibling")
}

func TestPageTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Mine")

	_, err := env.pages.Get(ctx, "other-org", page.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPageArchiveIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page := env.createPage(t, "Page")
	require.NoError(t, env.pages.Archive(ctx, testOrg, page.ID))
	require.NoError(t, env.pages.Archive(ctx, testOrg, page.ID))

	reloaded, err := env.pages.Get(ctx, testOrg, page.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Archived)
}
