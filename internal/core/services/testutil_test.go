package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/adapters/driven/storage/memory"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/ports/driving"
)

const (
	testOrg  = "org-1"
	testUser = "user-1"
)

// testEnv bundles the services over shared in-memory stores.
type testEnv struct {
	rows    *memory.RowStore
	vectors *memory.VectorStore
	pages   *PageService
	blocks  *BlockService
	links   *LinkService
	tags    *TagService
	search  *SearchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rows := memory.NewRowStore()
	vectors := memory.NewVectorStore()

	return &testEnv{
		rows:    rows,
		vectors: vectors,
		pages:   NewPageService(rows),
		blocks:  NewBlockService(rows, vectors, ""),
		links:   NewLinkService(rows),
		tags:    NewTagService(rows),
		search:  NewSearchService(rows, vectors, ""),
	}
}

// createPage creates a root page for tests.
func (e *testEnv) createPage(t *testing.T, title string) *domain.Page {
	t.Helper()

	page, err := e.pages.Create(context.Background(), testOrg, testUser, driving.CreatePageRequest{
		Title: title,
	})
	require.NoError(t, err)
	return page
}

// createTextBlock creates a text block on a page.
func (e *testEnv) createTextBlock(t *testing.T, pageID, text string) *domain.Block {
	t.Helper()

	block, err := e.blocks.Create(context.Background(), testOrg, testUser, pageID, driving.CreateBlockRequest{
		Kind:    domain.BlockText,
		Content: map[string]any{"text": text},
	})
	require.NoError(t, err)
	return block
}

// fixedTime pins the service clocks so timestamps are deterministic.
func (e *testEnv) fixedTime(ts time.Time) {
	e.pages.now = func() time.Time { return ts }
	e.blocks.now = func() time.Time { return ts }
	e.links.now = func() time.Time { return ts }
	e.tags.now = func() time.Time { return ts }
}
