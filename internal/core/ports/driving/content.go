package driving

import (
	"context"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
)

// CreatePageRequest carries the caller-supplied fields for a new page.
type CreatePageRequest struct {
	// Title is required.
	Title string

	// Icon is an optional emoji or icon identifier.
	Icon string

	// CoverImage is an optional URL or file reference.
	CoverImage string

	// ParentID nests the page under another page when set.
	ParentID *string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any
}

// UpdatePageRequest carries partial page updates. Nil fields are left
// unchanged.
type UpdatePageRequest struct {
	Title      *string
	Icon       *string
	CoverImage *string
	Favorite   *bool
	Metadata   map[string]any
}

// PageFilters narrows a page listing.
type PageFilters struct {
	// ParentID filters to children of one page. The inner pointer nil
	// means root pages; an unset outer pointer means no parent filter.
	ParentID **string

	// IncludeArchived includes archived pages, excluded by default.
	IncludeArchived bool

	// Favorite filters by favorite flag when set.
	Favorite *bool
}

// PageService manages workspace pages.
type PageService interface {
	// Create creates a page, appending it to its parent's children.
	Create(ctx context.Context, orgID, userID string, req CreatePageRequest) (*domain.Page, error)

	// Get retrieves a page by id within the organization.
	Get(ctx context.Context, orgID, pageID string) (*domain.Page, error)

	// List returns pages matching the filters, in sibling order.
	List(ctx context.Context, orgID string, filters PageFilters, limit, offset int) ([]domain.Page, error)

	// Update applies a partial update.
	Update(ctx context.Context, orgID, pageID string, req UpdatePageRequest) (*domain.Page, error)

	// Archive soft-deletes a page. The page and its descendants drop
	// out of ordering and search but remain stored.
	Archive(ctx context.Context, orgID, pageID string) error

	// Move re-parents a page (nil for root) and appends it to the new
	// parent's children. Moving a page under its own descendant fails.
	Move(ctx context.Context, orgID, pageID string, newParentID *string) (*domain.Page, error)
}

// CreateBlockRequest carries the caller-supplied fields for a new block.
type CreateBlockRequest struct {
	// Kind is the block type.
	Kind domain.BlockKind

	// Content is the raw payload, validated against Kind.
	Content map[string]any

	// Position places the block explicitly; nil appends to the end.
	Position *int

	// ParentBlockID nests the block under another block.
	ParentBlockID *string

	// Properties contains presentation attributes.
	Properties map[string]any
}

// UpdateBlockRequest carries partial block updates.
type UpdateBlockRequest struct {
	// Content replaces the payload when non-nil; the embedding is
	// regenerated.
	Content map[string]any

	// Properties replaces presentation attributes when non-nil.
	Properties map[string]any
}

// BatchItem is the per-item outcome of a batch create. Batch creation
// is a sequence of independent operations; partial success is reported
// item by item.
type BatchItem struct {
	// Index is the item's position in the request.
	Index int

	// Block is the created block, nil on failure.
	Block *domain.Block

	// Err is the item's failure, nil on success.
	Err error
}

// BlockService manages content blocks.
type BlockService interface {
	// Create creates a block in a page, generating and storing an
	// embedding when the payload yields searchable text.
	Create(ctx context.Context, orgID, userID, pageID string, req CreateBlockRequest) (*domain.Block, error)

	// CreateBatch creates up to 100 blocks as independent operations,
	// reporting per-item results.
	CreateBatch(ctx context.Context, orgID, userID, pageID string, reqs []CreateBlockRequest) ([]BatchItem, error)

	// Get retrieves a block by id within the organization.
	Get(ctx context.Context, orgID, blockID string) (*domain.Block, error)

	// ListByPage returns a page's blocks in position order, optionally
	// filtered by kind and parent block.
	ListByPage(ctx context.Context, orgID, pageID string, kind domain.BlockKind, parentBlockID *string, limit, offset int) ([]domain.Block, error)

	// Update applies a partial update, regenerating the embedding if
	// the content changed.
	Update(ctx context.Context, orgID, blockID string, req UpdateBlockRequest) (*domain.Block, error)

	// Move reorders a block, optionally re-parenting it within its
	// page. Siblings at or after the new position shift by one.
	Move(ctx context.Context, orgID, blockID string, newParentBlockID *string, newPosition int) (*domain.Block, error)

	// Convert changes the block's kind, preserving text where the
	// kinds share a textual representation.
	Convert(ctx context.Context, orgID, blockID string, newKind domain.BlockKind) (*domain.Block, error)

	// Archive soft-deletes a block.
	Archive(ctx context.Context, orgID, blockID string) error
}
